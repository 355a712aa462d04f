package content

import "time"

// Item is a catalog entry: one recommendable article, playlist or activity.
type Item struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Kind            string    `json:"kind" db:"kind"`
	Mood            string    `json:"mood" db:"mood"`
	Tags            []string  `json:"tags" db:"tags"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	CostLevel       int       `json:"cost_level" db:"cost_level"`
	Intensity       int       `json:"intensity" db:"intensity"`
	URL             *string   `json:"url,omitempty" db:"url"`
	IsPublished     bool      `json:"is_published" db:"is_published"`
	CreatedBy       int64     `json:"created_by" db:"created_by"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
