package content

type CreateItemRequest struct {
	Title           string   `json:"title" validate:"required,max=200"`
	Kind            string   `json:"kind" validate:"required,oneof=article playlist activity"`
	Mood            string   `json:"mood" validate:"required,oneof=blank expansive heavy restless tender bright"`
	Tags            []string `json:"tags" validate:"omitempty,dive,max=40"`
	DurationMinutes int      `json:"duration_minutes" validate:"gt=0,lte=1440"`
	CostLevel       int      `json:"cost_level" validate:"gte=0,lte=3"`
	Intensity       int      `json:"intensity" validate:"gte=1,lte=5"`
	URL             *string  `json:"url,omitempty" validate:"omitempty,url"`
}

type UpdateItemRequest struct {
	Title           *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Kind            *string  `json:"kind,omitempty" validate:"omitempty,oneof=article playlist activity"`
	Mood            *string  `json:"mood,omitempty" validate:"omitempty,oneof=blank expansive heavy restless tender bright"`
	Tags            []string `json:"tags,omitempty" validate:"omitempty,dive,max=40"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" validate:"omitempty,gt=0,lte=1440"`
	CostLevel       *int     `json:"cost_level,omitempty" validate:"omitempty,gte=0,lte=3"`
	Intensity       *int     `json:"intensity,omitempty" validate:"omitempty,gte=1,lte=5"`
	URL             *string  `json:"url,omitempty" validate:"omitempty,url"`
	IsPublished     *bool    `json:"is_published,omitempty"`
}

type ListItemsRequest struct {
	Mood        *string `json:"mood,omitempty" validate:"omitempty,oneof=blank expansive heavy restless tender bright"`
	IsPublished *bool   `json:"is_published,omitempty"`
	Search      *string `json:"search,omitempty"`
	Limit       int     `json:"limit" validate:"gte=0,lte=200"`
	Offset      int     `json:"offset" validate:"gte=0"`
}
