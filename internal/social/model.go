// Package social implements saves, echoes and waves on catalog items.
package social

import "time"

// Kind is one of the supported reaction kinds.
type Kind string

const (
	KindSave Kind = "save"
	KindEcho Kind = "echo"
	KindWave Kind = "wave"
)

// Valid reports whether the kind is one the API accepts.
func (k Kind) Valid() bool {
	switch k {
	case KindSave, KindEcho, KindWave:
		return true
	}
	return false
}

// Reaction records one user's reaction of a kind to one item. A user holds
// at most one reaction per (item, kind).
type Reaction struct {
	UserID    int64     `json:"user_id"`
	ItemID    int64     `json:"item_id"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// Counts aggregates reactions for one item.
type Counts struct {
	ItemID int64 `json:"item_id"`
	Saves  int   `json:"saves"`
	Echoes int   `json:"echoes"`
	Waves  int   `json:"waves"`
}
