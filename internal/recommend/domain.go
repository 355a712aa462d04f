// Package recommend ranks mood-tagged catalog items for a user's current
// situation. The scoring core is pure; fetching candidates is the
// repository's job.
package recommend

// Mood partitions the catalog. A candidate outside the requested mood is
// excluded outright, never merely penalized.
type Mood string

const (
	MoodBlank     Mood = "blank"
	MoodExpansive Mood = "expansive"
	MoodHeavy     Mood = "heavy"
	MoodRestless  Mood = "restless"
	MoodTender    Mood = "tender"
	MoodBright    Mood = "bright"
)

// Focus is what the user wants to get out of the session. Recorded with the
// request for analytics; the scorer itself keys off mood and the situational
// fields.
type Focus string

const (
	FocusUnwind  Focus = "unwind"
	FocusLearn   Focus = "learn"
	FocusCreate  Focus = "create"
	FocusConnect Focus = "connect"
	FocusMove    Focus = "move"
)

// Energy is the user's available energy level.
type Energy string

const (
	EnergyLow  Energy = "low"
	EnergyMed  Energy = "med"
	EnergyHigh Energy = "high"
)

// Social is the user's company preference.
type Social string

const (
	SocialSolo   Social = "solo"
	SocialSocial Social = "social"
	SocialEither Social = "either"
)

// Budget is the user's spending preference.
type Budget string

const (
	BudgetFree Budget = "free"
	BudgetLow  Budget = "low"
	BudgetAny  Budget = "any"
)

// Input is one user interaction's situational state. Constructed fresh per
// request and never persisted by the scorer.
type Input struct {
	Mood          Mood   `json:"mood" validate:"required,oneof=blank expansive heavy restless tender bright"`
	Focus         Focus  `json:"focus" validate:"omitempty,oneof=unwind learn create connect move"`
	TimeAvailable int    `json:"time_available" validate:"gte=0"`
	Energy        Energy `json:"energy" validate:"required,oneof=low med high"`
	Social        Social `json:"social" validate:"required,oneof=solo social either"`
	Budget        Budget `json:"budget" validate:"required,oneof=free low any"`
}

// CandidateItem is one recommendable piece of content. Immutable for the
// duration of a scoring pass.
type CandidateItem struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Mood            Mood     `json:"mood"`
	Tags            []string `json:"tags"`
	DurationMinutes int      `json:"duration_minutes"`
	CostLevel       int      `json:"cost_level"`
	Intensity       int      `json:"intensity"`
}

// HasTag reports whether the candidate carries the tag.
func (c CandidateItem) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Reason is one rule's contribution to a result's score.
type Reason struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// ScoredResult pairs a candidate with its total score and the itemized
// rules that produced it. Score always equals the sum of reason points.
type ScoredResult struct {
	Item    CandidateItem `json:"item"`
	Score   int           `json:"score"`
	Reasons []Reason      `json:"reasons"`
}
