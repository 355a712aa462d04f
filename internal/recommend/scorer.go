package recommend

import (
	"fmt"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PageSize caps how many results one scoring pass returns.
const PageSize = 12

const (
	moodMatchPoints = 50
	rulePoints      = 10
	// durationGraceMinutes is the fixed buffer added to the user's time
	// budget before a candidate is considered too long.
	durationGraceMinutes = 15
)

// energyBands is the numeric intensity band per energy level.
var energyBands = map[Energy][2]int{
	EnergyLow:  {1, 2},
	EnergyMed:  {2, 4},
	EnergyHigh: {4, 5},
}

// energyTags maps an energy level to the catalog tag an item may carry.
// The tag rule and the numeric band rule run independently; a candidate
// tagged inside its band earns both.
var energyTags = map[Energy]string{
	EnergyLow:  "low-energy",
	EnergyMed:  "medium-energy",
	EnergyHigh: "high-energy",
}

var titleCaser = cases.Title(language.English)

// Score ranks candidates for the input. Candidates outside the input mood
// are excluded; survivors accumulate points from independent additive rules,
// each recorded as a reason. Results are ordered by score descending with
// case-sensitive title order breaking ties, and capped at PageSize.
//
// An empty catalog or no mood match yields an empty slice, not an error.
func Score(input Input, candidates []CandidateItem) []ScoredResult {
	results := make([]ScoredResult, 0, len(candidates))
	for _, item := range candidates {
		if item.Mood != input.Mood {
			continue
		}
		results = append(results, scoreOne(input, item))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Item.Title < results[j].Item.Title
	})

	if len(results) > PageSize {
		results = results[:PageSize]
	}
	return results
}

func scoreOne(input Input, item CandidateItem) ScoredResult {
	result := ScoredResult{Item: item}
	add := func(label string, points int) {
		result.Reasons = append(result.Reasons, Reason{Label: label, Points: points})
		result.Score += points
	}

	add(fmt.Sprintf("Matches your %s mood", titleCaser.String(string(input.Mood))), moodMatchPoints)

	if tag, ok := energyTags[input.Energy]; ok && item.HasTag(tag) {
		add(fmt.Sprintf("Tagged for %s energy", input.Energy), rulePoints)
	}
	if band, ok := energyBands[input.Energy]; ok && item.Intensity >= band[0] && item.Intensity <= band[1] {
		add(fmt.Sprintf("Matches %s-energy preference", input.Energy), rulePoints)
	}

	switch input.Social {
	case SocialSolo:
		if item.HasTag("solo") {
			add("Good for going solo", rulePoints)
		}
	case SocialSocial:
		if item.HasTag("social") {
			add("Good with company", rulePoints)
		}
	}

	switch input.Budget {
	case BudgetFree:
		if item.HasTag("free") {
			add("Free activity", rulePoints)
		}
	case BudgetLow:
		if item.HasTag("low-cost") {
			add("Low-cost activity", rulePoints)
		}
	}

	if item.DurationMinutes <= input.TimeAvailable+durationGraceMinutes {
		add("Fits your time window", rulePoints)
	}

	switch {
	case input.Budget == BudgetFree && item.CostLevel == 0:
		add("Costs nothing", rulePoints)
	case input.Budget == BudgetLow && item.CostLevel <= 1:
		add("Within a small budget", rulePoints)
	case input.Budget == BudgetAny:
		add("Within your budget", rulePoints)
	}

	return result
}
