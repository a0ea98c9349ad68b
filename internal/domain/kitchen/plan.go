package kitchen

import (
	"fmt"
	"sort"
)

// DefaultPlanDays is used when no plan length has been chosen.
const DefaultPlanDays = 3

// PlanDayOptions are the plan lengths offered to the user. Any positive
// length is accepted.
var PlanDayOptions = []int{1, 3, 5, 7}

// MealPlanDay is one day of a plan. A meal may be missing when the model
// left it out.
type MealPlanDay struct {
	Day       int     `json:"day" yaml:"day"`
	Breakfast *Recipe `json:"breakfast,omitempty" yaml:"breakfast,omitempty"`
	Lunch     *Recipe `json:"lunch,omitempty" yaml:"lunch,omitempty"`
	Dinner    *Recipe `json:"dinner,omitempty" yaml:"dinner,omitempty"`
}

// ValidateDays rejects non-positive plan lengths.
func ValidateDays(days int) error {
	if days <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDays, days)
	}
	return nil
}

// NormalizePlan checks the plan has exactly days entries, orders them by the
// day the model assigned and renumbers them 1..days.
func NormalizePlan(plan []MealPlanDay, days int) ([]MealPlanDay, error) {
	if err := ValidateDays(days); err != nil {
		return nil, err
	}
	if len(plan) != days {
		return nil, fmt.Errorf("%w: want %d days, got %d", ErrPlanLength, days, len(plan))
	}

	out := make([]MealPlanDay, len(plan))
	copy(out, plan)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	for i := range out {
		out[i].Day = i + 1
	}
	return out, nil
}
