package kitchen

import "errors"

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrInvalidDays    = errors.New("plan length must be greater than 0")
	ErrPlanLength     = errors.New("meal plan has the wrong number of days")
)
