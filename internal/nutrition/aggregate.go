// Package nutrition reduces meal lists to calorie/protein totals.
// All functions are pure and never fail: malformed fields have already been
// normalized to zero values by the model package.
package nutrition

import "github.com/plansheet/plansheet/internal/model"

// Totals holds the aggregated values for one day.
type Totals struct {
	Calories  float64
	Protein   float64
	MealCount int
}

// Aggregate sums calories and protein across all ingredients of all meals.
// A meal with no ingredients contributes nothing to the sums but still
// counts as one meal.
func Aggregate(meals []model.Meal) Totals {
	t := Totals{MealCount: len(meals)}
	for _, meal := range meals {
		for _, ing := range meal.Ingredients {
			t.Calories += float64(ing.Calories)
			t.Protein += float64(ing.Protein)
		}
	}
	return t
}

// DaySummary pairs a day name with its totals, in request order.
type DaySummary struct {
	Day string
	Totals
}

// Summarize aggregates every day of a plan, preserving day order.
func Summarize(days []model.DayPlan) []DaySummary {
	summaries := make([]DaySummary, 0, len(days))
	for _, d := range days {
		summaries = append(summaries, DaySummary{Day: d.Name, Totals: Aggregate(d.Meals)})
	}
	return summaries
}
