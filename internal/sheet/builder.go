// Package sheet builds the row matrices consumed by the workbook encoder.
// Builders are deterministic: identical input always yields identical output.
package sheet

import (
	"github.com/plansheet/plansheet/internal/model"
	"github.com/plansheet/plansheet/internal/nutrition"
)

// NotSpecified is shown in the summary sheet when a target is absent.
const NotSpecified = "Not specified"

// detailHeader is row 0 of every per-day detail sheet.
var detailHeader = []any{"Meal Name", "Ingredient", "Quantity", "Unit", "Calories", "Protein"}

// Detail builds the per-day detail matrix: one row per ingredient, with the
// meal name shown only on the meal's first row so consecutive rows of the
// same meal read as a merged group without real cell merges. Each meal with
// ingredients is followed by one empty separator row; a meal with zero
// ingredients emits nothing.
func Detail(meals []model.Meal) [][]any {
	rows := [][]any{detailHeader}
	for _, meal := range meals {
		if len(meal.Ingredients) == 0 {
			continue
		}
		name := meal.Name
		if name == "" {
			name = model.UnnamedMeal
		}
		for i, ing := range meal.Ingredients {
			mealCell := ""
			if i == 0 {
				mealCell = name
			}
			ingName := ing.Name
			if ingName == "" {
				ingName = model.UnknownIngredient
			}
			rows = append(rows, []any{
				mealCell,
				ingName,
				float64(ing.Quantity),
				ing.Unit,
				float64(ing.Calories),
				float64(ing.Protein),
			})
		}
		rows = append(rows, []any{"", "", "", "", "", ""})
	}
	return rows
}

// Summary builds the summary matrix: the two target rows, a blank row, the
// per-day header, then one row per day in request order.
func Summary(calorieTarget, proteinTarget *model.Number, days []nutrition.DaySummary) [][]any {
	rows := [][]any{
		{"Daily Calorie Target", targetCell(calorieTarget)},
		{"Daily Protein Target", targetCell(proteinTarget)},
		{""},
		{"Day", "Total Calories", "Total Protein", "# of Meals"},
	}
	for _, d := range days {
		rows = append(rows, []any{d.Day, d.Calories, d.Protein, d.MealCount})
	}
	return rows
}

// targetCell renders a nutrition target. A zero target reads the same as an
// absent one: there is no meaningful zero-calorie goal.
func targetCell(n *model.Number) any {
	if n == nil || *n == 0 {
		return NotSpecified
	}
	return float64(*n)
}
