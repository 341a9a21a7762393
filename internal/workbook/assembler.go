// Package workbook assembles a meal plan into a binary spreadsheet artifact.
package workbook

import (
	"fmt"

	"github.com/plansheet/plansheet/internal/model"
	"github.com/plansheet/plansheet/internal/nutrition"
	"github.com/plansheet/plansheet/internal/sheet"
)

// SummarySheetName titles the aggregate tab appended after all day tabs.
const SummarySheetName = "Summary"

// Assembler builds workbooks from meal-plan requests via an injected Encoder.
type Assembler struct {
	enc Encoder
}

// NewAssembler creates an Assembler backed by enc.
func NewAssembler(enc Encoder) *Assembler {
	return &Assembler{enc: enc}
}

// Assemble builds one detail sheet per day in request order, then the summary
// sheet last, and encodes the set. The encoder call is the only failure point;
// there is no partial workbook state to recover, so failures are returned
// as-is without retry.
func (a *Assembler) Assemble(req model.MealPlanRequest) ([]byte, error) {
	sheets := make([]Sheet, 0, len(req.Days)+1)
	for _, day := range req.Days {
		sheets = append(sheets, Sheet{Name: day.Name, Rows: sheet.Detail(day.Meals)})
	}
	sheets = append(sheets, Sheet{
		Name: SummarySheetName,
		Rows: sheet.Summary(req.CalorieTarget, req.ProteinTarget, nutrition.Summarize(req.Days)),
	})

	data, err := a.enc.Encode(sheets)
	if err != nil {
		return nil, fmt.Errorf("workbook: assemble: %w", err)
	}
	return data, nil
}
