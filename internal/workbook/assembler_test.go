package workbook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plansheet/plansheet/internal/model"
)

// captureEncoder records the sheet set it was asked to encode.
type captureEncoder struct {
	sheets []Sheet
	err    error
}

func (c *captureEncoder) Encode(sheets []Sheet) ([]byte, error) {
	c.sheets = sheets
	if c.err != nil {
		return nil, c.err
	}
	return []byte("encoded"), nil
}

func num(v float64) *model.Number {
	n := model.Number(v)
	return &n
}

func TestAssemble_SheetOrderAndContent(t *testing.T) {
	req := model.MealPlanRequest{
		CalorieTarget: num(2000),
		ProteinTarget: num(150),
		Days: []model.DayPlan{
			{
				Name: "Monday",
				Meals: []model.Meal{
					{
						Name: "Breakfast",
						Ingredients: []model.Ingredient{
							{Name: "Egg", Quantity: 2, Unit: "pcs", Calories: 140, Protein: 12},
						},
					},
				},
			},
			{Name: "Tuesday"},
		},
	}

	enc := &captureEncoder{}
	data, err := NewAssembler(enc).Assemble(req)
	require.NoError(t, err)
	assert.Equal(t, []byte("encoded"), data)

	require.Len(t, enc.sheets, 3)
	assert.Equal(t, "Monday", enc.sheets[0].Name)
	assert.Equal(t, "Tuesday", enc.sheets[1].Name)
	assert.Equal(t, SummarySheetName, enc.sheets[2].Name)

	// Monday detail: header, one ingredient row, one separator.
	monday := enc.sheets[0].Rows
	require.Len(t, monday, 3)
	assert.Equal(t, []any{"Breakfast", "Egg", 2.0, "pcs", 140.0, 12.0}, monday[1])

	// Summary: targets, blank, header, one row per day.
	summary := enc.sheets[2].Rows
	require.Len(t, summary, 6)
	assert.Equal(t, []any{"Monday", 140.0, 12.0, 1}, summary[4])
	assert.Equal(t, []any{"Tuesday", 0.0, 0.0, 0}, summary[5])
}

func TestAssemble_EmptyPlanHasOnlySummary(t *testing.T) {
	enc := &captureEncoder{}
	_, err := NewAssembler(enc).Assemble(model.MealPlanRequest{})
	require.NoError(t, err)

	require.Len(t, enc.sheets, 1)
	assert.Equal(t, SummarySheetName, enc.sheets[0].Name)

	rows := enc.sheets[0].Rows
	require.Len(t, rows, 4)
	assert.Equal(t, []any{"Daily Calorie Target", "Not specified"}, rows[0])
	assert.Equal(t, []any{"Daily Protein Target", "Not specified"}, rows[1])
}

func TestAssemble_EncoderFailureSurfaces(t *testing.T) {
	encErr := errors.New("unsupported cell value")
	enc := &captureEncoder{err: encErr}

	_, err := NewAssembler(enc).Assemble(model.MealPlanRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, encErr)
}
