package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMealPlanRequest_PreservesDayOrder(t *testing.T) {
	// Key order of the days object must survive decoding; it drives sheet order.
	body := `{
		"calorie_target": 2000,
		"days": {
			"Wednesday": [],
			"Monday": [],
			"Friday": [],
			"Tuesday": []
		}
	}`

	var req MealPlanRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	names := make([]string, 0, len(req.Days))
	for _, d := range req.Days {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Wednesday", "Monday", "Friday", "Tuesday"}, names)
}

func TestMealPlanRequest_DropsMalformedDays(t *testing.T) {
	body := `{
		"days": {
			"Monday": [{"meal_name": "Breakfast"}],
			"Tuesday": "not a meal list",
			"Wednesday": 42,
			"Thursday": {"meal_name": "also wrong"},
			"Saturday": null,
			"Friday": []
		}
	}`

	var req MealPlanRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	require.Len(t, req.Days, 2)
	assert.Equal(t, "Monday", req.Days[0].Name)
	assert.Equal(t, "Friday", req.Days[1].Name)
}

func TestMealPlanRequest_EmptyAndAbsentDays(t *testing.T) {
	for name, body := range map[string]string{
		"absent":     `{}`,
		"null":       `{"days": null}`,
		"empty":      `{"days": {}}`,
		"not object": `{"days": [1, 2, 3]}`,
	} {
		t.Run(name, func(t *testing.T) {
			var req MealPlanRequest
			require.NoError(t, json.Unmarshal([]byte(body), &req))
			assert.Empty(t, req.Days)
		})
	}
}

func TestMealPlanRequest_Targets(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		var req MealPlanRequest
		require.NoError(t, json.Unmarshal([]byte(`{"calorie_target": 2000, "protein_target": 150}`), &req))
		require.NotNil(t, req.CalorieTarget)
		require.NotNil(t, req.ProteinTarget)
		assert.Equal(t, Number(2000), *req.CalorieTarget)
		assert.Equal(t, Number(150), *req.ProteinTarget)
	})

	t.Run("absent", func(t *testing.T) {
		var req MealPlanRequest
		require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
		assert.Nil(t, req.CalorieTarget)
		assert.Nil(t, req.ProteinTarget)
	})
}

func TestNumber_ToleratesMalformedValues(t *testing.T) {
	cases := map[string]struct {
		input string
		want  Number
	}{
		"number":             {`140`, 140},
		"float":              {`12.5`, 12.5},
		"numeric string":     {`"140"`, 140},
		"padded string":      {`" 42 "`, 42},
		"null":               {`null`, 0},
		"non-numeric string": {`"plenty"`, 0},
		"object":             {`{"value": 1}`, 0},
		"array":              {`[1]`, 0},
		"bool":               {`true`, 0},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tc.input), &n))
			assert.Equal(t, tc.want, n)
		})
	}
}

func TestIngredient_DefaultsAndTolerance(t *testing.T) {
	t.Run("missing fields default to zero values", func(t *testing.T) {
		var ing Ingredient
		require.NoError(t, json.Unmarshal([]byte(`{"name": "Egg"}`), &ing))
		assert.Equal(t, "Egg", ing.Name)
		assert.Zero(t, ing.Quantity)
		assert.Zero(t, ing.Calories)
		assert.Zero(t, ing.Protein)
		assert.Empty(t, ing.Unit)
	})

	t.Run("non-object degrades to zero ingredient", func(t *testing.T) {
		var ing Ingredient
		require.NoError(t, json.Unmarshal([]byte(`"just a string"`), &ing))
		assert.Equal(t, Ingredient{}, ing)
	})
}

func TestMeal_ToleratesMalformedEntries(t *testing.T) {
	// One malformed meal in a list must not fail the list; it decodes as an
	// empty meal and still counts toward the day's meal count.
	var meals []Meal
	body := `[{"meal_name": "Breakfast", "ingredients": [{"name": "Egg", "calories": 140}]}, 17]`
	require.NoError(t, json.Unmarshal([]byte(body), &meals))

	require.Len(t, meals, 2)
	assert.Equal(t, "Breakfast", meals[0].Name)
	require.Len(t, meals[0].Ingredients, 1)
	assert.Equal(t, Meal{}, meals[1])
}
