// Package model defines the meal-plan request types and the tolerant JSON
// decoding rules applied at the API boundary.
package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Placeholder values substituted for missing string fields. Missing numeric
// fields degrade to 0. One malformed ingredient must never fail a whole plan.
const (
	UnnamedMeal       = "Unnamed Meal"
	UnknownIngredient = "Unknown"
)

// Number is a float64 that tolerates malformed JSON: numbers decode normally,
// numeric strings are parsed, and anything else (null, objects, non-numeric
// strings) decodes to 0 without error.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*n = Number(f)
			return nil
		}
	}
	*n = 0
	return nil
}

// Ingredient is one line item of a meal. Every field is optional on the wire.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity Number `json:"quantity"`
	Unit     string `json:"unit"`
	Calories Number `json:"calories"`
	Protein  Number `json:"protein"`
}

// UnmarshalJSON decodes an ingredient, degrading a non-object value to a
// zero ingredient instead of failing.
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	type alias Ingredient
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		*i = Ingredient{}
		return nil
	}
	*i = Ingredient(a)
	return nil
}

// Meal is a named list of ingredients. A meal with no ingredients still
// counts toward the day's meal count.
type Meal struct {
	Name        string       `json:"meal_name"`
	Ingredients []Ingredient `json:"ingredients"`
}

// UnmarshalJSON decodes a meal, degrading a malformed value to an empty meal
// instead of failing.
func (m *Meal) UnmarshalJSON(data []byte) error {
	type alias Meal
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		*m = Meal{}
		return nil
	}
	*m = Meal(a)
	return nil
}

// DayPlan is one day of the plan, in the order it appeared in the request.
type DayPlan struct {
	Name  string
	Meals []Meal
}

// MealPlanRequest is the body of POST /generate.
//
// Days preserves the key order of the request's "days" object because that
// order determines the workbook's sheet order. Day entries whose value is not
// an array of meals are silently dropped; they produce neither a detail sheet
// nor a summary row.
type MealPlanRequest struct {
	CalorieTarget *Number
	ProteinTarget *Number
	Days          []DayPlan
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *MealPlanRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		CalorieTarget *Number         `json:"calorie_target"`
		ProteinTarget *Number         `json:"protein_target"`
		Days          json.RawMessage `json:"days"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	days, err := decodeDays(raw.Days)
	if err != nil {
		return err
	}

	*r = MealPlanRequest{
		CalorieTarget: raw.CalorieTarget,
		ProteinTarget: raw.ProteinTarget,
		Days:          days,
	}
	return nil
}

// decodeDays walks the "days" object token by token so the map's insertion
// order survives decoding. encoding/json map decoding would lose it.
func decodeDays(raw json.RawMessage) ([]DayPlan, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		// "days" is not an object at all; treat as an empty plan.
		return nil, nil
	}

	var days []DayPlan
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := keyTok.(string) // object keys are always strings

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue // null is not a sequence of meals
		}

		var meals []Meal
		if err := json.Unmarshal(value, &meals); err != nil {
			continue // not a sequence of meals; drop the day
		}
		days = append(days, DayPlan{Name: name, Meals: meals})
	}
	return days, nil
}
