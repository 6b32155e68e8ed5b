package recipe

import (
	"bytes"
	"strings"
	"testing"

	"foodgram-backend/entities"
)

func ri(name, unit string, amount int) *entities.RecipeIngredient {
	return &entities.RecipeIngredient{
		Amount:     amount,
		Ingredient: &entities.Ingredient{Name: name, MeasurementUnit: unit},
	}
}

func TestAggregateShoppingList(t *testing.T) {
	items := []*entities.RecipeIngredient{
		ri("мука", "г", 200),
		ri("яйцо", "шт", 2),
		ri("мука", "г", 100),
		{Amount: 5}, // dangling join row without a preloaded ingredient
	}

	result := AggregateShoppingList(items)

	if len(result) != 2 {
		t.Fatalf("expected 2 aggregated rows, got %d", len(result))
	}
	if result[0].Name != "мука" || result[0].Amount != 300 {
		t.Errorf("expected мука 300, got %s %d", result[0].Name, result[0].Amount)
	}
	if result[1].Name != "яйцо" || result[1].Amount != 2 {
		t.Errorf("expected яйцо 2, got %s %d", result[1].Name, result[1].Amount)
	}
}

func TestAggregateShoppingListKeepsUnitsSeparate(t *testing.T) {
	items := []*entities.RecipeIngredient{
		ri("сахар", "г", 50),
		ri("сахар", "ст. л.", 2),
	}

	result := AggregateShoppingList(items)
	if len(result) != 2 {
		t.Fatalf("same name with different units must not merge, got %d rows", len(result))
	}
}

func TestWriteShoppingListCSV(t *testing.T) {
	items := AggregateShoppingList([]*entities.RecipeIngredient{
		ri("мука", "г", 300),
	})

	var buf bytes.Buffer
	if err := WriteShoppingListCSV(&buf, items); err != nil {
		t.Fatalf("WriteShoppingListCSV returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != "Ингредиент,Единица измерения,Количество" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "мука,г,300" {
		t.Errorf("unexpected row: %q", lines[1])
	}
}
