package recipe

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
)

type ingredientKey struct {
	name string
	unit string
}

// AggregateShoppingList sums ingredient amounts across every recipe in the
// cart, grouping by (name, measurement unit), and returns rows sorted by
// ingredient name.
func AggregateShoppingList(items []*entities.RecipeIngredient) []domain.ShoppingListItem {
	totals := make(map[ingredientKey]int)
	for _, item := range items {
		if item.Ingredient == nil {
			continue
		}
		key := ingredientKey{
			name: item.Ingredient.Name,
			unit: item.Ingredient.MeasurementUnit,
		}
		totals[key] += item.Amount
	}

	result := make([]domain.ShoppingListItem, 0, len(totals))
	for key, amount := range totals {
		result = append(result, domain.ShoppingListItem{
			Name:            key.name,
			MeasurementUnit: key.unit,
			Amount:          amount,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].MeasurementUnit < result[j].MeasurementUnit
	})

	return result
}

// WriteShoppingListCSV renders the aggregated rows as a UTF-8 CSV report
// with a fixed header row.
func WriteShoppingListCSV(w io.Writer, items []domain.ShoppingListItem) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Ингредиент", "Единица измерения", "Количество"}); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write([]string{item.Name, item.MeasurementUnit, strconv.Itoa(item.Amount)}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
