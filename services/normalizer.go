package services

import (
	"github.com/shopspring/decimal"

	"github.com/jkong61/health-backend-app/models"
)

// NormalizeFoodItem scales the per-gram nutrient values of the item's food
// to the weight actually consumed: per_unit_measurement times the unit's
// gram conversion, each value rounded to 5 decimals independently. Items
// without a food or without associations pass through unchanged. The scaling
// happens on the loaded copy only; persisted rows keep their per-gram
// values.
func NormalizeFoodItem(item *models.FoodItem) *models.FoodItem {
	if item == nil || item.Food == nil || len(item.Food.Nutrients) == 0 {
		return item
	}

	totalWeight := decimal.NewFromFloat(item.PerUnitMeasurement).
		Mul(decimal.NewFromFloat(item.Measurement.ConversionToG))

	for i := range item.Food.Nutrients {
		scaled := decimal.NewFromFloat(item.Food.Nutrients[i].Value).
			Mul(totalWeight).
			RoundBank(5)
		item.Food.Nutrients[i].Value, _ = scaled.Float64()
	}
	return item
}
