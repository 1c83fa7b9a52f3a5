package models

// Measurement converts a consumed unit into grams, e.g. suffix "g" with
// ConversionToG 1, or "cup" with 240.
type Measurement struct {
	ID           uint   `gorm:"primaryKey"`
	Description  string
	ConversionToG float64
	Suffix       string `gorm:"uniqueIndex"`
	Enabled      bool   `gorm:"default:true"`
}
