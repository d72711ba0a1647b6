// Package fake provides utilities for generating random sighting data for dashboard development.
package fake

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/hexveil/brainrelay/internal/models"
	"github.com/hexveil/brainrelay/internal/registry"
	"github.com/rs/zerolog/log"
)

var names = []string{
	"Tralalero Tralala",
	"Tung Tung Tung Sahur",
	"Bombardiro Crocodilo",
	"Cappuccino Assassino",
	"Brr Brr Patapim",
	"Chimpanzini Bananini",
	"La Vaca Saturno Saturnita",
	"Lirili Larila",
	"Trippi Troppi",
	"Boneca Ambalabu",
}

// GenerateData fills the registry with count randomized sighting records.
func GenerateData(reg *registry.Registry, count int) {
	for i := 0; i < count; i++ {
		value := float64(gofakeit.Number(10_000, 25_000_000))

		b := models.Brainrot{
			Name:         gofakeit.RandomString(names),
			DisplayValue: displayValue(value),
			JobID:        gofakeit.UUID(),
			Value:        value,
			PlayerCount:  fmt.Sprintf("%d/8", gofakeit.Number(1, 8)),
		}
		if gofakeit.Bool() {
			b.ImageURL = gofakeit.URL()
		}

		reg.Upsert(b)
	}

	log.Info().Int("count", count).Int("live", reg.Len()).Msg("Fake data generated")
}

// displayValue renders a value the way game clients label it, e.g. "$2.5M".
func displayValue(value float64) string {
	switch {
	case value >= 1_000_000:
		return fmt.Sprintf("$%.1fM", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("$%.0fK", value/1_000)
	default:
		return fmt.Sprintf("$%.0f", value)
	}
}
