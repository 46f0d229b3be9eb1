package dictionary

import (
	"time"

	"plant-relay/internal/analysis"
)

// Entry is one plant in the dictionary table.
type Entry struct {
	ID            string             `json:"id"`
	PlantName     *string            `json:"plant_name"`
	TypeCode      analysis.PlantType `json:"type_code"`
	Type          string             `json:"type"`
	Description   *string            `json:"description"`
	ImagePath     *string            `json:"image_path"`
	ActivityCurve []float64          `json:"activity_curve"`
	Season        []bool             `json:"season"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     *time.Time         `json:"updated_at"`
}

// Row is an entry as stored, before labels and curve rules are applied.
type Row struct {
	ID            string
	PlantName     *string
	TypeCode      *int
	Description   *string
	ImagePath     *string
	ActivityCurve []float64
	Season        []bool
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
