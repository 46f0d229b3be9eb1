package dictionary

import (
	"context"

	"plant-relay/internal/analysis"
	"plant-relay/internal/shared/telemetry"
)

// Service applies the same type labels and curve rules as /analyze to stored
// rows.
type Service struct {
	Repo Repo
}

// List returns every entry ready for display.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, toEntry(row))
	}
	return out, nil
}

func toEntry(row Row) Entry {
	code := analysis.TypeOther
	if row.TypeCode != nil {
		if pt := analysis.PlantType(*row.TypeCode); pt.Valid() {
			code = pt
		} else {
			telemetry.Warn("dictionary.type_code_coerced", map[string]any{
				"id":        row.ID,
				"type_code": *row.TypeCode,
			})
		}
	}
	return Entry{
		ID:            row.ID,
		PlantName:     row.PlantName,
		TypeCode:      code,
		Type:          code.Label(),
		Description:   row.Description,
		ImagePath:     row.ImagePath,
		ActivityCurve: analysis.ClampCurve(row.ActivityCurve),
		Season:        row.Season,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
