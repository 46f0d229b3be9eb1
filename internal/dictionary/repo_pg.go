package dictionary

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// List returns every dictionary row.
func (r *PGRepo) List(ctx context.Context) ([]Row, error) {
	const query = `
SELECT id, plant_name, type_code, description, image_path, activity_curve, season, created_at, updated_at
FROM dictionary
ORDER BY plant_name ASC NULLS LAST, id ASC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query dictionary: %w", err)
	}
	defer rows.Close()

	m := pgtype.NewMap()
	var out []Row
	for rows.Next() {
		var (
			row         Row
			plantName   sql.NullString
			typeCode    sql.NullInt32
			description sql.NullString
			imagePath   sql.NullString
			updatedAt   sql.NullTime
		)
		if err := rows.Scan(
			&row.ID,
			&plantName,
			&typeCode,
			&description,
			&imagePath,
			m.SQLScanner(&row.ActivityCurve),
			m.SQLScanner(&row.Season),
			&row.CreatedAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan dictionary row: %w", err)
		}
		row.PlantName = nullString(plantName)
		row.Description = nullString(description)
		row.ImagePath = nullString(imagePath)
		if typeCode.Valid {
			code := int(typeCode.Int32)
			row.TypeCode = &code
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			row.UpdatedAt = &t
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dictionary rows: %w", err)
	}
	return out, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
