package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/unowned-ai/emolabel/pkg/labels"
)

const labelDistributionStatement = `
	SELECT label, COUNT(*) AS label_count
	FROM records
	WHERE batch_id = ?
	GROUP BY label
`

// LabelDistribution counts records per label within a batch. Every allowed label
// is reported, in display order, including those with zero records.
func LabelDistribution(ctx context.Context, db *sql.DB, id uuid.UUID) ([]LabelCount, error) {
	if _, err := GetBatch(ctx, db, id); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, labelDistributionStatement, id)
	if err != nil {
		return nil, fmt.Errorf("failed to execute distribution query: %w", err)
	}
	defer rows.Close()

	counts := make(map[labels.Label]int)
	for rows.Next() {
		var (
			label string
			n     int
		)
		if err := rows.Scan(&label, &n); err != nil {
			return nil, fmt.Errorf("failed to scan distribution row: %w", err)
		}
		counts[labels.Label(label)] = n
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distribution rows: %w", err)
	}

	allowed := labels.AllowedLabels()
	result := make([]LabelCount, 0, len(allowed))
	for _, l := range allowed {
		result = append(result, LabelCount{Label: l, Count: counts[l]})
	}
	return result, nil
}
