// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// Query holds filters for interval lookups. Zero values disable a filter.
type Query struct {
	// RecordID restricts results to one record.
	RecordID string

	// Annotations restricts results to any of the listed codes.
	Annotations []string

	// From and To bound time_sec inclusively. To <= 0 means no upper bound.
	From float64
	To   float64

	// Limit caps the result count. Zero returns every match.
	Limit int
}

// Query returns stored rows matching q ordered by record_id, time_sec.
func (s *Store) Query(ctx context.Context, q Query) ([]types.Interval, error) {
	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(`SELECT time_sec, rr_ms, annotation, record_id FROM intervals WHERE 1=1`)

	if q.RecordID != "" {
		qb.WriteString(` AND record_id = ?`)
		args = append(args, q.RecordID)
	}

	if len(q.Annotations) > 0 {
		qb.WriteString(` AND annotation IN (?` + strings.Repeat(`, ?`, len(q.Annotations)-1) + `)`)
		for _, a := range q.Annotations {
			args = append(args, a)
		}
	}

	if q.From > 0 {
		qb.WriteString(` AND time_sec >= ?`)
		args = append(args, q.From)
	}
	if q.To > 0 {
		qb.WriteString(` AND time_sec <= ?`)
		args = append(args, q.To)
	}

	qb.WriteString(` ORDER BY record_id, time_sec, id`)

	if q.Limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying intervals: %w", err)
	}
	defer rows.Close()

	out := []types.Interval{}
	for rows.Next() {
		var r types.Interval
		if err := rows.Scan(&r.TimeSec, &r.RRms, &r.Annotation, &r.RecordID); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
