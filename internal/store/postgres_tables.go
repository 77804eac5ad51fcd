package store

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
)

const maxTablePageSize = 1000

func (s *PostgresStore) DescribeTable(ctx context.Context, table string) ([]ColumnInfo, error) {
	if !BrowsableTables[table] {
		return nil, fmt.Errorf("%w: %s", ErrTableNotAllowed, table)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT c.column_name::text,
			c.data_type::text,
			COALESCE(col_description(pc.oid, c.ordinal_position::int), ''),
			c.character_maximum_length::int,
			c.is_nullable = 'YES'
		FROM information_schema.columns c
		JOIN pg_class pc ON pc.relname = c.table_name
		JOIN pg_namespace pn ON pn.oid = pc.relnamespace AND pn.nspname = c.table_schema
		WHERE c.table_schema = current_schema() AND c.table_name = $1
		ORDER BY c.ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var c ColumnInfo
		if err := rows.Scan(&c.Name, &c.DataType, &c.Comment, &c.MaxLength, &c.Nullable); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (s *PostgresStore) GetTablePage(ctx context.Context, table string, page, size int) (*TablePage, error) {
	if !BrowsableTables[table] {
		return nil, fmt.Errorf("%w: %s", ErrTableNotAllowed, table)
	}
	page, size = normalizePage(page, size)
	ident := pgx.Identifier{table}.Sanitize()

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+ident).Scan(&total); err != nil {
		return nil, fmt.Errorf("count %s: %w", table, err)
	}

	rows, err := s.pool.Query(ctx, `SELECT * FROM `+ident+` LIMIT $1 OFFSET $2`, size, (page-1)*size)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	records := []map[string]interface{}{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read %s row: %w", table, err)
		}
		rec := make(map[string]interface{}, len(values))
		for i, v := range values {
			rec[fields[i].Name] = v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &TablePage{
		Records:    records,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: TotalPages(total, size),
	}, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > maxTablePageSize {
		size = maxTablePageSize
	}
	return page, size
}

// TotalPages returns how many pages of size hold total rows.
func TotalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(size)))
}
