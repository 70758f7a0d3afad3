package records

import (
	"context"
	"errors"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type pgxConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository builds its SQL with squirrel. Identifiers come from the
// resource registry, never from request input.
type PostgresRepository struct {
	db pgxConn
}

// NewPostgresRepository wraps a pgx pool (or anything with the same Query/Exec).
func NewPostgresRepository(db pgxConn) *PostgresRepository {
	if db == nil {
		panic("records: pgx connection required")
	}
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) query(ctx context.Context, b sq.Sqlizer) ([]Record, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("records: build query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(maps))
	for _, m := range maps {
		out = append(out, Record(m))
	}
	return out, nil
}

func one(rows []Record, err error) (Record, error) {
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

func (r *PostgresRepository) List(ctx context.Context, res Resource, filter map[string]string) ([]Record, error) {
	b := psql.Select("*").From(res.Table)
	keys := make([]string, 0, len(filter))
	for col := range filter {
		if !res.HasColumn(col) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, res.Table, col)
		}
		keys = append(keys, col)
	}
	sort.Strings(keys)
	for _, col := range keys {
		b = b.Where(sq.Eq{col: filter[col]})
	}
	rows, err := r.query(ctx, b.OrderBy(res.PrimaryKey))
	if err != nil {
		return nil, fmt.Errorf("records: list %s: %w", res.Table, err)
	}
	return rows, nil
}

func (r *PostgresRepository) Create(ctx context.Context, res Resource, rec Record) (Record, error) {
	cols, err := rec.columns(res)
	if err != nil {
		return nil, err
	}
	vals := make([]any, 0, len(cols))
	for _, c := range cols {
		vals = append(vals, rec[c])
	}
	b := psql.Insert(res.Table).Columns(cols...).Values(vals...).Suffix("RETURNING *")
	row, err := one(r.query(ctx, b))
	if err != nil {
		return nil, fmt.Errorf("records: create %s: %w", res.Table, err)
	}
	return row, nil
}

func (r *PostgresRepository) Get(ctx context.Context, res Resource, id string) (Record, error) {
	b := psql.Select("*").From(res.Table).Where(sq.Eq{res.PrimaryKey: id}).Limit(1)
	row, err := one(r.query(ctx, b))
	if err != nil {
		return nil, fmt.Errorf("records: get %s: %w", res.Table, err)
	}
	return row, nil
}

func (r *PostgresRepository) Update(ctx context.Context, res Resource, id string, rec Record) (Record, error) {
	cols, err := rec.columns(res)
	if err != nil {
		return nil, err
	}
	b := psql.Update(res.Table)
	for _, c := range cols {
		b = b.Set(c, rec[c])
	}
	b = b.Where(sq.Eq{res.PrimaryKey: id}).Suffix("RETURNING *")
	row, err := one(r.query(ctx, b))
	if err != nil {
		return nil, fmt.Errorf("records: update %s: %w", res.Table, err)
	}
	return row, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, res Resource, id string) error {
	sql, args, err := psql.Delete(res.Table).Where(sq.Eq{res.PrimaryKey: id}).ToSql()
	if err != nil {
		return fmt.Errorf("records: build delete: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("records: delete %s: %w", res.Table, err)
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)

// isNoRows lets callers treat pgx's sentinel and ours alike.
func isNoRows(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}
