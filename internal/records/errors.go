package records

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("records: not found")
	ErrUnknownColumn = errors.New("records: unknown column")
	ErrEmptyRecord   = errors.New("records: no columns to write")
	ErrDuplicateKey  = errors.New("records: duplicate primary key")
)

// Record is one row keyed by column name.
type Record map[string]any

// columns returns the record's keys in sorted order after checking each
// against the resource.
func (rec Record) columns(res Resource) ([]string, error) {
	if len(rec) == 0 {
		return nil, ErrEmptyRecord
	}
	cols := make([]string, 0, len(rec))
	for col := range rec {
		if !res.HasColumn(col) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, res.Table, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols, nil
}

// IsRejected reports whether err is the store refusing the request, such as
// a constraint violation or malformed value, as opposed to an outage.
func IsRejected(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) || errors.Is(err, ErrUnknownColumn) || errors.Is(err, ErrEmptyRecord) ||
		errors.Is(err, ErrDuplicateKey)
}
