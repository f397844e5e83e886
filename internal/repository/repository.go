// Package repository holds the PostgreSQL access layer. Every repository
// maps driver errors onto the sentinel errors in internal/models.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

const (
	// DefaultLimit is the page size when none is requested.
	DefaultLimit = 20
	// MaxLimit caps the page size.
	MaxLimit = 100
)

// Page is a LIMIT/OFFSET window.
type Page struct {
	Limit  int
	Offset int
}

// Normalize replaces out-of-range values with the defaults.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Sort is a requested ordering; By is checked against a per-table whitelist.
type Sort struct {
	By    string
	Order string
}

// mapError converts driver errors into model errors and wraps the rest.
func mapError(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return models.ErrAlreadyExists
		case pqForeignKeyViolation:
			return models.ErrReferenced
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// execAffected runs a statement that must touch at least one row.
func execAffected(ctx context.Context, db sqlx.ExecerContext, op, query string, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, op)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// sqlExpr is an update value written into the statement verbatim.
type sqlExpr string

// buildUpdateQuery renders UPDATE ... SET ... WHERE id = $n RETURNING ...
// with columns in sorted order so the argument list is deterministic.
func buildUpdateQuery(table string, id uuid.UUID, updates map[string]any, returningFields string) (string, []any, error) {
	if len(updates) == 0 {
		return "", nil, models.ErrNoFieldsToUpdate
	}

	columns := make([]string, 0, len(updates))
	for column := range updates {
		columns = append(columns, column)
	}
	slices.Sort(columns)

	updateFields := make([]string, 0, len(updates)+1)
	args := make([]any, 0, len(updates)+2)
	argPos := 1

	for _, column := range columns {
		if expr, ok := updates[column].(sqlExpr); ok {
			updateFields = append(updateFields, fmt.Sprintf("%s = %s", column, expr))
			continue
		}
		updateFields = append(updateFields, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, updates[column])
		argPos++
	}

	updateFields = append(updateFields, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now())
	argPos++

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, table, strings.Join(updateFields, ", "), argPos, returningFields)

	return query, args, nil
}

// whereBuilder accumulates AND-ed predicates with numbered placeholders.
type whereBuilder struct {
	clauses []string
	args    []any
}

// arg appends a bind value and returns its placeholder.
func (w *whereBuilder) arg(value any) string {
	w.args = append(w.args, value)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) eq(column string, value any) {
	w.clauses = append(w.clauses, column+" = "+w.arg(value))
}

func (w *whereBuilder) raw(clause string) {
	w.clauses = append(w.clauses, clause)
}

// search adds a case-insensitive substring match over columns.
func (w *whereBuilder) search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	placeholder := w.arg("%" + escapeLike(term) + "%")
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		parts = append(parts, column+" ILIKE "+placeholder)
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
}

// sql returns " WHERE ..." or "".
func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT and OFFSET placeholders.
func (w *whereBuilder) page(p Page) string {
	p = p.Normalize()
	return " LIMIT " + w.arg(p.Limit) + " OFFSET " + w.arg(p.Offset)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// buildOrder whitelists s.By against allowed (API name to column expression).
func buildOrder(s Sort, allowed map[string]string, defaultBy, defaultOrder string) string {
	column, ok := allowed[s.By]
	if !ok {
		column = allowed[defaultBy]
	}
	order := strings.ToUpper(s.Order)
	if order != "ASC" && order != "DESC" {
		order = defaultOrder
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, order)
}

// withTx runs fn inside a transaction and rolls back when it fails.
func withTx(ctx context.Context, db *sqlx.DB, log infralogger.Logger, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", infralogger.Error(rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		err = fmt.Errorf("commit transaction: %w", commitErr)
		return err
	}
	return nil
}

func stringArray(items []string) pq.StringArray {
	if items == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(items)
}
