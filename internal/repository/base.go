package repository

import (
	"context"
	"errors"
	"strings"

	"petchef/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes inspected when TranslateError did not apply.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// base carries the primary and read connections shared by every repository.
type base struct {
	db     *gorm.DB
	reader *gorm.DB
}

type primaryKey struct{}

// UsePrimary marks ctx so every read made with it goes to the primary.
// Services use it for reads that guard or follow a write.
func UsePrimary(ctx context.Context) context.Context {
	return context.WithValue(ctx, primaryKey{}, true)
}

func onPrimary(ctx context.Context) bool {
	v, _ := ctx.Value(primaryKey{}).(bool)
	return v
}

func (b base) readDB(ctx context.Context) *gorm.DB {
	if b.reader != nil && !onPrimary(ctx) {
		return b.reader
	}
	return b.db
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || pgCode(err) == pgUniqueViolation {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint failed")
}

func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || pgCode(err) == pgForeignKeyViolation {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

func isCheckConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) || pgCode(err) == pgCheckViolation {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "check constraint")
}

// notFoundOr maps gorm.ErrRecordNotFound to NotFound and anything else to Internal.
func notFoundOr(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// substringMatch returns a case-sensitive "column contains ?" predicate in
// the connection's SQL dialect.
func substringMatch(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlite" {
		return "instr(" + column + ", ?) > 0"
	}
	return "strpos(" + column + ", ?) > 0"
}

// publicUserColumns is every users column except password, qualified so it
// stays unambiguous in joins.
const publicUserColumns = "users.id, users.username, users.email, users.first_name, users.last_name, " +
	"users.state, users.city, users.profile_image_url, users.created_at, users.updated_at"

func omitPassword(db *gorm.DB) *gorm.DB {
	return db.Omit("password")
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func toLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// reference is a row a foreign key points at.
type reference struct {
	table    string
	resource string
	id       uint
}

// missingReference reports which of refs is absent after a foreign key
// violation, checking them in order on the primary.
func (b base) missingReference(ctx context.Context, refs ...reference) error {
	for _, ref := range refs {
		var n int64
		if err := b.db.WithContext(ctx).Table(ref.table).Where("id = ?", ref.id).Count(&n).Error; err != nil {
			return models.NewInternalError(err)
		}
		if n == 0 {
			return models.NewNotFoundError(ref.resource, ref.id)
		}
	}
	last := refs[len(refs)-1]
	return models.NewNotFoundError(last.resource, last.id)
}
