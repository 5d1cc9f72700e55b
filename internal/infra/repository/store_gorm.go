package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/booking-cleanup/internal/apperr"
	"github.com/BruksfildServices01/booking-cleanup/internal/domain/store"
	"github.com/BruksfildServices01/booking-cleanup/internal/models"
)

// GormStore talks to postgres directly through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (r *GormStore) model(table string) (any, error) {
	m := models.ForTable(table)
	if m == nil {
		return nil, apperr.Errorf(apperr.CodeUnknownTable, "%s", table)
	}
	return m, nil
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *GormStore) Select(
	ctx context.Context,
	table string,
	filter store.Filter,
	dest any,
) error {

	m, err := r.model(table)
	if err != nil {
		return err
	}

	q := r.db.WithContext(ctx).Model(m)
	if len(filter.Eq) > 0 {
		q = q.Where(map[string]any(filter.Eq))
	}
	for column, values := range filter.In {
		q = q.Where(clause.IN{Column: clause.Column{Name: column}, Values: toAny(values)})
	}

	if err := q.Order("id ASC").Find(dest).Error; err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return nil
}

// --------------------------------------------------
// Write (per row)
// --------------------------------------------------

func (r *GormStore) Update(
	ctx context.Context,
	table string,
	id string,
	fields map[string]any,
) error {

	m, err := r.model(table)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(m).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update %s/%s: %w", table, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update %s/%s: %w", table, id, store.ErrNotFound)
	}
	return nil
}

func (r *GormStore) Delete(
	ctx context.Context,
	table string,
	id string,
) error {

	m, err := r.model(table)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(m)
	if res.Error != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %s/%s: %w", table, id, store.ErrNotFound)
	}
	return nil
}

func (r *GormStore) Insert(
	ctx context.Context,
	table string,
	fields map[string]any,
) error {

	m, err := r.model(table)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Model(m).Create(fields).Error; err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// --------------------------------------------------
// Write (in-list)
// --------------------------------------------------

func (r *GormStore) DeleteIn(
	ctx context.Context,
	table string,
	column string,
	values []string,
) (int64, error) {

	m, err := r.model(table)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Where(clause.IN{Column: clause.Column{Name: column}, Values: toAny(values)}).
		Delete(m)
	if res.Error != nil {
		return 0, fmt.Errorf("delete %s where %s in list: %w", table, column, res.Error)
	}
	return res.RowsAffected, nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// Compile-time check
var _ store.Store = (*GormStore)(nil)
