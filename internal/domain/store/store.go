package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Update and Delete when no row matched the id.
var ErrNotFound = errors.New("record not found")

// Filter restricts a Select. Eq columns are matched exactly, In columns
// against a list of values.
type Filter struct {
	Eq map[string]any
	In map[string][]string
}

// Store is the per-row client the cleanup tools run against. Every call is
// independent: there is no transaction spanning two calls.
type Store interface {
	// -------- Read --------
	Select(
		ctx context.Context,
		table string,
		filter Filter,
		dest any,
	) error

	// -------- Write (per row) --------
	Update(
		ctx context.Context,
		table string,
		id string,
		fields map[string]any,
	) error

	Delete(
		ctx context.Context,
		table string,
		id string,
	) error

	Insert(
		ctx context.Context,
		table string,
		fields map[string]any,
	) error

	// -------- Write (in-list) --------
	DeleteIn(
		ctx context.Context,
		table string,
		column string,
		values []string,
	) (int64, error)
}
