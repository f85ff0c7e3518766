// Package store persists chart models for the HTTP API.
//
// A [Record] wraps a [chart.Model] with an ID and timestamps. Two backends
// implement [Store]:
//   - [FileStore]: one JSON file per chart, for single-instance servers
//   - [MongoStore]: a MongoDB collection, for shared deployments
//
// IDs are UUIDs generated by [NewRecord]; callers may also choose their own
// as long as they pass [errors.ValidateChartID].
//
// # Usage
//
//	st, err := store.NewFileStore("")  // ~/.config/waterfall/charts/
//	rec := store.NewRecord(model)
//	if err := st.Put(ctx, rec); err != nil {
//	    return err
//	}
//	rec, err = st.Get(ctx, rec.ID)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // no such chart
//	}
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/errors"
)

// Record is a stored chart.
type Record struct {
	ID        string       `json:"id" bson:"_id"`
	Model     *chart.Model `json:"model" bson:"model"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for chart storage backends.
type Store interface {
	// Get retrieves a chart by ID.
	// Returns an error with code NOT_FOUND if it does not exist.
	Get(ctx context.Context, id string) (*Record, error)

	// Put creates or replaces a chart. CreatedAt is preserved on replace
	// and UpdatedAt is set to the current time.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a chart.
	// Returns an error with code NOT_FOUND if it does not exist.
	Delete(ctx context.Context, id string) error

	// List returns all charts, most recently updated first.
	List(ctx context.Context) ([]Record, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NewRecord wraps m in a record with a fresh UUID.
func NewRecord(m *chart.Model) *Record {
	return &Record{ID: uuid.NewString(), Model: m}
}

// validateRecord checks a record before it is written.
func validateRecord(rec *Record) error {
	if rec == nil {
		return errors.New(errors.ErrCodeInvalidInput, "record is nil")
	}
	if err := errors.ValidateChartID(rec.ID); err != nil {
		return err
	}
	if rec.Model == nil {
		return errors.New(errors.ErrCodeInvalidModel, "chart %s has no model", rec.ID)
	}
	return rec.Model.Validate()
}

// stamp sets the timestamps for a write. prev is the stored record, if any.
func stamp(rec *Record, prev *Record, now time.Time) {
	rec.UpdatedAt = now
	switch {
	case prev != nil && !prev.CreatedAt.IsZero():
		rec.CreatedAt = prev.CreatedAt
	case rec.CreatedAt.IsZero():
		rec.CreatedAt = now
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "chart %s not found", id)
}
