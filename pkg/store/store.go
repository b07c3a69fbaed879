// Package store persists produced assessments for later retrieval.
//
// The engine itself is pure and keeps nothing; the store is an optional
// consumer that archives assessment records so the HTTP API can serve
// them back by ID. The Store interface has implementations for
// different deployments:
//
//   - memory: in-process map for development and tests
//   - file: JSON files in a config directory for CLI usage
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage when assessments should live with
//     the rest of a review's documents
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/evisynth/nmakit/pkg/errors"
)

// Record kinds.
const (
	KindGeometry = "geometry"
	KindRanking  = "ranking"
)

// Record is a stored assessment: an opaque JSON payload plus the
// metadata needed to list and fetch it.
type Record struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

// NewRecord wraps an assessment into a Record with a fresh UUID.
func NewRecord(kind string, assessment any) (*Record, error) {
	payload, err := json.Marshal(assessment)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s assessment", kind)
	}
	return &Record{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}, nil
}

// Store saves and retrieves assessment records.
//
// Get returns an ASSESSMENT_NOT_FOUND error for unknown IDs. Delete of
// an unknown ID is not an error.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeAssessmentNotFound, "assessment %s not found", id)
}
