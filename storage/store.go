// Package storage provides the versioned document store the workflow engine
// persists through. Documents are opaque JSON keyed by (collection, org, id);
// every write carries the version the writer read, so concurrent writers never
// silently overwrite one another.
package storage

import (
	"context"

	"bitbucket.org/northguard/safety_backend/utils"
)

const (
	CollectionTemplates   = "inspection_templates"
	CollectionInspections = "inspections"
	CollectionFindings    = "findings"
)

// Document is one stored record. Body is the JSON the caller put in; Version
// increments on every successful Put.
type Document struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
	Body    []byte `json:"body"`
}

type Store interface {
	// Get returns the current document, or a not_found workflow error.
	Get(ctx context.Context, collection string, orgId string, id string) (*Document, error)

	// Insert creates version 1 of a new document. A duplicate id fails with
	// a validation error.
	Insert(ctx context.Context, collection string, orgId string, id string, doc interface{}) error

	// Put replaces the document body, expecting the version the caller read.
	// A stale expectedVersion fails with concurrent_modification and the
	// caller must re-read and retry.
	Put(ctx context.Context, collection string, orgId string, id string, doc interface{}, expectedVersion int) error

	// List returns every document in the collection for the org.
	List(ctx context.Context, collection string, orgId string) ([]Document, error)
}

// fetch + decode one document
func GetAs[T any](ctx context.Context, s Store, collection string, orgId string, id string) (*T, int, error) {
	doc, err := s.Get(ctx, collection, orgId, id)
	if err != nil {
		return nil, 0, err
	}
	var out T
	if err := utils.UnmarshalFromJSON(doc.Body, &out); err != nil {
		return nil, 0, err
	}
	return &out, doc.Version, nil
}

// fetch + decode a whole collection
func ListAs[T any](ctx context.Context, s Store, collection string, orgId string) ([]*T, error) {
	docs, err := s.List(ctx, collection, orgId)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := utils.UnmarshalFromJSON(doc.Body, &v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, nil
}
