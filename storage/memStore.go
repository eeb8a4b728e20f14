package storage

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"bitbucket.org/northguard/safety_backend/utils"
)

type memDoc struct {
	version int
	body    []byte
	seq     int
}

// MemStore is an in-memory Store for tests and local development. It applies
// the same optimistic version guard as the MySQL-backed store.
type MemStore struct {
	mu   sync.Mutex
	docs map[string]map[string]*memDoc // collection|org -> docId -> doc
	seq  int
}

func NewMemStore() *MemStore {
	return &MemStore{docs: map[string]map[string]*memDoc{}}
}

func scopeKey(collection string, orgId string) string {
	return collection + "|" + orgId
}

func (s *MemStore) Get(_ context.Context, collection string, orgId string, id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs[scopeKey(collection, orgId)][id]
	if doc == nil {
		return nil, utils.NewNotFound(collection, id)
	}
	body := make([]byte, len(doc.body))
	copy(body, doc.body)
	return &Document{ID: id, Version: doc.version, Body: body}, nil
}

func (s *MemStore) Insert(_ context.Context, collection string, orgId string, id string, doc interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scope := s.docs[scopeKey(collection, orgId)]
	if scope == nil {
		scope = map[string]*memDoc{}
		s.docs[scopeKey(collection, orgId)] = scope
	}
	if scope[id] != nil {
		return utils.NewValidationError("document id already exists: " + id)
	}
	s.seq++
	scope[id] = &memDoc{version: 1, body: body, seq: s.seq}
	return nil
}

func (s *MemStore) Put(_ context.Context, collection string, orgId string, id string, doc interface{}, expectedVersion int) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.docs[scopeKey(collection, orgId)][id]
	if existing == nil {
		return utils.NewNotFound(collection, id)
	}
	if existing.version != expectedVersion {
		return utils.NewConcurrentModification(collection, id)
	}
	existing.version++
	existing.body = body
	return nil
}

func (s *MemStore) List(_ context.Context, collection string, orgId string) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := s.docs[scopeKey(collection, orgId)]
	ids := make([]string, 0, len(scope))
	for id := range scope {
		ids = append(ids, id)
	}
	// insertion order, matching the SQL store's id ordering
	sort.Slice(ids, func(i, j int) bool { return scope[ids[i]].seq < scope[ids[j]].seq })

	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		doc := scope[id]
		body := make([]byte, len(doc.body))
		copy(body, doc.body)
		docs = append(docs, Document{ID: id, Version: doc.version, Body: body})
	}
	return docs, nil
}
