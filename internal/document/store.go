package document

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound indicates the requested draft could not be located.
var ErrNotFound = errors.New("draft document not found")

type entry struct {
	doc       *Document
	expiresAt time.Time
}

// Store keeps draft documents in memory for the lifetime of the form that is
// editing them. Drafts expire after the configured TTL; there is no draft
// recovery once a form is abandoned.
type Store struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	docs map[string]*entry
}

// NewStore constructs a draft store with the given TTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{
		ttl:  ttl,
		now:  time.Now,
		docs: make(map[string]*entry),
	}
}

// Create opens a new empty draft of the given kind.
func (s *Store) Create(kind Kind) *Document {
	doc := New(kind)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = &entry{doc: doc, expiresAt: s.now().Add(s.ttl)}
	return doc
}

// Get returns a snapshot of the draft. Accessing a draft extends its TTL.
func (s *Store) Get(id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return e.doc, nil
}

// AddLine appends a line to the draft.
func (s *Store) AddLine(id string, in LineInput) (Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lookup(id)
	if err != nil {
		return Line{}, err
	}
	return e.doc.AddLine(in), nil
}

// UpdateLine applies a partial update to a line on the draft.
func (s *Store) UpdateLine(id, lineID string, patch LinePatch) (Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lookup(id)
	if err != nil {
		return Line{}, err
	}
	return e.doc.UpdateLine(lineID, patch)
}

// RemoveLine deletes a line from the draft.
func (s *Store) RemoveLine(id, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	return e.doc.RemoveLine(lineID)
}

// Delete discards the draft. Deleting an unknown draft is not an error.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
}

// lookup must be called with the mutex held.
func (s *Store) lookup(id string) (*entry, error) {
	e, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.docs, id)
		return nil, ErrNotFound
	}
	e.expiresAt = s.now().Add(s.ttl)
	return e, nil
}

// Sweep removes expired drafts every interval until the context is cancelled.
func (s *Store) Sweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *Store) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.docs {
		if now.After(e.expiresAt) {
			delete(s.docs, id)
		}
	}
}
