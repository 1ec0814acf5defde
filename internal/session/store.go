package session

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"modelforge/internal/dsl"
	"modelforge/internal/model"
)

// Store is an in-memory session registry safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	entropy  io.Reader
	now      func() time.Time
}

func NewStore() *Store {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Store{
		sessions: make(map[string]*Session),
		entropy:  ulid.Monotonic(src, 0),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// newID must be called with mu held; monotonic entropy is not goroutine safe.
func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

// Create registers a new session holding doc.
func (s *Store) Create(template string, doc model.Document) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	sess := &Session{
		ID:        s.newID(),
		Template:  template,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		Document:  doc,
	}
	s.sessions[sess.ID] = sess
	return clone(sess)
}

func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return clone(sess), nil
}

// List returns session summaries, oldest first (ULIDs sort by time).
func (s *Store) List() []Summary {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.Summary())
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Put replaces the document of a session. A non-zero expect must match the
// current version.
func (s *Store) Put(id string, doc model.Document, expect int64) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if expect != 0 && expect != sess.Version {
		return Session{}, fmt.Errorf("%w: expected version %d", ErrConflict, sess.Version)
	}
	sess.Document = doc
	sess.Version++
	sess.UpdatedAt = s.now()
	return clone(sess), nil
}

// Import decodes data and replaces the session document with it. On any
// decode error the session is left untouched.
func (s *Store) Import(id string, data []byte, source string, expect int64) (Session, error) {
	if _, err := s.Get(id); err != nil {
		return Session{}, err
	}
	doc, err := dsl.Import(data, source)
	if err != nil {
		return Session{}, err
	}
	if doc.Context.SystemName == "" {
		cur, err := s.Get(id)
		if err != nil {
			return Session{}, err
		}
		doc.Context = cur.Document.Context
	}
	return s.Put(id, doc, expect)
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

type snapshot struct {
	Sessions []*Session `json:"sessions"`
}

// Snapshot writes every session as one JSON document.
func (s *Store) Snapshot(w io.Writer) error {
	s.mu.RLock()
	snap := snapshot{Sessions: make([]*Session, 0, len(s.sessions))}
	for _, sess := range s.sessions {
		snap.Sessions = append(snap.Sessions, sess)
	}
	sort.Slice(snap.Sessions, func(i, j int) bool { return snap.Sessions[i].ID < snap.Sessions[j].ID })
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(snap)
	s.mu.RUnlock()
	return err
}

// Restore replaces the store content with a snapshot. Nothing changes when
// the snapshot does not decode.
func (s *Store) Restore(r io.Reader) error {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("restore sessions: %w", err)
	}
	next := make(map[string]*Session, len(snap.Sessions))
	for _, sess := range snap.Sessions {
		if sess == nil || sess.ID == "" {
			return fmt.Errorf("restore sessions: session without id")
		}
		if _, err := ulid.ParseStrict(sess.ID); err != nil {
			return fmt.Errorf("restore sessions: %q: %w", sess.ID, err)
		}
		if sess.Document.Format == "" {
			sess.Document.Format = model.FormatWizard
		}
		next[sess.ID] = sess
	}
	s.mu.Lock()
	s.sessions = next
	s.mu.Unlock()
	return nil
}
