// Package session keeps the documents users are working on. A Session is an
// explicit state object owned by the caller; nothing here autosaves or reads
// global state.
package session

import (
	"encoding/json"
	"errors"
	"time"

	"modelforge/internal/model"
)

var (
	ErrNotFound = errors.New("session not found")
	// ErrConflict means the caller's version is stale.
	ErrConflict = errors.New("version conflict")
)

type Session struct {
	ID        string         `json:"id"`
	Template  string         `json:"template,omitempty"`
	Version   int64          `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Document  model.Document `json:"document"`
}

// Summary is the list view of a session.
type Summary struct {
	ID         string       `json:"id"`
	Template   string       `json:"template,omitempty"`
	SystemName string       `json:"systemName,omitempty"`
	Format     model.Format `json:"format"`
	Entities   int          `json:"entities"`
	Version    int64        `json:"version"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (s *Session) Summary() Summary {
	return Summary{
		ID:         s.ID,
		Template:   s.Template,
		SystemName: s.Document.Context.SystemName,
		Format:     s.Document.Format,
		Entities:   s.Document.Len(),
		Version:    s.Version,
		UpdatedAt:  s.UpdatedAt,
	}
}

// clone copies a session so callers never share slices with the store.
func clone(s *Session) Session {
	out := *s
	b, err := json.Marshal(s.Document)
	if err == nil {
		var d model.Document
		if json.Unmarshal(b, &d) == nil {
			out.Document = d
		}
	}
	return out
}
