// Package session owns the client-side authentication lifecycle: durable
// persistence of the token pair and cached profile, and the manager that is
// the single source of truth for "am I logged in, as whom".
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/buzzerapp/buzzer/pkg/domain"
)

const (
	sessionFile = "session.json"
	flowFile    = "flow.json"
)

// Store persists the session to a JSON file in the data directory, readable
// synchronously at startup. Token content is opaque; nothing here talks to
// the network.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir (created lazily on first save).
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads the persisted session. Missing or malformed data yields an empty
// session, never an error: a corrupt file means "not logged in".
func (s *Store) Load() domain.Session {
	data, err := os.ReadFile(filepath.Join(s.dir, sessionFile))
	if err != nil {
		return domain.Session{}
	}
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domain.Session{}
	}
	// A half-written token pair or a profile without tokens violates the
	// session invariant; treat the whole record as absent.
	if !sess.Authenticated() {
		return domain.Session{}
	}
	return sess
}

// Save persists the session atomically: written to a temp file and renamed
// into place, so a concurrent Load never observes a partial write.
func (s *Store) Save(sess domain.Session) error {
	if !sess.Authenticated() {
		sess.Profile = nil
	}
	return s.writeFile(sessionFile, sess)
}

// Clear removes the persisted session. Clearing an already-empty store is a
// no-op.
func (s *Store) Clear() error {
	if err := os.Remove(filepath.Join(s.dir, sessionFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

// FlowScratch is the transient identity of an in-progress OTP flow, kept so
// step 2 can recover the phone and account type. It never outlives the flow.
type FlowScratch struct {
	Phone string             `json:"phone"`
	Type  domain.AccountType `json:"account_type"`
}

// LoadFlow reads the in-progress flow scratch, if any.
func (s *Store) LoadFlow() (FlowScratch, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, flowFile))
	if err != nil {
		return FlowScratch{}, false
	}
	var fscr FlowScratch
	if err := json.Unmarshal(data, &fscr); err != nil || fscr.Phone == "" {
		return FlowScratch{}, false
	}
	return fscr, true
}

// SaveFlow persists the flow scratch.
func (s *Store) SaveFlow(fscr FlowScratch) error {
	return s.writeFile(flowFile, fscr)
}

// ClearFlow discards the flow scratch.
func (s *Store) ClearFlow() error {
	if err := os.Remove(filepath.Join(s.dir, flowFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: clear flow: %w", err)
	}
	return nil
}

func (s *Store) writeFile(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("session: create data dir: %w", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session: marshal %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("session: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()          //nolint:errcheck
		os.Remove(tmpName)   //nolint:errcheck
		return fmt.Errorf("session: write %s: %w", name, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()          //nolint:errcheck
		os.Remove(tmpName)   //nolint:errcheck
		return fmt.Errorf("session: chmod %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("session: close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("session: rename %s: %w", name, err)
	}
	return nil
}
