package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/clinica/prontuario-client/internal/model"
	"github.com/clinica/prontuario-client/pkg/logger"
	"github.com/clinica/prontuario-client/pkg/storage"
)

// AuthClient is the remote surface the store needs. Satisfied by
// *remote.Client.
type AuthClient interface {
	Login(ctx context.Context, creds model.Credentials) (model.Session, error)
	Register(ctx context.Context, profile model.Profile) (model.Session, error)
	RegisterAssistente(ctx context.Context, profile model.Profile) (model.Session, error)
}

// Store holds the single authenticated session. It hydrates from the
// durable slot on construction and writes the slot synchronously on
// every successful mutation, so a reload immediately after a login
// observes the new session.
type Store struct {
	mu      sync.RWMutex
	session model.Session
	slot    *storage.Slot
	client  AuthClient
	log     *logger.Logger
}

// NewStore builds the store and hydrates it. A missing or corrupt slot
// yields an empty session, never an error.
func NewStore(slot *storage.Slot, client AuthClient, log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewLogger(nil)
	}
	s := &Store{slot: slot, client: client, log: log}

	var hydrated model.Session
	ok, err := slot.Read(&hydrated)
	if err != nil {
		log.Warn("could not hydrate session", "error", err.Error())
	}
	if ok {
		s.session = hydrated
	}
	return s
}

// Current returns the active session; Empty() when logged out.
func (s *Store) Current() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Login authenticates and replaces any prior session wholesale. A
// server-reported error leaves the session unchanged.
func (s *Store) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	session, err := s.client.Login(ctx, creds)
	if err != nil {
		return model.Session{}, err
	}
	return s.replace(session)
}

// Register creates a clinician account and logs it in.
func (s *Store) Register(ctx context.Context, profile model.Profile) (model.Session, error) {
	session, err := s.client.Register(ctx, profile)
	if err != nil {
		return model.Session{}, err
	}
	return s.replace(session)
}

// RegisterAssistente creates an assistant account and logs it in. The
// assistant flag is attached here before the session is persisted.
func (s *Store) RegisterAssistente(ctx context.Context, profile model.Profile) (model.Session, error) {
	session, err := s.client.RegisterAssistente(ctx, profile)
	if err != nil {
		return model.Session{}, err
	}
	session.IsAssistente = true
	return s.replace(session)
}

// Logout clears both the in-memory session and the durable slot. It
// performs no remote call; a slot failure is reported, not fatal.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.session = model.Session{}
	s.mu.Unlock()

	if err := s.slot.Clear(); err != nil {
		s.log.Error(err, "could not clear session slot")
		return err
	}
	return nil
}

// replace installs the new session and persists it before the mutation
// is considered complete. A failed durable write keeps the in-memory
// session usable but is surfaced to the caller.
func (s *Store) replace(session model.Session) (model.Session, error) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	if err := s.slot.Write(session); err != nil {
		s.log.Error(err, "could not persist session")
		return session, fmt.Errorf("session active but not persisted: %w", err)
	}
	return session, nil
}
