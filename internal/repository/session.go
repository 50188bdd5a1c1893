package repository

import (
	"context"
	"encoding/json"
	"errors"

	"foodsaver/internal/models"
	"foodsaver/internal/storage"
)

// SessionStore persists one session slot per signed-in user, written on
// sign-in and removed on sign-out.
type SessionStore interface {
	Put(ctx context.Context, session models.Session) error
	Get(ctx context.Context, userID string) (*models.Session, error)
	Delete(ctx context.Context, userID string) error
}

type sessionStore struct {
	store storage.Store
}

// NewSessionStore creates a session store over the given store.
func NewSessionStore(store storage.Store) SessionStore {
	return &sessionStore{store: store}
}

func sessionKey(userID string) string {
	return storage.SlotSessionPrefix + userID
}

func (s *sessionStore) Put(ctx context.Context, session models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, sessionKey(session.User.ID), raw)
}

func (s *sessionStore) Get(ctx context.Context, userID string) (*models.Session, error) {
	raw, err := s.store.Get(ctx, sessionKey(userID))
	if errors.Is(err, storage.ErrSlotNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		// A corrupt session slot reads as signed-out.
		return nil, nil
	}
	return &session, nil
}

func (s *sessionStore) Delete(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, sessionKey(userID))
}
