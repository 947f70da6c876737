// Package session persists booking states in badger, one key per session with a
// sliding expiry.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lynra/internal/booking"
	apperrors "lynra/internal/errors"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "session:"

type BadgerRepository struct {
	db  *badger.DB
	ttl time.Duration
}

func NewBadgerRepository(db *badger.DB, ttl time.Duration) *BadgerRepository {
	return &BadgerRepository{
		db:  db,
		ttl: ttl,
	}
}

func (r *BadgerRepository) Create(_ context.Context, id string, state booking.State) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key(id)); err == nil {
			return apperrors.NewConflictError("session already exists")
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return r.put(txn, id, state)
	})
	return r.mapError(err, "failed to create session")
}

func (r *BadgerRepository) Get(_ context.Context, id string) (booking.State, error) {
	var state booking.State
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		state, err = read(txn, id)
		return err
	})
	if err != nil {
		return booking.State{}, r.mapError(err, "failed to read session")
	}
	return state, nil
}

// Update reads, transforms and writes the session in one transaction and renews
// its expiry. Two updates racing on the same session make one of them fail with
// a ConflictError.
func (r *BadgerRepository) Update(_ context.Context, id string, fn func(booking.State) (booking.State, error)) (booking.State, error) {
	var (
		next       booking.State
		transition error
	)
	err := r.db.Update(func(txn *badger.Txn) error {
		current, err := read(txn, id)
		if err != nil {
			return err
		}
		next, transition = fn(current)
		if transition != nil {
			return transition
		}
		return r.put(txn, id, next)
	})
	if transition != nil {
		return booking.State{}, transition
	}
	if err != nil {
		return booking.State{}, r.mapError(err, "failed to update session")
	}
	return next, nil
}

func (r *BadgerRepository) Delete(_ context.Context, id string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key(id)); err != nil {
			return err
		}
		return txn.Delete(key(id))
	})
	return r.mapError(err, "failed to delete session")
}

func (r *BadgerRepository) put(txn *badger.Txn, id string, state booking.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return apperrors.NewInternalError("failed to encode session", err)
	}
	entry := badger.NewEntry(key(id), data)
	if r.ttl > 0 {
		entry = entry.WithTTL(r.ttl)
	}
	return txn.SetEntry(entry)
}

func (r *BadgerRepository) mapError(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return apperrors.NewNotFoundError("session not found")
	}
	if errors.Is(err, badger.ErrConflict) {
		return apperrors.NewConflictError("session was modified concurrently")
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		return err
	}
	var internal *apperrors.InternalError
	if errors.As(err, &internal) {
		return err
	}
	return apperrors.NewInternalError(message, err)
}

func read(txn *badger.Txn, id string) (booking.State, error) {
	var state booking.State
	item, err := txn.Get(key(id))
	if err != nil {
		return state, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &state)
	})
	if err != nil {
		return state, apperrors.NewInternalError("failed to decode session", err)
	}
	return state, nil
}

func key(id string) []byte {
	return []byte(keyPrefix + id)
}

var _ booking.Store = (*BadgerRepository)(nil)
