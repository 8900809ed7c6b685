package repositories

import (
	"context"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerSessionRepository keeps one session record per user id.
type BadgerSessionRepository struct {
	db *badger.DB
}

func NewBadgerSessionRepository(db *badger.DB) *BadgerSessionRepository {
	return &BadgerSessionRepository{db: db}
}

// Put replaces whatever session the user had.
func (r *BadgerSessionRepository) Put(ctx context.Context, session *models.Session) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		return setEntity(txn, sessionKey(session.UserID), session)
	})
}

func (r *BadgerSessionRepository) Get(ctx context.Context, userID int) (*models.Session, error) {
	var session models.Session
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		return getEntity(txn, sessionKey(userID), &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *BadgerSessionRepository) Delete(ctx context.Context, userID int) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(userID))
	})
}
