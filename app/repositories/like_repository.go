package repositories

import (
	"context"
	"fmt"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerLikeRepository stores one like key per (post, user) pair.
type BadgerLikeRepository struct {
	db *badger.DB
}

func NewBadgerLikeRepository(db *badger.DB) *BadgerLikeRepository {
	return &BadgerLikeRepository{db: db}
}

// Toggle flips the like state inside one transaction and reports whether
// the pair is liked afterwards.
func (r *BadgerLikeRepository) Toggle(ctx context.Context, userID, postID int) (bool, error) {
	var liked bool
	err := update(ctx, r.db, func(txn *badger.Txn) error {
		key := likeKey(postID, userID)
		_, err := txn.Get(key)
		switch {
		case err == nil:
			liked = false
			return txn.Delete(key)
		case err == badger.ErrKeyNotFound:
			liked = true
			return setEntity(txn, key, &models.Like{UserID: userID, PostID: postID})
		default:
			return err
		}
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

func (r *BadgerLikeRepository) Exists(ctx context.Context, userID, postID int) (bool, error) {
	var found bool
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		_, err := txn.Get(likeKey(postID, userID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

func (r *BadgerLikeRepository) CountByPost(ctx context.Context, postID int) (int, error) {
	var count int
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		count = len(prefixKeys(txn, []byte(fmt.Sprintf("%s%d:", LikeKeyPrefix, postID))))
		return nil
	})
	return count, err
}
