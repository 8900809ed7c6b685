package repositories

import (
	"context"
	"fmt"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerRatingRepository stores one rating per (post, user) pair.
type BadgerRatingRepository struct {
	db *badger.DB
}

func NewBadgerRatingRepository(db *badger.DB) *BadgerRatingRepository {
	return &BadgerRatingRepository{db: db}
}

// Upsert writes the rating, replacing any earlier value from the same user.
func (r *BadgerRatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		return setEntity(txn, ratingKey(rating.PostID, rating.UserID), rating)
	})
}

func (r *BadgerRatingRepository) Get(ctx context.Context, userID, postID int) (*models.Rating, error) {
	var rating models.Rating
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		return getEntity(txn, ratingKey(postID, userID), &rating)
	})
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *BadgerRatingRepository) ListByPost(ctx context.Context, postID int) ([]*models.Rating, error) {
	var ratings []*models.Rating
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(fmt.Sprintf("%s%d:", RatingKeyPrefix, postID))
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rating models.Rating
			if err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &rating)
			}); err != nil {
				return err
			}
			ratings = append(ratings, &rating)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ratings, nil
}
