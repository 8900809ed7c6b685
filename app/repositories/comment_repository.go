package repositories

import (
	"context"
	"fmt"
	"sort"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB.
// Comments are indexed by post and by parent comment.
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create creates a new comment and its index entries
func (r *BadgerCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id

		if err := setEntity(txn, commentKey(id), comment); err != nil {
			return err
		}
		if err := txn.Set(commentByPostKey(comment.PostID, id), nil); err != nil {
			return err
		}
		if comment.ParentCommentID != nil {
			if err := txn.Set(commentByParentKey(*comment.ParentCommentID, id), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	var comment models.Comment
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		return getEntity(txn, commentKey(id), &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns every comment on a post, replies included, newest first
func (r *BadgerCommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	return r.listIndexed(ctx, fmt.Sprintf("%s%d:", CommentByPostPrefix, postID))
}

// ListReplies returns the direct replies to a comment, newest first
func (r *BadgerCommentRepository) ListReplies(ctx context.Context, parentID int) ([]*models.Comment, error) {
	return r.listIndexed(ctx, fmt.Sprintf("%s%d:", CommentByParentPrefix, parentID))
}

func (r *BadgerCommentRepository) listIndexed(ctx context.Context, prefix string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		for _, key := range prefixKeys(txn, []byte(prefix)) {
			id, err := trailingID(key)
			if err != nil {
				return err
			}
			var comment models.Comment
			if err := getEntity(txn, commentKey(id), &comment); err != nil {
				if err == ErrNotFound {
					continue
				}
				return err
			}
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID > comments[j].ID
		}
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

// Delete removes a single comment and its own index entries.
// Replies are left in place.
func (r *BadgerCommentRepository) Delete(ctx context.Context, id int) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		var comment models.Comment
		if err := getEntity(txn, commentKey(id), &comment); err != nil {
			return err
		}
		keys := [][]byte{commentKey(id), commentByPostKey(comment.PostID, id)}
		if comment.ParentCommentID != nil {
			keys = append(keys, commentByParentKey(*comment.ParentCommentID, id))
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
