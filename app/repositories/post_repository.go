package repositories

import (
	"context"
	"fmt"
	"sort"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id
		return setEntity(txn, postKey(id), post)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		return getEntity(txn, postKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves all posts, newest first
func (r *BadgerPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			if err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			}); err != nil {
				return err
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sort by creation time (newest first)
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// Update saves caption and media changes for an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		if _, err := txn.Get(postKey(post.ID)); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return setEntity(txn, postKey(post.ID), post)
	})
}

// Delete removes a post together with its comments, comment indexes,
// likes and ratings. Everything happens in one transaction.
func (r *BadgerPostRepository) Delete(ctx context.Context, id int) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		if _, err := txn.Get(postKey(id)); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}

		var doomed [][]byte
		for _, indexKey := range prefixKeys(txn, []byte(fmt.Sprintf("%s%d:", CommentByPostPrefix, id))) {
			commentID, err := trailingID(indexKey)
			if err != nil {
				return err
			}
			var comment models.Comment
			if err := getEntity(txn, commentKey(commentID), &comment); err != nil && err != ErrNotFound {
				return err
			}
			if comment.ParentCommentID != nil {
				doomed = append(doomed, commentByParentKey(*comment.ParentCommentID, commentID))
			}
			doomed = append(doomed, indexKey, commentKey(commentID))
			doomed = append(doomed, prefixKeys(txn, []byte(fmt.Sprintf("%s%d:", CommentByParentPrefix, commentID)))...)
		}
		doomed = append(doomed, prefixKeys(txn, []byte(fmt.Sprintf("%s%d:", LikeKeyPrefix, id)))...)
		doomed = append(doomed, prefixKeys(txn, []byte(fmt.Sprintf("%s%d:", RatingKeyPrefix, id)))...)
		doomed = append(doomed, postKey(id))

		for _, key := range doomed {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
