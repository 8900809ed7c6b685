package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const (
	// Key prefixes for different entity types
	UserKeyPrefix      = "user:"
	UserEmailKeyPrefix = "user_email:"
	SessionKeyPrefix   = "session:"
	PostKeyPrefix      = "post:"
	CommentKeyPrefix   = "comment:"
	LikeKeyPrefix      = "like:"
	RatingKeyPrefix    = "rating:"

	// Secondary indexes for the comment tree
	CommentByPostPrefix   = "comment_post:"
	CommentByParentPrefix = "comment_parent:"

	// Sequence keys for auto-incrementing IDs
	UserSeqKey    = "seq:user"
	PostSeqKey    = "seq:post"
	CommentSeqKey = "seq:comment"

	maxTxnRetries = 20
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already in use")
)

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	var id int
	item, err := txn.Get([]byte(seqKey))
	if err == badger.ErrKeyNotFound {
		id = 1
	} else if err != nil {
		return 0, err
	} else {
		err = item.Value(func(val []byte) error {
			id = int(val[0])<<24 | int(val[1])<<16 | int(val[2])<<8 | int(val[3])
			return nil
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	// Store new ID
	idBytes := []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	if err := txn.Set([]byte(seqKey), idBytes); err != nil {
		return 0, err
	}

	return id, nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// getEntity loads and decodes the value stored at key.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// setEntity encodes entity and stores it at key.
func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// prefixKeys collects every key under prefix. Keys are copied so they
// outlive the iterator.
func prefixKeys(txn *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

// update runs fn in a read-write transaction, retrying when badger reports
// a conflict with a concurrent writer.
func update(ctx context.Context, db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("transaction retries exhausted: %w", err)
}

// view runs fn in a read-only transaction.
func view(ctx context.Context, db *badger.DB, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.View(fn)
}

func userKey(id int) []byte { return []byte(fmt.Sprintf("%s%d", UserKeyPrefix, id)) }
func userEmailKey(e string) []byte { return []byte(UserEmailKeyPrefix + e) }
func sessionKey(userID int) []byte { return []byte(fmt.Sprintf("%s%d", SessionKeyPrefix, userID)) }
func postKey(id int) []byte { return []byte(fmt.Sprintf("%s%d", PostKeyPrefix, id)) }
func commentKey(id int) []byte { return []byte(fmt.Sprintf("%s%d", CommentKeyPrefix, id)) }
func likeKey(postID, userID int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", LikeKeyPrefix, postID, userID))
}
func ratingKey(postID, userID int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", RatingKeyPrefix, postID, userID))
}
func commentByPostKey(postID, commentID int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", CommentByPostPrefix, postID, commentID))
}
func commentByParentKey(parentID, commentID int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", CommentByParentPrefix, parentID, commentID))
}

// trailingID parses the last ":"-separated segment of an index key.
func trailingID(key []byte) (int, error) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ':' {
			var id int
			_, err := fmt.Sscanf(string(key[i+1:]), "%d", &id)
			return id, err
		}
	}
	return 0, fmt.Errorf("malformed index key %q", key)
}
