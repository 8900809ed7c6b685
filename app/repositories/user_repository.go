package repositories

import (
	"context"
	"sort"
	"strconv"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository using BadgerDB.
// A user_email index key enforces email uniqueness.
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create creates a new user, failing with ErrEmailTaken on a duplicate email
func (r *BadgerUserRepository) Create(ctx context.Context, user *models.User) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		emailKey := userEmailKey(user.Email)
		if _, err := txn.Get(emailKey); err == nil {
			return ErrEmailTaken
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = id

		if err := txn.Set(emailKey, []byte(strconv.Itoa(id))); err != nil {
			return err
		}
		return setEntity(txn, userKey(id), user)
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail resolves the email index and loads the user
func (r *BadgerUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(models.NormalizeEmail(email)))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var id int
		err = item.Value(func(val []byte) error {
			id, err = strconv.Atoi(string(val))
			return err
		})
		if err != nil {
			return err
		}
		return getEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves all users ordered by ID
func (r *BadgerUserRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(UserKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var user models.User
			if err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &user)
			}); err != nil {
				return err
			}
			users = append(users, &user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Update saves the user, moving the email index when the email changed
func (r *BadgerUserRepository) Update(ctx context.Context, user *models.User) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		var existing models.User
		if err := getEntity(txn, userKey(user.ID), &existing); err != nil {
			return err
		}

		if existing.Email != user.Email {
			newKey := userEmailKey(user.Email)
			if _, err := txn.Get(newKey); err == nil {
				return ErrEmailTaken
			} else if err != badger.ErrKeyNotFound {
				return err
			}
			if err := txn.Delete(userEmailKey(existing.Email)); err != nil {
				return err
			}
			if err := txn.Set(newKey, []byte(strconv.Itoa(user.ID))); err != nil {
				return err
			}
		}
		return setEntity(txn, userKey(user.ID), user)
	})
}

// Delete removes the user, its email index and its session
func (r *BadgerUserRepository) Delete(ctx context.Context, id int) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		var existing models.User
		if err := getEntity(txn, userKey(id), &existing); err != nil {
			return err
		}
		for _, key := range [][]byte{userEmailKey(existing.Email), sessionKey(id), userKey(id)} {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
