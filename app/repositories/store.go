package repositories

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Store owns the Badger database that backs every repository.
type Store struct {
	db       *badger.DB
	mutex    sync.RWMutex
	dbPath   string
	isTestDB bool
}

// NewStore opens (or creates) the database at path. An empty path or
// "test_db" opens a throwaway database in a fresh temp directory.
func NewStore(path string) (*Store, error) {
	isTest := false
	if path == "" || path == "test_db" {
		tempPath, err := os.MkdirTemp("", "postboard_test_db_")
		if err != nil {
			return nil, fmt.Errorf("error creating temp dir: %w", err)
		}
		path = tempPath
		isTest = true
	}
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if isTest {
		opts = opts.WithSyncWrites(false).WithNumGoroutines(1)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{
		db:       db,
		dbPath:   path,
		isTestDB: isTest,
	}, nil
}

// NewInMemoryStore opens a Badger instance that never touches disk.
func NewInMemoryStore() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, err
	}
	return &Store{db: db, isTestDB: true}, nil
}

func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	err := s.db.Close()
	if err != nil {
		return err
	}

	if s.isTestDB && s.dbPath != "" {
		if err := os.RemoveAll(s.dbPath); err != nil {
			return fmt.Errorf("failed to cleanup test database: %w", err)
		}
	}
	return nil
}

// Backup streams a full backup to w.
func (s *Store) Backup(w io.Writer) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, err := s.db.Backup(w, 0)
	return err
}

// Load restores a backup produced by Backup.
func (s *Store) Load(r io.Reader) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.Load(r, 4)
}

// Repositories bundles the Badger-backed repositories sharing one Store.
type Repositories struct {
	Users    *BadgerUserRepository
	Sessions *BadgerSessionRepository
	Posts    *BadgerPostRepository
	Comments *BadgerCommentRepository
	Likes    *BadgerLikeRepository
	Ratings  *BadgerRatingRepository
}

// NewRepositories wires every repository onto the store's database.
func NewRepositories(s *Store) *Repositories {
	return &Repositories{
		Users:    NewBadgerUserRepository(s.db),
		Sessions: NewBadgerSessionRepository(s.db),
		Posts:    NewBadgerPostRepository(s.db),
		Comments: NewBadgerCommentRepository(s.db),
		Likes:    NewBadgerLikeRepository(s.db),
		Ratings:  NewBadgerRatingRepository(s.db),
	}
}
