package mapping

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/esnerda/kbc-branch-mcp/internal/filemanager"
	"github.com/esnerda/kbc-branch-mcp/internal/logger"
)

// Store provides durable access to the branch mapping file
type Store struct {
	path      string
	isDefault func(branch string) bool
	files     *filemanager.Manager[BranchMapping]
	log       logger.Logger
}

// NewStore creates a store backed by the JSON file at path. isDefault
// reports whether a branch name is a configured default branch; such
// branches may never be saved with a non-null ID.
func NewStore(path string, isDefault func(string) bool, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		path:      path,
		isDefault: isDefault,
		files:     filemanager.NewManager[BranchMapping](),
		log:       log,
	}
}

// Path returns the mapping file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the mapping file. An absent file is an empty mapping, not
// an error. A malformed file is a CorruptStoreError.
func (s *Store) Load(ctx context.Context) (BranchMapping, error) {
	m, err := s.files.Read(ctx, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return BranchMapping{}, nil
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return nil, CorruptStoreError{Path: s.path, Err: err}
		}
		return nil, err
	}
	if *m == nil {
		return BranchMapping{}, nil
	}
	return *m, nil
}

// Save writes the full mapping atomically. It rejects any entry that
// binds a default branch to a non-null ID.
func (s *Store) Save(ctx context.Context, m BranchMapping) error {
	for branch, id := range m {
		if id != nil && s.isDefault(branch) {
			return InvariantViolationError{Branch: branch, RemoteID: *id}
		}
	}
	if err := s.files.Write(ctx, s.path, &m); err != nil {
		return err
	}
	s.log.Debug("branch mapping saved", "path", s.path, "entries", len(m))
	return nil
}

// Add sets or overwrites the entry for branch and persists the store
func (s *Store) Add(ctx context.Context, branch string, remoteID *string) error {
	m, err := s.Load(ctx)
	if err != nil {
		return err
	}
	m[branch] = remoteID
	return s.Save(ctx, m)
}

// Remove deletes the entry for branch and persists the store. The
// second return value reports whether an entry existed.
func (s *Store) Remove(ctx context.Context, branch string) (*string, bool, error) {
	m, err := s.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	removed, ok := m[branch]
	if !ok {
		return nil, false, nil
	}
	delete(m, branch)
	if err := s.Save(ctx, m); err != nil {
		return nil, false, err
	}
	return removed, true, nil
}

// Get looks up the entry for branch. The second return value reports
// whether an entry exists; a (nil, true) result is an explicit
// production entry.
func (s *Store) Get(ctx context.Context, branch string) (*string, bool, error) {
	m, err := s.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	id, ok := m[branch]
	return id, ok, nil
}
