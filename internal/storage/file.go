package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const flockRetry = 10 * time.Millisecond

type snapshot struct {
	Version   int                        `json:"version"`
	Docs      map[string]json.RawMessage `json:"docs"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

// FileStore keeps every document in one JSON snapshot file.
// Each operation re-reads the file under an OS lock, so several processes may share it;
// a write replaces only its own key and swaps the file in atomically.
type FileStore struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

func OpenFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &FileStore{path: path, lock: flock.New(path + ".lock")}
	err := s.withWrite(context.Background(), func(*snapshot) bool { return false })
	if err != nil {
		return nil, err
	}
	return s, nil
}

// withFile holds the in-process mutex and the OS lock while fn runs against a fresh snapshot.
func (s *FileStore) withFile(ctx context.Context, fn func(*snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.lock.TryLockContext(ctx, flockRetry)
	if err != nil {
		return fmt.Errorf("lock data file: %w", err)
	}
	if !ok {
		return fmt.Errorf("lock data file: %w", ctx.Err())
	}
	defer func() { _ = s.lock.Unlock() }()

	snap, err := s.read()
	if err != nil {
		return err
	}
	return fn(snap)
}

func (s *FileStore) withRead(ctx context.Context, fn func(*snapshot)) error {
	return s.withFile(ctx, func(snap *snapshot) error {
		fn(snap)
		return nil
	})
}

// withWrite flushes the snapshot when fn reports a change, or when the file did not exist yet.
func (s *FileStore) withWrite(ctx context.Context, fn func(*snapshot) bool) error {
	return s.withFile(ctx, func(snap *snapshot) error {
		_, statErr := os.Stat(s.path)
		if !fn(snap) && statErr == nil {
			return nil
		}
		snap.UpdatedAt = time.Now()
		return s.flush(snap)
	})
}

func (s *FileStore) read() (*snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if len(data) == 0 {
		return &snapshot{Version: 1, Docs: map[string]json.RawMessage{}}, nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode data file: %w", err)
	}
	if snap.Docs == nil {
		snap.Docs = map[string]json.RawMessage{}
	}
	return &snap, nil
}

func (s *FileStore) flush(snap *snapshot) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode data file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value []byte
		found bool
	)
	err := s.withRead(ctx, func(snap *snapshot) {
		var v json.RawMessage
		if v, found = snap.Docs[key]; found {
			value = append([]byte(nil), v...)
		}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return value, nil
}

func (s *FileStore) Put(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("put %s: value is not JSON", key)
	}
	return s.withWrite(ctx, func(snap *snapshot) bool {
		snap.Docs[key] = append(json.RawMessage(nil), value...)
		return true
	})
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	return s.withWrite(ctx, func(snap *snapshot) bool {
		if _, ok := snap.Docs[key]; !ok {
			return false
		}
		delete(snap.Docs, key)
		return true
	})
}

// Close is a no-op; the lock file handle is only held during an operation.
func (s *FileStore) Close() error { return nil }

// FileLocker pairs an in-process lock with an OS lock file per key,
// so processes sharing one data file serialise their read-modify-write cycles.
type FileLocker struct {
	base  string
	local *LocalLocker
}

func NewFileLocker(dataPath string) *FileLocker {
	return &FileLocker{base: dataPath, local: NewLocalLocker()}
}

// lockFile names the OS lock for key. Keys sharing a namespace prefix such as
// currentUser: share one lock file; such keys are never locked together with another.
func (l *FileLocker) lockFile(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		key = key[:i]
	}
	return l.base + "." + strings.NewReplacer("/", "_", "\\", "_").Replace(key) + ".lock"
}

func (l *FileLocker) Lock(ctx context.Context, key string) (func(), error) {
	release, err := l.local.Lock(ctx, key)
	if err != nil {
		return nil, err
	}

	fl := flock.New(l.lockFile(key))
	ok, err := fl.TryLockContext(ctx, flockRetry)
	if err != nil || !ok {
		release()
		if err == nil {
			err = ctx.Err()
		}
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = fl.Unlock()
			release()
		})
	}, nil
}

var (
	_ Store  = (*FileStore)(nil)
	_ Locker = (*FileLocker)(nil)
)
