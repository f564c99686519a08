// Package artifact keeps encoded images on disk until they are downloaded or
// expire.
//
// Names are derived from content: the same output always gets the same name,
// and a name reveals nothing about the upload it came from.
package artifact

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Prefix starts every artifact name.
const Prefix = "encoded_"

// Sentinel errors.
var (
	// ErrInvalidName indicates a name that is not a well-formed artifact name.
	ErrInvalidName = errors.New("invalid artifact name")

	// ErrOutsideRoot indicates a name that resolves outside the store directory.
	ErrOutsideRoot = errors.New("artifact path outside store")

	// ErrNotFound indicates a well-formed name with no stored artifact.
	ErrNotFound = errors.New("artifact not found")
)

// idLen is the number of hex digits of the digest kept in a name.
const idLen = 16

// Store is a directory of artifacts with a time-to-live.
type Store struct {
	root string
	ttl  time.Duration
	now  func() time.Time

	// mu orders Put's rename against Sweep's age check and removal.
	mu sync.Mutex
}

// New creates the directory at root if needed and returns a store over it.
func New(root string, ttl time.Duration) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("artifact root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("artifact root: %w", err)
	}
	return &Store{root: abs, ttl: ttl, now: time.Now}, nil
}

// Root returns the absolute store directory.
func (s *Store) Root() string {
	return s.root
}

// NameFor returns the artifact name data would be stored under.
func NameFor(data []byte, ext string) string {
	sum := blake2b.Sum256(data)
	return Prefix + hex.EncodeToString(sum[:])[:idLen] + ext
}

// Put writes data and returns its name. Writing identical data again
// refreshes the artifact's age.
func (s *Store) Put(data []byte, ext string) (string, error) {
	name := NameFor(data, ext)
	if err := checkName(name); err != nil {
		return "", err
	}
	path := filepath.Join(s.root, name)

	tmp, err := os.CreateTemp(s.root, ".put-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return name, nil
}

// Path resolves name to a file inside the store. Only the base name of the
// argument is used; it must carry Prefix and contain nothing but letters,
// digits, '.', '_' and '-'.
func (s *Store) Path(name string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if err := checkName(base); err != nil {
		return "", err
	}

	path := filepath.Join(s.root, base)

	// A symlink planted in the store must still resolve inside it.
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		rootReal, err := filepath.EvalSymlinks(s.root)
		if err != nil || filepath.Dir(resolved) != rootReal {
			return "", ErrOutsideRoot
		}
	}
	return path, nil
}

// Open returns the artifact called name for reading. The caller closes it.
func (s *Store) Open(name string) (*os.File, os.FileInfo, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path) // #nosec G304 -- path confined to the store by Path
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close() //nolint:errcheck,gosec // stat error takes precedence
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close() //nolint:errcheck,gosec // not an artifact
		return nil, nil, ErrNotFound
	}
	return f, info, nil
}

// Sweep removes artifacts older than the TTL and returns how many were removed.
// Files without Prefix are left alone.
func (s *Store) Sweep() (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	var errs []error
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasPrefix(e.Name(), Prefix) {
			continue
		}
		ok, err := s.removeExpired(filepath.Join(s.root, e.Name()), cutoff)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			removed++
		}
	}
	return removed, errors.Join(errs...)
}

// removeExpired deletes the file at path if it was last written at or before
// cutoff. The age is read again under the lock; the listing may be stale.
func (s *Store) removeExpired(path string, cutoff time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.Mode().IsRegular() || info.ModTime().After(cutoff) {
		return false, nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	return true, nil
}

// Run sweeps every interval until ctx is done. onSweep, if non-nil, is called
// after each sweep.
func (s *Store) Run(ctx context.Context, interval time.Duration, onSweep func(removed int, err error)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.Sweep()
			if onSweep != nil {
				onSweep(n, err)
			}
		}
	}
}

func checkName(name string) error {
	if !strings.HasPrefix(name, Prefix) || len(name) == len(Prefix) {
		return fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.' || r == '_' || r == '-':
		default:
			return fmt.Errorf("%w %q", ErrInvalidName, name)
		}
	}
	return nil
}
