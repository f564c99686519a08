package artifact

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "uploads"), time.Minute)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

func TestNew_CreatesRoot(t *testing.T) {
	s := newStore(t)
	info, err := os.Stat(s.Root())
	if err != nil {
		t.Fatalf("Stat(root) error: %v", err)
	}
	if !info.IsDir() {
		t.Error("root should be a directory")
	}
	if !filepath.IsAbs(s.Root()) {
		t.Errorf("Root() = %q, want absolute", s.Root())
	}
}

func TestNameFor(t *testing.T) {
	a := NameFor([]byte("one"), ".png")
	b := NameFor([]byte("one"), ".png")
	c := NameFor([]byte("two"), ".png")

	if a != b {
		t.Error("NameFor should be deterministic")
	}
	if a == c {
		t.Error("different content should get different names")
	}
	if !strings.HasPrefix(a, Prefix) || !strings.HasSuffix(a, ".png") {
		t.Errorf("NameFor = %q, want %s<id>.png", a, Prefix)
	}
	if len(a) != len(Prefix)+idLen+len(".png") {
		t.Errorf("len(NameFor) = %d", len(a))
	}

	// BLAKE2b-256 of the empty input begins 0e5751c026e543b2.
	if got := NameFor(nil, ".png"); got != Prefix+"0e5751c026e543b2.png" {
		t.Errorf("NameFor(empty) = %q, want blake2b-256 prefix", got)
	}
}

func TestPutOpen(t *testing.T) {
	s := newStore(t)
	data := []byte("encoded image bytes")

	name, err := s.Put(data, ".png")
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if name != NameFor(data, ".png") {
		t.Errorf("Put() name = %q, want %q", name, NameFor(data, ".png"))
	}

	f, info, err := s.Open(name)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer f.Close()

	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("content = %q, want %q", got, data)
	}
	if info.Size() != int64(len(data)) {
		t.Errorf("Size() = %d, want %d", info.Size(), len(data))
	}
}

func TestPut_LeavesNoTempFiles(t *testing.T) {
	s := newStore(t)
	if _, err := s.Put([]byte("x"), ".png"); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if _, err := s.Put([]byte("x"), ".png"); err != nil {
		t.Fatalf("second Put() error: %v", err)
	}

	entries, err := os.ReadDir(s.Root())
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("store contains %v, want one artifact", names)
	}
}

func TestOpen_Sanitizes(t *testing.T) {
	s := newStore(t)
	name, err := s.Put([]byte("payload"), ".png")
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	// Directory components are stripped before lookup.
	f, _, err := s.Open("../../" + name)
	if err != nil {
		t.Fatalf("Open(traversal) error: %v", err)
	}
	f.Close()
}

func TestOpen_Invalid(t *testing.T) {
	s := newStore(t)

	tests := []struct {
		name string
		want error
	}{
		{"", ErrInvalidName},
		{"input_abc.png", ErrInvalidName},
		{"../../etc/passwd", ErrInvalidName},
		{"encoded_", ErrInvalidName},
		{"encoded_a b.png", ErrInvalidName},
		{"encoded_%00.png", ErrInvalidName},
		{"encoded_missing.png", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Open(tt.name)
			if !errors.Is(err, tt.want) {
				t.Errorf("Open(%q) error = %v, want %v", tt.name, err, tt.want)
			}
		})
	}
}

func TestOpen_SymlinkOutsideRoot(t *testing.T) {
	s := newStore(t)

	outside := filepath.Join(t.TempDir(), "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Symlink(outside, filepath.Join(s.Root(), "encoded_link.png")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if _, _, err := s.Open("encoded_link.png"); !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("Open(symlink) error = %v, want ErrOutsideRoot", err)
	}
}

func TestOpen_Directory(t *testing.T) {
	s := newStore(t)
	if err := os.Mkdir(filepath.Join(s.Root(), "encoded_dir"), 0o750); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if _, _, err := s.Open("encoded_dir"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open(dir) error = %v, want ErrNotFound", err)
	}
}

func TestSweep(t *testing.T) {
	s := newStore(t)

	oldName, err := s.Put([]byte("old"), ".png")
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	freshName, err := s.Put([]byte("fresh"), ".png")
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	other := filepath.Join(s.Root(), "keep.txt")
	if err := os.WriteFile(other, []byte("k"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	past := time.Now().Add(-time.Hour)
	for _, p := range []string{filepath.Join(s.Root(), oldName), other} {
		if err := os.Chtimes(p, past, past); err != nil {
			t.Fatalf("Chtimes: %v", err)
		}
	}

	removed, err := s.Sweep()
	if err != nil {
		t.Fatalf("Sweep() error: %v", err)
	}
	if removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if _, _, err := s.Open(oldName); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired artifact still present: %v", err)
	}
	if f, _, err := s.Open(freshName); err != nil {
		t.Errorf("fresh artifact removed: %v", err)
	} else {
		f.Close()
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("non-artifact file removed: %v", err)
	}
}

func TestSweep_RefreshedAfterListing(t *testing.T) {
	s := newStore(t)
	data := []byte("again")

	name, err := s.Put(data, ".png")
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(s.Root(), name), past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	// Sweep reads the clock after listing the directory; refresh the
	// artifact in that gap.
	s.now = func() time.Time {
		if _, err := s.Put(data, ".png"); err != nil {
			t.Errorf("Put() during sweep error: %v", err)
		}
		return time.Now()
	}

	removed, err := s.Sweep()
	if err != nil {
		t.Fatalf("Sweep() error: %v", err)
	}
	if removed != 0 {
		t.Errorf("Sweep() removed %d, want 0", removed)
	}
	f, _, err := s.Open(name)
	if err != nil {
		t.Fatalf("refreshed artifact removed: %v", err)
	}
	f.Close()
}

func TestSweep_ConcurrentPut(t *testing.T) {
	s := newStore(t)
	data := []byte("contended")

	for i := 0; i < 50; i++ {
		name, err := s.Put(data, ".png")
		if err != nil {
			t.Fatalf("Put() error: %v", err)
		}
		past := time.Now().Add(-time.Hour)
		if err := os.Chtimes(filepath.Join(s.Root(), name), past, past); err != nil {
			t.Fatalf("Chtimes: %v", err)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := s.Put(data, ".png"); err != nil {
				t.Errorf("Put() error: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := s.Sweep(); err != nil {
				t.Errorf("Sweep() error: %v", err)
			}
		}()
		wg.Wait()

		// Whichever ran first, a Put that has returned leaves a fresh file.
		f, _, err := s.Open(name)
		if err != nil {
			t.Fatalf("iteration %d: artifact missing after concurrent Put: %v", i, err)
		}
		f.Close()
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := newStore(t)
	s.ttl = 0

	if _, err := s.Put([]byte("short-lived"), ".png"); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 16)
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, 5*time.Millisecond, func(n int, _ error) { swept <- n })
	}()

	total := 0
	deadline := time.After(2 * time.Second)
	for total == 0 {
		select {
		case n := <-swept:
			total += n
		case <-deadline:
			t.Fatal("sweeper never removed the artifact")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
}
