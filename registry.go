package stego

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	formats   = make(map[string]Format)
	formatsMu sync.RWMutex

	processors   = make(map[string]*Processor)
	processorsMu sync.RWMutex
)

// Register makes a format available to Lookup by name and extension.
// Format subpackages call it from init. Registering a name twice replaces
// the earlier format.
func Register(f Format) {
	formatsMu.Lock()
	defer formatsMu.Unlock()
	formats[strings.ToLower(f.Name())] = f
}

// Lookup returns the registered format for a name ("png") or extension
// (".png", "PNG"). Returns ErrUnknownFormat if nothing matches.
func Lookup(name string) (Format, error) {
	key := strings.ToLower(strings.TrimPrefix(name, "."))

	formatsMu.RLock()
	defer formatsMu.RUnlock()

	if f, ok := formats[key]; ok {
		return f, nil
	}
	for _, f := range formats {
		if strings.TrimPrefix(f.Extension(), ".") == key {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownFormat, name)
}

// MustLookup is like Lookup but panics if the format is not registered.
// Use it for names fixed at compile time.
func MustLookup(name string) Format {
	f, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return f
}

// Formats returns the names of all registered formats, sorted.
func Formats() []string {
	formatsMu.RLock()
	defer formatsMu.RUnlock()

	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Use returns a cached processor or builds a new one.
// The processor is cached by the format's content type.
func Use(f Format) (*Processor, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil format", ErrUnknownFormat)
	}
	key := f.ContentType()

	// Fast path: read-lock cache check
	processorsMu.RLock()
	if cached, ok := processors[key]; ok {
		processorsMu.RUnlock()
		return cached, nil
	}
	processorsMu.RUnlock()

	// Slow path: build and cache with write-lock
	processorsMu.Lock()
	defer processorsMu.Unlock()

	// Double-check pattern
	if cached, ok := processors[key]; ok {
		return cached, nil
	}

	processor, err := NewProcessor(f)
	if err != nil {
		return nil, err
	}

	processors[key] = processor
	return processor, nil
}

// Reset clears the processor cache.
// This is primarily useful for test isolation.
func Reset() {
	processorsMu.Lock()
	defer processorsMu.Unlock()
	processors = make(map[string]*Processor)
}
