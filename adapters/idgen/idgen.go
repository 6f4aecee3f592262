// Package idgen provides ID generators for row ids and title tokens.
package idgen

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/artpar/notionorm/ports"
	"github.com/google/uuid"
)

// UUID generates dashed v4 UUIDs, the form the remote service uses for ids.
type UUID struct{}

// New generates a new UUID v4.
func (UUID) New() string {
	return uuid.NewString()
}

// Compact generates v4 UUIDs without dashes, as found in page URLs.
type Compact struct{}

// New generates a new 32 character hex id.
func (Compact) New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Sequential generates prefix1, prefix2, ... (for testing).
type Sequential struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequential creates a sequential ID generator.
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// New generates the next sequential ID.
func (s *Sequential) New() string {
	return s.prefix + strconv.FormatUint(s.counter.Add(1), 10)
}

// Reset restarts the sequence.
func (s *Sequential) Reset() {
	s.counter.Store(0)
}

var (
	_ ports.IDGenerator = UUID{}
	_ ports.IDGenerator = Compact{}
	_ ports.IDGenerator = (*Sequential)(nil)
)
