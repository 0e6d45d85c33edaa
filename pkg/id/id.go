// Package id hands out ledger entry identifiers.
//
// Entry IDs are ULIDs: lexicographically sortable by creation time, which keeps
// SQLite and Postgres indexes append-friendly and lets an entry's creation time
// be recovered without a separate column.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator produces monotonic ULIDs. It is safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

// NewGenerator seeds a monotonic entropy source from crypto/rand.
func NewGenerator() *Generator {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)}
}

// NewAt returns an ID stamped with t.
func (g *Generator) NewAt(t time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(t.UTC()), g.entropy)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

var std = NewGenerator()

// New returns an ID stamped with the current time.
func New() string {
	s, err := std.NewAt(time.Now())
	if err != nil {
		// Only possible if the clock runs backwards past the monotonic window.
		panic(err)
	}
	return s
}

// Time recovers the creation time encoded in an ID.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()).UTC(), nil
}

// Valid reports whether s is a well-formed ULID.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
