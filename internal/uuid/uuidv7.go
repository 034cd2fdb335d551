// Package uuid generates time-ordered UUIDv7 identifiers. Backup object keys
// are built from them so that lexical key order is creation order.
package uuid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	googleuuid "github.com/google/uuid"
)

var (
	mu     sync.Mutex
	lastMs uint64
	seq    uint16
)

// New generates a UUIDv7 for the current time.
//
// Layout (RFC 9562):
// - 48 bits: Unix timestamp in milliseconds
// - 4 bits: version (0111 = 7)
// - 12 bits: counter, reset each millisecond
// - 2 bits: variant (10)
// - 62 bits: random data
//
// The counter makes IDs generated in the same millisecond sort in call order.
// If it overflows, the timestamp is advanced by one millisecond.
func New() string {
	return newAt(time.Now())
}

func newAt(now time.Time) string {
	var uuid [16]byte

	ms, counter := nextTick(uint64(now.UnixMilli()))

	binary.BigEndian.PutUint64(uuid[0:8], ms<<16)
	binary.BigEndian.PutUint16(uuid[6:8], counter)

	if _, err := rand.Read(uuid[8:]); err != nil {
		// Fallback to standard UUIDv4 if random generation fails
		return googleuuid.New().String()
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return formatUUID(uuid)
}

// nextTick returns the timestamp and 12-bit counter for the next ID. The
// timestamp never goes backwards, even if the wall clock does.
func nextTick(ms uint64) (uint64, uint16) {
	mu.Lock()
	defer mu.Unlock()

	switch {
	case ms > lastMs:
		lastMs = ms
		seq = 0
	case seq < 0x0fff:
		seq++
	default:
		lastMs++
		seq = 0
	}
	return lastMs, seq
}

// formatUUID formats a 16-byte array as a UUID string
func formatUUID(uuid [16]byte) string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		binary.BigEndian.Uint32(uuid[0:4]),
		binary.BigEndian.Uint16(uuid[4:6]),
		binary.BigEndian.Uint16(uuid[6:8]),
		binary.BigEndian.Uint16(uuid[8:10]),
		uuid[10:16],
	)
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}

// Time returns the creation time embedded in a UUIDv7.
func Time(s string) (time.Time, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	if parsed.Version() != 7 {
		return time.Time{}, fmt.Errorf("uuid %s is version %d, not 7", s, parsed.Version())
	}
	ms := binary.BigEndian.Uint64(append([]byte{0, 0}, parsed[0:6]...))
	return time.UnixMilli(int64(ms)).UTC(), nil
}
