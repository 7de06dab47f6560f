// Package daily derives the shared puzzle of the day and records results.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// SeedSpace bounds daily seeds to the same range as generated seeds.
const SeedSpace = 1_000_000

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the generator seed for a date: HMAC-SHA256(salt, YYYY-MM-DD),
// first 8 bytes big-endian, modulo SeedSpace. Everyone gets the same puzzle for a day.
func Seed(date time.Time, salt string) int64 {
	return SeedForKey(DateKey(date), salt)
}

// SeedForKey is Seed for an already formatted date key.
func SeedForKey(dateKey, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dateKey))
	sum := h.Sum(nil)
	n := binary.BigEndian.Uint64(sum[:8])
	return int64(n % SeedSpace)
}
