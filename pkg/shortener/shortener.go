// Package shortener turns 12-byte ObjectIDs into short, human-shareable
// base-36 codes and back.
//
// An ObjectID is laid out as 4 bytes of creation seconds, 3 bytes of machine
// id, 2 bytes of process id and 3 bytes of monotonic counter. The code keeps
// only the low 22 bits of the timestamp and the low 16 bits of the counter,
// so it is a lossy 38-bit encoding: decoding yields a (timestamp, counter)
// pair that must be resolved against stored records, not a direct key.
package shortener

import (
	"encoding/binary"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/02loveslollipop/MiPedido/models"
)

const (
	// TimestampMask keeps the low 22 bits of the id's creation seconds.
	TimestampMask = 0x3FFFFF
	// CounterMask keeps the low 16 bits of the id's counter field.
	CounterMask = 0xFFFF
)

// Encode truncates an ObjectID to its shareable (timestamp, counter) pair.
func Encode(id primitive.ObjectID) (timestamp uint32, counter uint32) {
	timestamp = binary.BigEndian.Uint32(id[0:4]) & TimestampMask

	// The counter occupies bytes 9-12; widen the 3 bytes before masking.
	c := uint32(id[9])<<16 | uint32(id[10])<<8 | uint32(id[11])
	counter = c & CounterMask
	return timestamp, counter
}

// ToCode renders the truncated pair as "<timestamp36>-<counter36>" using the
// 0-9A-Z alphabet with no padding.
func ToCode(counter, timestamp uint32) string {
	t := strings.ToUpper(strconv.FormatUint(uint64(timestamp), 36))
	c := strings.ToUpper(strconv.FormatUint(uint64(counter), 36))
	return t + "-" + c
}

// FromCode parses a short code back into its (timestamp, counter) pair. The
// code must split on a single hyphen into two non-empty base-36 halves, and
// each half must fit its bit width; anything else is ErrInvalidShortCode.
func FromCode(code string) (timestamp uint32, counter uint32, err error) {
	parts := strings.Split(code, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return 0, 0, models.ErrInvalidShortCode
	}

	t, err := strconv.ParseUint(parts[0], 36, 32)
	if err != nil || t > TimestampMask {
		return 0, 0, models.ErrInvalidShortCode
	}

	c, err := strconv.ParseUint(parts[1], 36, 32)
	if err != nil || c > CounterMask {
		return 0, 0, models.ErrInvalidShortCode
	}

	return uint32(t), uint32(c), nil
}

// Matches reports whether an ObjectID truncates to the given pair. Resolution
// scans candidates by counter and verifies the timestamp with this check, so
// unrelated records that merely share a counter suffix are rejected.
func Matches(id primitive.ObjectID, timestamp, counter uint32) bool {
	t, c := Encode(id)
	return t == timestamp && c == counter
}
