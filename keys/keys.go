// Package keys generates and parses the opaque job identifier K.
package keys

import (
	"sync/atomic"

	"oss.nandlabs.io/jobstore/uuid"
)

// K is an opaque, total-ordered job identifier. Order is irrelevant for
// correctness and used only as a deterministic tie-break.
type K struct {
	id  string
	seq uint64
}

// sequence hands out the monotonic tie-break counter shared by every K
// minted in this process.
var sequence uint64

// New mints a fresh K backed by a random V4 UUID.
func New() K {
	u, err := uuid.V4()
	var s string
	if err != nil {
		// crypto/rand failing is effectively unrecoverable on this host;
		// fall back to the sequence number so New never errors.
		s = ""
	} else {
		s = u.String()
	}
	return K{id: s, seq: atomic.AddUint64(&sequence, 1)}
}

// String renders K in its canonical external form.
func (k K) String() string {
	return k.id
}

// Seq returns the tie-break sequence number assigned at creation.
func (k K) Seq() uint64 {
	return k.seq
}

// IsZero reports whether k is the zero value (never minted by New, never a
// valid parse result).
func (k K) IsZero() bool {
	return k.id == "" && k.seq == 0
}

// Less orders two keys by their creation sequence, a deterministic
// tie-break for otherwise-equal sort keys.
func (k K) Less(other K) bool {
	return k.seq < other.seq
}

// Parse recovers a K from its external string form. Parse failure returns
// the zero K and false - it never panics or errors; callers treat an
// unparseable id as "unknown job".
func Parse(s string) (k K, ok bool) {
	if len(s) != 36 {
		return K{}, false
	}
	for i, c := range s {
		if i == 8 || i == 13 || i == 18 || i == 23 {
			if c != '-' {
				return K{}, false
			}
			continue
		}
		if !isHex(byte(c)) {
			return K{}, false
		}
	}
	return K{id: s}, true
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
