package core

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"
	"sync/atomic"
	"time"
)

// Record ids are 12 random-ish bytes rendered as 24 lowercase hex
// characters, the shape the rest of the system validates against.
//
// Layout:
//   - 4 bytes: timestamp (seconds since epoch)
//   - 3 bytes: machine identifier
//   - 2 bytes: process id
//   - 3 bytes: atomically incremented counter
//
// Unique across time, machines, processes, and multiple ids within the
// same second.

var (
	machineID = readMachineID()
	counter   = readRandomUint32()
)

func readMachineID() [3]byte {
	var mid [3]byte
	hostname, err := os.Hostname()
	if err != nil {
		_, _ = io.ReadFull(rand.Reader, mid[:])
		return mid
	}
	hw := make([]byte, 32)
	copy(hw, hostname)
	copy(mid[:], hw[:3])
	return mid
}

func readRandomUint32() uint32 {
	var b [4]byte
	_, _ = io.ReadFull(rand.Reader, b[:])
	return binary.BigEndian.Uint32(b[:])
}

// NewID generates a fresh record id.
func NewID() string {
	var id [12]byte

	binary.BigEndian.PutUint32(id[0:4], uint32(time.Now().Unix()))
	copy(id[4:7], machineID[:])
	binary.BigEndian.PutUint16(id[7:9], uint16(os.Getpid()))

	c := atomic.AddUint32(&counter, 1)
	id[9] = byte(c >> 16)
	id[10] = byte(c >> 8)
	id[11] = byte(c)

	return hex.EncodeToString(id[:])
}

// ValidID reports whether s has the shape of a record id: exactly 24
// lowercase hex characters. Anything else, including the root parent
// sentinel, is not a record id.
func ValidID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
