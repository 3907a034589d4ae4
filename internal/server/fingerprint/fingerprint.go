// Package fingerprint computes the display hash stored alongside every
// entry. It is not a security primitive.
package fingerprint

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/minio/highwayhash"
)

// key is fixed so that fingerprints are stable across processes.
var key = []byte("entrystore-fingerprint-key-v1!!!")

// Fingerprint hashes payload and then t into one 64-bit state and returns
// the digest in decimal. The order is part of the format.
func Fingerprint(payload string, t time.Time) string {
	h, err := highwayhash.New64(key)
	if err != nil {
		// only possible with a key that is not 32 bytes long
		panic(err)
	}

	_, _ = h.Write([]byte(payload))

	var ts [12]byte
	binary.LittleEndian.PutUint64(ts[:8], uint64(t.Unix()))
	binary.LittleEndian.PutUint32(ts[8:], uint32(t.Nanosecond()))
	_, _ = h.Write(ts[:])

	return strconv.FormatUint(h.Sum64(), 10)
}
