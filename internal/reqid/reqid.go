// Package reqid generates short correlation ids for engine requests so a
// request and its log lines can be matched up after the fact.
package reqid

import (
	"crypto/rand"
	"time"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// New returns a 16-character request id: a 48-bit millisecond timestamp
// followed by 32 random bits, base32 encoded. Ids sort by creation time.
func New() string {
	var buf [10]byte

	now := time.Now().UnixMilli()
	buf[0] = byte(now >> 40)
	buf[1] = byte(now >> 32)
	buf[2] = byte(now >> 24)
	buf[3] = byte(now >> 16)
	buf[4] = byte(now >> 8)
	buf[5] = byte(now)

	if _, err := rand.Read(buf[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	return encodeBase32(buf[:])
}

// encodeBase32 encodes data in 5-bit groups using the Crockford alphabet.
// len(data)*8 must be a multiple of 5.
func encodeBase32(data []byte) string {
	out := make([]byte, 0, len(data)*8/5)
	var acc, nbits uint
	for _, b := range data {
		acc = acc<<8 | uint(b)
		nbits += 8
		for nbits >= 5 {
			nbits -= 5
			out = append(out, alphabet[(acc>>nbits)&0x1f])
		}
	}
	return string(out)
}
