package booking

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	referencePrefix   = "FJ-"
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceLength   = 7
)

// NewReference returns a booking reference such as "FJ-7KQ2M0A". A nil
// source uses crypto/rand.
func NewReference(src io.Reader) (string, error) {
	if src == nil {
		src = rand.Reader
	}
	// Largest multiple of the alphabet size that fits a byte, to avoid bias.
	limit := byte(256 - 256%len(referenceAlphabet))
	out := make([]byte, 0, referenceLength)
	buf := make([]byte, referenceLength)
	for len(out) < referenceLength {
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", fmt.Errorf("booking: read reference entropy: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, referenceAlphabet[int(b)%len(referenceAlphabet)])
			if len(out) == referenceLength {
				break
			}
		}
	}
	return referencePrefix + string(out), nil
}
