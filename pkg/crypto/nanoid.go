package crypto

import (
	"crypto/rand"
	"errors"
	"math"
)

const (
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	idSize     = 22 // 22 * 6 = 132 bits of entropy, more than a uuid
)

var ErrIDSizeInvalid = errors.New("id size must be positive")

// NewRecordID returns a random URL-safe identifier for session records.
func NewRecordID() (string, error) {
	return generateID(idSize)
}

func generateID(size int) (string, error) {
	if size <= 0 {
		return "", ErrIDSizeInvalid
	}

	alphabetLen := len(idAlphabet)
	mask := idMask(alphabetLen)
	step := int(math.Ceil(1.6 * float64(mask*size) / float64(alphabetLen)))

	id := make([]byte, size)
	buffer := make([]byte, step)

	for position := 0; position < size; {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		// Map random bytes onto the alphabet, discarding out-of-range
		// candidates so the distribution stays uniform.
		for i := 0; i < step && position < size; i++ {
			index := buffer[i] & byte(mask)
			if int(index) < alphabetLen {
				id[position] = idAlphabet[index]
				position++
			}
		}
	}

	return string(id), nil
}

func idMask(alphabetLen int) int {
	for i := 1; i <= 8; i++ {
		mask := (2 << uint(i)) - 1
		if mask > alphabetLen-1 {
			return mask
		}
	}
	return 255
}
