package game

import "math/rand"

// Generate produces a random digit string of the given length. The first
// digit is drawn from 1-9 so the number never starts with a zero; every
// other digit is drawn from 0-9. Each digit is drawn uniformly and
// independently. This is game randomness, not security randomness.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", ErrInvalidLength
	}
	digits := make([]byte, length)
	digits[0] = byte('1' + rand.Intn(9))
	for i := 1; i < length; i++ {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return string(digits), nil
}
