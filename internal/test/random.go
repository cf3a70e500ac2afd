package test

import "math/rand/v2"

const keyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789-"

// RandomKey returns a pseudo-random idempotency-style key of length n.
func RandomKey(n int) string {
	if n <= 0 {
		n = 1
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = keyAlphabet[rand.N(len(keyAlphabet))]
	}
	return string(buf)
}
