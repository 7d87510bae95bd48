package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// TokenSize is the length of draft tokens. 32 characters over a 62 symbol
// alphabet keeps tokens unguessable even without the signed cookie.
const TokenSize = 32

const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NanoID returns a URL safe random token of TokenSize characters.
func NanoID() string {
	return NanoIDSize(TokenSize)
}

func NanoIDSize(size int) string {
	if size <= 0 {
		size = TokenSize
	}

	return gonanoid.MustGenerate(tokenAlphabet, size)
}
