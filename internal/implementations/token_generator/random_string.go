package tokengenerator

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"resetpass/internal/core/domain/token"
)

// RandomString generates hexadecimal keys with a length drawn uniformly
// from [minLength, maxLength]. All randomness is cryptographically
// sourced; the key is a bearer capability and must not be predictable.
type RandomString struct {
	minLength int
	maxLength int
}

func NewRandomString(minLength int, maxLength int) *RandomString {
	if minLength <= 0 || maxLength < minLength {
		panic(fmt.Sprintf("invalid token length range [%d, %d]", minLength, maxLength))
	}
	return &RandomString{minLength: minLength, maxLength: maxLength}
}

func (g *RandomString) GenerateKey() token.Key {
	length := g.minLength
	if spread := g.maxLength - g.minLength; spread > 0 {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(spread+1)))
		if err != nil {
			panic(fmt.Sprintf("could not read random bytes: %v", err))
		}
		length += int(n.Int64())
	}

	// Two hex characters per byte; one extra byte covers odd lengths.
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("could not read random bytes: %v", err))
	}
	return token.Key(hex.EncodeToString(buf)[:length])
}
