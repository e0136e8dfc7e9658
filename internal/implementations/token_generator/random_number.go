package tokengenerator

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"resetpass/internal/core/domain/token"
	"strconv"
)

// RandomNumber generates decimal keys drawn uniformly from
// [minNumber, maxNumber). Intended for short, human-typable OTP-style
// codes; the default range gives five digits.
type RandomNumber struct {
	minNumber int64
	maxNumber int64
}

func NewRandomNumber(minNumber int64, maxNumber int64) *RandomNumber {
	if minNumber < 0 || maxNumber <= minNumber {
		panic(fmt.Sprintf("invalid token number range [%d, %d)", minNumber, maxNumber))
	}
	return &RandomNumber{minNumber: minNumber, maxNumber: maxNumber}
}

func (g *RandomNumber) GenerateKey() token.Key {
	n, err := rand.Int(rand.Reader, big.NewInt(g.maxNumber-g.minNumber))
	if err != nil {
		panic(fmt.Sprintf("could not read random bytes: %v", err))
	}
	return token.Key(strconv.FormatInt(g.minNumber+n.Int64(), 10))
}
