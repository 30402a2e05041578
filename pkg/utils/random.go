package utils

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/cryptoutil/bbsplus/internal/common"
)

// RandomScalar generates a random scalar in the range [1, Order-1]. A nil
// reader defaults to crypto/rand.
func RandomScalar(reader io.Reader) (*big.Int, error) {
	if reader == nil {
		reader = rand.Reader
	}
	return ConstantTimeRandom(reader, common.Order)
}

// ConstantTimeRandom draws extra entropy (64 bits beyond order's bit length)
// before reducing modulo order, so the reduction bias is statistically
// negligible rather than needing rejection sampling.
func ConstantTimeRandom(reader io.Reader, order *big.Int) (*big.Int, error) {
	byteLen := (order.BitLen() + 64 + 7) / 8
	buf := make([]byte, byteLen)

	if _, err := io.ReadFull(reader, buf); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}

	n := new(big.Int).SetBytes(buf)
	n.Mod(n, order)

	if n.Sign() == 0 {
		n.SetInt64(1)
	}

	return n, nil
}