package otp

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
)

// ErrInvalidDigits is returned when the requested code length is unsupported.
var ErrInvalidDigits = errors.New("otp: digits must be between 4 and 9")

// CodeGenerator produces fresh confirmation codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// Numeric generates decimal codes of a fixed length without leading zeros,
// uniformly distributed over [10^(digits-1), 10^digits - 1].
type Numeric struct {
	low  *big.Int
	span *big.Int
}

// NewNumeric returns a six digit generator covering 100000 to 999999.
func NewNumeric() *Numeric {
	n, _ := NewNumericDigits(6) //nolint:errcheck // 6 is always valid
	return n
}

// NewNumericDigits returns a generator for codes of the given length.
func NewNumericDigits(digits int) (*Numeric, error) {
	if digits < 4 || digits > 9 {
		return nil, ErrInvalidDigits
	}

	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	high := new(big.Int).Mul(low, big.NewInt(10))

	return &Numeric{low: low, span: new(big.Int).Sub(high, low)}, nil
}

// Generate returns the next code.
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(rand.Reader, n.span)
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(v.Add(v, n.low).Int64(), 10), nil
}
