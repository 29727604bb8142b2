package trader

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimal-string <-> base-unit conversions for the API surface. Callers
// pass human amounts ("0.1" ETH, "100" tokens); everything on-chain is
// *big.Int base units.

const etherDecimals = 18

// ParseEther converts a decimal ETH string to wei.
func ParseEther(s string) (*big.Int, error) {
	return ParseUnits(s, etherDecimals)
}

// ParseUnits converts a decimal string to integer base units with the
// given number of decimals.
func ParseUnits(s string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return nil, errors.New("amount must not be negative")
	}

	scaled := d.Mul(decimal.New(1, decimals))
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", s, decimals)
	}
	return scaled.BigInt(), nil
}

// FormatEther renders wei as a decimal ETH string.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -etherDecimals).String()
}
