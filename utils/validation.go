package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ParseEthAmount parses a non-negative decimal ETH amount. Empty means zero.
func ParseEthAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, nil
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount format: %w", err)
	}

	if dec.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount cannot be negative")
	}

	return dec, nil
}

// ValidateAddress checks an EVM address: 0x followed by 40 hex characters.
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if !strings.HasPrefix(address, "0x") {
		return fmt.Errorf("address must start with 0x")
	}
	if len(address) != 42 {
		return fmt.Errorf("address must be 42 characters long")
	}
	if !common.IsHexAddress(address) {
		return fmt.Errorf("address must be valid hex")
	}
	return nil
}

// ShortAddress renders 0x1234...abcd. Strings too short to shorten are
// returned unchanged.
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// FormatUnits formats a raw integer amount with the given decimals,
// e.g. wei to ETH with 18.
func FormatUnits(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -decimals).String()
}

// FormatEther formats wei as ETH.
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, 18)
}

// ParseUnits converts a decimal amount to its raw integer form.
func ParseUnits(amount string, decimals int32) (*big.Int, error) {
	dec, err := ParseEthAmount(amount)
	if err != nil {
		return nil, err
	}
	return dec.Shift(decimals).BigInt(), nil
}

// ParseTags splits a comma separated tag string, trimming blanks and dropping
// empty and repeated entries.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
