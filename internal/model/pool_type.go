package model

import (
	"fmt"
	"strings"
)

// PoolType determines the AMM protocol family a pool address belongs to.
type PoolType uint8

const (
	UniV2 PoolType = iota
	UniV3

	// PoolTypeCount is the number of pool types; it sizes per-type arrays.
	PoolTypeCount
)

// PoolTypes lists every pool type in ordinal order.
func PoolTypes() []PoolType {
	return []PoolType{UniV2, UniV3}
}

func (t PoolType) String() string {
	switch t {
	case UniV2:
		return "univ2"
	case UniV3:
		return "univ3"
	default:
		return fmt.Sprintf("pooltype(%d)", uint8(t))
	}
}

// Valid reports whether t is a known pool type.
func (t PoolType) Valid() bool {
	return t < PoolTypeCount
}

// ParsePoolType parses "univ2" / "univ3" (case-insensitive, "v2"/"v3" accepted).
func ParsePoolType(input string) (PoolType, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "univ2", "v2", "uniswapv2":
		return UniV2, nil
	case "univ3", "v3", "uniswapv3":
		return UniV3, nil
	default:
		return 0, fmt.Errorf("unknown pool type: %q", input)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t PoolType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown pool type: %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *PoolType) UnmarshalText(text []byte) error {
	parsed, err := ParsePoolType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
