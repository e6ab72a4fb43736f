package pool

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

func mustHash(t *testing.T, input string) *uint256.Int {
	t.Helper()
	h, err := ParseHash(input)
	if err != nil {
		t.Fatalf("parse hash %s: %v", input, err)
	}
	return h
}

func TestSortTokens(t *testing.T) {
	address1 := common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")
	address2 := common.HexToAddress("0x3b9b5AD79cbb7649143DEcD5afc749a75F8e6C7F")

	low, high := SortTokens(address1, address2)
	if low != address1 || high != address2 {
		t.Fatalf("sorted order mismatch: %s %s", low.Hex(), high.Hex())
	}

	low, high = SortTokens(address2, address1)
	if low != address1 || high != address2 {
		t.Fatalf("sorted order mismatch after swap: %s %s", low.Hex(), high.Hex())
	}
}

func TestDeriveKnownVectors(t *testing.T) {
	cases := []struct {
		name     string
		factory  string
		tokenA   string
		tokenB   string
		hash     string
		fee      *uint256.Int
		expected string
	}{
		{
			name:     "univ3 high fee",
			factory:  "0x1F98431c8aD98523631AE4a59f267346ea31F984",
			tokenA:   "0x3b9b5AD79cbb7649143DEcD5afc749a75F8e6C7F",
			tokenB:   "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
			hash:     "0xe34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54",
			fee:      FeeHigh.Word(),
			expected: "0x72b236b8EB61B15833e514750b65b94a73D74A01",
		},
		{
			name:     "univ2",
			factory:  "0x28b70f6Ed97429E40FE9a9CD3EB8E86BCBA11dd4",
			tokenA:   "0x140d8d3649ec605cf69018c627fb44ccc76ec89f",
			tokenB:   "0xff56eb5b1a7faa972291117e5e9565da29bc808d",
			hash:     "0x99e82d1f1ab2914f983fb7f2b987a3e30a55ad1fa8c38239d1f7c1a24fb93e3d",
			expected: "0x87E0E33558c8e8EAE3c1E9EB276e05574190b48a",
		},
	}

	for _, tc := range cases {
		factory := common.HexToAddress(tc.factory)
		tokenA := common.HexToAddress(tc.tokenA)
		tokenB := common.HexToAddress(tc.tokenB)
		hash := mustHash(t, tc.hash)
		want := common.HexToAddress(tc.expected)

		if got := Derive(factory, tokenA, tokenB, hash, tc.fee); got != want {
			t.Fatalf("%s: got %s want %s", tc.name, got.Hex(), want.Hex())
		}
		if got := Derive(factory, tokenB, tokenA, hash, tc.fee); got != want {
			t.Fatalf("%s (swapped): got %s want %s", tc.name, got.Hex(), want.Hex())
		}
	}
}

func TestDeriveHelpersMatchDerive(t *testing.T) {
	factory := common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")
	tokenA := common.HexToAddress("0x3b9b5AD79cbb7649143DEcD5afc749a75F8e6C7F")
	tokenB := common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	hash := mustHash(t, "e34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54")

	if got := DeriveV3(factory, tokenA, tokenB, hash, FeeHigh); got != common.HexToAddress("0x72b236b8EB61B15833e514750b65b94a73D74A01") {
		t.Fatalf("DeriveV3 mismatch: %s", got.Hex())
	}
	if DeriveV2(factory, tokenA, tokenB, hash) != Derive(factory, tokenA, tokenB, hash, nil) {
		t.Fatalf("DeriveV2 should equal Derive without fee")
	}
}

// The V3 salt must match what the ABI encoder produces for
// abi.encode(address, address, uint256).
func TestDeriveMatchesABIEncoding(t *testing.T) {
	addrType, err := abi.NewType("address", "", nil)
	if err != nil {
		t.Fatalf("address type: %v", err)
	}
	uintType, err := abi.NewType("uint256", "", nil)
	if err != nil {
		t.Fatalf("uint256 type: %v", err)
	}

	factory := common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")
	token0 := common.HexToAddress("0x3b9b5AD79cbb7649143DEcD5afc749a75F8e6C7F")
	token1 := common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	hash := mustHash(t, "0xe34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54")

	for _, fee := range FeeTiers() {
		encoded, err := abi.Arguments{{Type: addrType}, {Type: addrType}, {Type: uintType}}.Pack(
			token0, token1, new(big.Int).SetUint64(uint64(fee)),
		)
		if err != nil {
			t.Fatalf("pack: %v", err)
		}
		if len(encoded) != 96 {
			t.Fatalf("encoded length: %d", len(encoded))
		}

		hashBytes := hash.Bytes32()
		preimage := append([]byte{0xff}, factory.Bytes()...)
		preimage = append(preimage, crypto.Keccak256(encoded)...)
		preimage = append(preimage, hashBytes[:]...)
		if len(preimage) != 85 {
			t.Fatalf("preimage length: %d", len(preimage))
		}
		want := common.BytesToAddress(crypto.Keccak256(preimage)[12:])

		if got := DeriveV3(factory, token1, token0, hash, fee); got != want {
			t.Fatalf("fee %d: got %s want %s", fee, got.Hex(), want.Hex())
		}
	}
}

func TestDeriveSensitivity(t *testing.T) {
	factory := common.HexToAddress("0x28b70f6Ed97429E40FE9a9CD3EB8E86BCBA11dd4")
	tokenA := common.HexToAddress("0x140d8d3649ec605cf69018c627fb44ccc76ec89f")
	tokenB := common.HexToAddress("0xff56eb5b1a7faa972291117e5e9565da29bc808d")
	hash := mustHash(t, "0x99e82d1f1ab2914f983fb7f2b987a3e30a55ad1fa8c38239d1f7c1a24fb93e3d")

	base := Derive(factory, tokenA, tokenB, hash, nil)

	flip := func(a common.Address, i int) common.Address {
		a[i] ^= 0x01
		return a
	}

	variants := map[string]common.Address{
		"factory":  Derive(flip(factory, 19), tokenA, tokenB, hash, nil),
		"tokenA":   Derive(factory, flip(tokenA, 0), tokenB, hash, nil),
		"tokenB":   Derive(factory, tokenA, flip(tokenB, 7), hash, nil),
		"hash":     Derive(factory, tokenA, tokenB, new(uint256.Int).AddUint64(hash, 1), nil),
		"fee":      Derive(factory, tokenA, tokenB, hash, FeeLowest.Word()),
		"zero fee": Derive(factory, tokenA, tokenB, hash, uint256.NewInt(0)),
	}
	for name, got := range variants {
		if got == base {
			t.Fatalf("changing %s did not change the address", name)
		}
	}

	if DeriveV3(factory, tokenA, tokenB, hash, FeeLow) == DeriveV3(factory, tokenA, tokenB, hash, FeeMedium) {
		t.Fatalf("different fee tiers produced the same address")
	}
}

func TestDeriveAcceptsArbitraryWords(t *testing.T) {
	factory := common.HexToAddress("0x1111111111111111111111111111111111111111")
	tokenA := common.HexToAddress("0x2222222222222222222222222222222222222222")
	tokenB := common.HexToAddress("0x3333333333333333333333333333333333333333")
	max := new(uint256.Int).SetAllOne()

	if Derive(factory, tokenA, tokenB, max, max) == Derive(factory, tokenA, tokenB, max, nil) {
		t.Fatalf("max fee word should derive a distinct address")
	}
	if Derive(factory, tokenA, tokenB, nil, nil) != Derive(factory, tokenA, tokenB, uint256.NewInt(0), nil) {
		t.Fatalf("nil init code hash should behave as zero")
	}
}

func TestParseHash(t *testing.T) {
	h, err := ParseHash("0x00000000000000000000000000000000000000000000000000000000000000ff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Uint64() != 255 {
		t.Fatalf("value mismatch: %s", h.Hex())
	}

	for _, input := range []string{"", "0x1234", "zz", "0x" + strings.Repeat("ab", 33)} {
		if _, err := ParseHash(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestParseFeeTier(t *testing.T) {
	for _, fee := range FeeTiers() {
		got, err := ParseFeeTier(uint64(fee))
		if err != nil || got != fee {
			t.Fatalf("fee %d: got %d err %v", fee, got, err)
		}
	}
	if _, err := ParseFeeTier(2500); err == nil {
		t.Fatalf("expected error for undocumented tier")
	}
	if _, err := ParseFeeTier(1<<32 + 500); err == nil {
		t.Fatalf("expected error for overflowing tier")
	}
}
