// Package pool derives AMM pool contract addresses from their factory,
// token pair and init code hash without touching the network.
package pool

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// SortTokens orders two token addresses ascending by byte value.
func SortTokens(tokenA, tokenB common.Address) (common.Address, common.Address) {
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) < 0 {
		return tokenA, tokenB
	}
	return tokenB, tokenA
}

// Derive computes the CREATE2 address of the pool for a token pair.
//
// With a nil fee the salt is keccak256(abi.encodePacked(token0, token1)) as
// UniswapV2-style factories do; otherwise it is
// keccak256(abi.encode(token0, token1, fee)) as UniswapV3-style factories do.
// Token order does not matter. A nil initCodeHash is treated as zero.
func Derive(factory, tokenA, tokenB common.Address, initCodeHash *uint256.Int, fee *uint256.Int) common.Address {
	token0, token1 := SortTokens(tokenA, tokenB)

	var salt [32]byte
	if fee != nil {
		salt = crypto.Keccak256Hash(
			common.LeftPadBytes(token0.Bytes(), 32),
			common.LeftPadBytes(token1.Bytes(), 32),
			wordBytes(fee),
		)
	} else {
		salt = crypto.Keccak256Hash(token0.Bytes(), token1.Bytes())
	}

	return crypto.CreateAddress2(factory, salt, wordBytes(initCodeHash))
}

// DeriveV2 derives a UniswapV2-style pair address.
func DeriveV2(factory, tokenA, tokenB common.Address, initCodeHash *uint256.Int) common.Address {
	return Derive(factory, tokenA, tokenB, initCodeHash, nil)
}

// DeriveV3 derives a UniswapV3-style pool address for a fee tier.
func DeriveV3(factory, tokenA, tokenB common.Address, initCodeHash *uint256.Int, fee FeeTier) common.Address {
	return Derive(factory, tokenA, tokenB, initCodeHash, fee.Word())
}

// ParseHash parses a 32-byte hex init code hash into a 256-bit word.
// Leading zeros are allowed, unlike uint256.FromHex.
func ParseHash(input string) (*uint256.Int, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "0x") && !strings.HasPrefix(input, "0X") {
		input = "0x" + input
	}
	data, err := hexutil.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("invalid hash %s: %w", input, err)
	}
	if len(data) != 32 {
		return nil, fmt.Errorf("invalid hash length: %s", input)
	}
	return new(uint256.Int).SetBytes32(data), nil
}

func wordBytes(v *uint256.Int) []byte {
	if v == nil {
		return make([]byte, 32)
	}
	word := v.Bytes32()
	return word[:]
}
