package dex

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"poolScope/internal/model"
)

// Verifier decides whether a derived candidate is a deployed pool.
type Verifier interface {
	Verify(ctx context.Context, candidate model.Candidate) (bool, error)
}

// ChainReader is the subset of the chain client the verifier needs.
type ChainReader interface {
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// PoolVerifier checks candidates against chain state: the address must hold
// code and report the expected token pair (and fee for UniV3 pools).
type PoolVerifier struct {
	chain  ChainReader
	abi    abi.ABI
	logger *zap.Logger
}

// NewPoolVerifier builds a PoolVerifier.
func NewPoolVerifier(chainReader ChainReader, logger *zap.Logger) (*PoolVerifier, error) {
	if chainReader == nil {
		return nil, fmt.Errorf("chain reader is nil")
	}
	parsed, err := PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PoolVerifier{chain: chainReader, abi: parsed, logger: logger}, nil
}

// Verify returns false without error when the candidate is not a pool.
// Transport failures are returned as errors so the caller can retry.
func (v *PoolVerifier) Verify(ctx context.Context, candidate model.Candidate) (bool, error) {
	code, err := v.chain.CodeAt(ctx, candidate.Address)
	if err != nil {
		return false, fmt.Errorf("code at %s: %w", candidate.Address.Hex(), err)
	}
	if len(code) == 0 {
		v.logger.Debug("no code at candidate", zap.String("pool", candidate.Address.Hex()))
		return false, nil
	}

	token0, ok, err := v.callAddress(ctx, candidate.Address, "token0")
	if err != nil || !ok {
		return false, err
	}
	token1, ok, err := v.callAddress(ctx, candidate.Address, "token1")
	if err != nil || !ok {
		return false, err
	}
	if token0 != candidate.Token0 || token1 != candidate.Token1 {
		v.logger.Debug("token pair mismatch",
			zap.String("pool", candidate.Address.Hex()),
			zap.String("token0", token0.Hex()),
			zap.String("token1", token1.Hex()),
		)
		return false, nil
	}

	if candidate.Type != model.UniV3 {
		return true, nil
	}

	values, ok, err := v.call(ctx, candidate.Address, "fee")
	if err != nil || !ok {
		return false, err
	}
	fee, err := asBigInt(values[0])
	if err != nil {
		return false, nil
	}
	return fee.IsUint64() && fee.Uint64() == uint64(candidate.Fee), nil
}

func (v *PoolVerifier) callAddress(ctx context.Context, pool common.Address, method string) (common.Address, bool, error) {
	values, ok, err := v.call(ctx, pool, method)
	if err != nil || !ok {
		return common.Address{}, false, err
	}
	address, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, false, nil
	}
	return address, true, nil
}

// call reports ok=false when the contract rejects the call or returns data
// that does not decode; only transport errors are returned.
func (v *PoolVerifier) call(ctx context.Context, pool common.Address, method string) ([]interface{}, bool, error) {
	data, err := v.abi.Pack(method)
	if err != nil {
		return nil, false, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &pool, Data: data}
	resp, err := v.chain.CallContract(ctx, msg, nil)
	if err != nil {
		if isRevert(err) {
			v.logger.Debug("call reverted", zap.String("pool", pool.Hex()), zap.String("method", method), zap.Error(err))
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := v.abi.Unpack(method, resp)
	if err != nil || len(values) == 0 {
		v.logger.Debug("unpack failed", zap.String("pool", pool.Hex()), zap.String("method", method), zap.Error(err))
		return nil, false, nil
	}
	return values, true, nil
}

// revertErrorCode is the JSON-RPC code nodes use for "execution reverted".
const revertErrorCode = 3

// isRevert reports whether err is the contract rejecting the call. Any other
// node error says nothing about the contract.
func isRevert(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode {
		return true
	}
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "execution reverted")
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}
