package clients

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/verifield/verifield/types"
)

// Failure reasons carried in VerifieldError.Data.
const (
	ReasonUserRejected      = "user_rejected"
	ReasonWalletUnavailable = "wallet_unavailable"
	ReasonUnauthorized      = "unauthorized"
	ReasonUnsupportedMethod = "unsupported_method"
	ReasonUnrecognizedChain = "unrecognized_chain"
	ReasonNoAccounts        = "no_accounts"
	ReasonNotConnected      = "not_connected"
	ReasonChainMismatch     = "chain_mismatch"
	ReasonCanceled          = "canceled"
	ReasonUnexpected        = "unexpected"
)

// providerCode extracts the JSON-RPC error code, or 0.
func providerCode(err error) int {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode()
	}
	return 0
}

func isMethodNotFound(err error) bool {
	code := providerCode(err)
	return code == types.RPCMethodNotFound || code == types.ProviderUnsupportedMethod
}

// reasonFor classifies a provider error.
func reasonFor(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonCanceled
	}
	switch providerCode(err) {
	case types.ProviderUserRejected:
		return ReasonUserRejected
	case types.ProviderUnauthorized:
		return ReasonUnauthorized
	case types.ProviderUnsupportedMethod, types.RPCMethodNotFound:
		return ReasonUnsupportedMethod
	case types.ProviderUnrecognizedChain:
		return ReasonUnrecognizedChain
	case types.ProviderDisconnected, types.ProviderChainDisconnected:
		return ReasonWalletUnavailable
	case 0:
		// transport level failure: nothing is listening
		return ReasonWalletUnavailable
	default:
		return ReasonUnexpected
	}
}

func connectionFailed(reason string, err error) *types.VerifieldError {
	return &types.VerifieldError{
		Code:    types.ErrConnectionRequestFailed,
		Message: "wallet connection request failed",
		Data:    reason,
		Err:     err,
	}
}

func chainSwitchFailed(reason string, err error) *types.VerifieldError {
	return &types.VerifieldError{
		Code:    types.ErrChainSwitchFailed,
		Message: "chain switch request failed",
		Data:    reason,
		Err:     err,
	}
}

// Reason returns the failure reason attached to a connector error, or "".
func Reason(err error) string {
	var verr *types.VerifieldError
	if errors.As(err, &verr) {
		if s, ok := verr.Data.(string); ok {
			return s
		}
	}
	return ""
}
