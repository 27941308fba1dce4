// Package errors provides structured error handling for the collection engine.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Mint errors
	CodeNotMinter          Code = "MINT_NOT_MINTER"
	CodeMintsFrozen        Code = "MINT_FROZEN"
	CodeOverSupplyCeiling  Code = "MINT_OVER_SUPPLY_CEILING"
	CodeTokenNotInRange    Code = "MINT_TOKEN_NOT_IN_RANGE"
	CodeTokenAlreadyMinted Code = "MINT_TOKEN_ALREADY_MINTED"
	CodeMintAmountZero     Code = "MINT_AMOUNT_ZERO"
	CodeMintNoRecipients   Code = "MINT_NO_RECIPIENTS"

	// Policy errors
	CodeNotAuthorized     Code = "POLICY_NOT_AUTHORIZED"
	CodeUnknownPolicyKind Code = "POLICY_UNKNOWN_KIND"

	// Collection errors
	CodeNotOwner              Code = "COLLECTION_NOT_OWNER"
	CodeCollectionInitialized Code = "COLLECTION_ALREADY_INITIALIZED"

	// Metadata errors
	CodeEmptyBase         Code = "METADATA_EMPTY_BASE"
	CodeMismatchedLengths Code = "METADATA_MISMATCHED_LENGTHS"

	// Input validation errors
	CodeAccountEmpty Code = "ACCOUNT_EMPTY"
	CodeTokenIDZero  Code = "TOKEN_ID_ZERO"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes for embedding transports.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeEmptyBase,
		CodeMismatchedLengths,
		CodeAccountEmpty,
		CodeTokenIDZero,
		CodeMintAmountZero,
		CodeMintNoRecipients,
		CodeUnknownPolicyKind:
		return codes.InvalidArgument

	// FailedPrecondition - collection state does not allow the operation
	case CodeMintsFrozen,
		CodeOverSupplyCeiling,
		CodeTokenAlreadyMinted,
		CodeCollectionInitialized:
		return codes.FailedPrecondition

	// OutOfRange - explicit id outside the supply ceiling
	case CodeTokenNotInRange:
		return codes.OutOfRange

	// PermissionDenied - caller lacks the required capability
	case CodeNotMinter,
		CodeNotAuthorized,
		CodeNotOwner:
		return codes.PermissionDenied

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
