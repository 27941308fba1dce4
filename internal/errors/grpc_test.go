package errors

import (
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGRPCCodeMappingIsTotal(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeNotMinter, codes.PermissionDenied},
		{CodeMintsFrozen, codes.FailedPrecondition},
		{CodeOverSupplyCeiling, codes.FailedPrecondition},
		{CodeTokenNotInRange, codes.OutOfRange},
		{CodeTokenAlreadyMinted, codes.FailedPrecondition},
		{CodeMintAmountZero, codes.InvalidArgument},
		{CodeMintNoRecipients, codes.InvalidArgument},
		{CodeNotAuthorized, codes.PermissionDenied},
		{CodeUnknownPolicyKind, codes.InvalidArgument},
		{CodeNotOwner, codes.PermissionDenied},
		{CodeCollectionInitialized, codes.FailedPrecondition},
		{CodeEmptyBase, codes.InvalidArgument},
		{CodeMismatchedLengths, codes.InvalidArgument},
		{CodeAccountEmpty, codes.InvalidArgument},
		{CodeTokenIDZero, codes.InvalidArgument},
		{CodeNotFound, codes.NotFound},
		{CodeUnknown, codes.Internal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.GRPCCode(); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHandleErrorAttachesErrorInfo(t *testing.T) {
	err := WithMetadata(CodeTokenAlreadyMinted, "token 7 already minted", map[string]string{
		"TokenID": "7",
	})

	st, ok := status.FromError(HandleError(err))
	if !ok {
		t.Fatal("expected grpc status")
	}
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("expected failed precondition, got %v", st.Code())
	}

	var info *errdetails.ErrorInfo
	for _, detail := range st.Details() {
		if d, ok := detail.(*errdetails.ErrorInfo); ok {
			info = d
		}
	}
	if info == nil {
		t.Fatal("expected error info detail")
	}
	if info.Reason != string(CodeTokenAlreadyMinted) {
		t.Fatalf("expected reason %q, got %q", CodeTokenAlreadyMinted, info.Reason)
	}
	if info.Domain != Domain {
		t.Fatalf("expected domain %q, got %q", Domain, info.Domain)
	}
	if info.Metadata["TokenID"] != "7" {
		t.Fatalf("expected token id metadata, got %v", info.Metadata)
	}
}

func TestHandleErrorUnknown(t *testing.T) {
	st, ok := status.FromError(HandleError(fmt.Errorf("disk on fire")))
	if !ok {
		t.Fatal("expected grpc status")
	}
	if st.Code() != codes.Internal {
		t.Fatalf("expected internal, got %v", st.Code())
	}
}

func TestIsCodeMatchesWrappedErrors(t *testing.T) {
	base := New(CodeNotOwner, "caller is not the collection owner")
	wrapped := fmt.Errorf("set supply ceiling: %w", base)

	if !IsCode(wrapped, CodeNotOwner) {
		t.Fatal("expected wrapped error to match code")
	}
	if IsCode(wrapped, CodeNotMinter) {
		t.Fatal("expected mismatched code to fail")
	}
	if GetCode(fmt.Errorf("plain")) != CodeUnknown {
		t.Fatal("expected unknown code for plain error")
	}
}
