package domain

import (
	"testing"

	apperrors "github.com/louisbranch/mintage/internal/errors"
)

func TestOwnerOnlyAllowsOnlyOwner(t *testing.T) {
	policy := OwnerOnly{Owner: "alice"}

	if !policy.Allows("alice", CapabilityUpdateToken, 7) {
		t.Fatal("expected owner to be allowed")
	}
	if policy.Allows("bob", CapabilityUpdateToken, 7) {
		t.Fatal("expected non-owner to be denied")
	}
	if (OwnerOnly{}).Allows("", CapabilityUpdateToken, 7) {
		t.Fatal("expected unset owner to deny everyone")
	}
}

func TestTotalLockedDeniesEveryone(t *testing.T) {
	policy := TotalLocked{}

	for _, actor := range []Account{"alice", "bob", ""} {
		if policy.Allows(actor, CapabilityUpdateBase, 0) {
			t.Fatalf("expected %q to be denied", actor)
		}
		if policy.Allows(actor, CapabilityUpdateToken, 3) {
			t.Fatalf("expected %q to be denied for token capability", actor)
		}
	}
}

func TestPolicyFromKind(t *testing.T) {
	tests := []struct {
		name string
		kind PolicyKind
		want PolicyKind
	}{
		{name: "owner only", kind: PolicyKindOwnerOnly, want: PolicyKindOwnerOnly},
		{name: "total locked", kind: PolicyKindTotalLocked, want: PolicyKindTotalLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := PolicyFromKind(tt.kind, "alice")
			if err != nil {
				t.Fatalf("policy from kind: %v", err)
			}
			if policy.Kind() != tt.want {
				t.Fatalf("expected kind %q, got %q", tt.want, policy.Kind())
			}
		})
	}
}

func TestPolicyFromKindUnknown(t *testing.T) {
	_, err := PolicyFromKind("notarized", "alice")
	if !apperrors.IsCode(err, apperrors.CodeUnknownPolicyKind) {
		t.Fatalf("expected unknown policy kind error, got %v", err)
	}
	if meta := apperrors.GetMetadata(err); meta["Kind"] != "notarized" {
		t.Fatalf("expected kind metadata, got %v", meta)
	}
}
