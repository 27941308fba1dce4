package event

// CollectionInitializedPayload captures the payload for collection.initialized events.
type CollectionInitializedPayload struct {
	Owner         string `json:"owner"`
	Base          string `json:"base"`
	SupplyCeiling uint64 `json:"supply_ceiling"`
}

// TokensMintedPayload captures the payload for mint.tokens_minted events.
type TokensMintedPayload struct {
	// Variant names the entry point that performed the mint
	// (e.g., "mint_one", "mint_specific_batch").
	Variant string `json:"variant"`
	// Recipients maps recipient accounts to the token ids they received,
	// in assignment order.
	Recipients map[string][]uint64 `json:"recipients"`
	// Sequential reports whether the ids came from the shared cursor.
	Sequential bool `json:"sequential"`
}

// MintsFrozenPayload captures the payload for mint.frozen events.
type MintsFrozenPayload struct {
	// Cursor is the sequential cursor position at freeze time.
	Cursor uint64 `json:"cursor"`
}

// SupplyCeilingChangedPayload captures the payload for mint.supply_ceiling_changed events.
type SupplyCeilingChangedPayload struct {
	Before uint64 `json:"before"`
	After  uint64 `json:"after"`
}

// DefaultPolicyChangedPayload captures the payload for policy.default_changed events.
type DefaultPolicyChangedPayload struct {
	Kind string `json:"kind"`
}

// TokenPoliciesChangedPayload captures the payload for policy.token_overrides_changed events.
type TokenPoliciesChangedPayload struct {
	Kind     string   `json:"kind"`
	TokenIDs []uint64 `json:"token_ids"`
}

// BaseChangedPayload captures the payload for metadata.base_changed events.
type BaseChangedPayload struct {
	Base string `json:"base"`
}

// TokenURIsChangedPayload captures the payload for metadata.token_overrides_changed events.
type TokenURIsChangedPayload struct {
	TokenIDs []uint64 `json:"token_ids"`
}

// MinterRegisteredPayload captures the payload for minter.registered events.
type MinterRegisteredPayload struct {
	Account string `json:"account"`
}

// MinterRevokedPayload captures the payload for minter.revoked events.
type MinterRevokedPayload struct {
	Account string `json:"account"`
	Reason  string `json:"reason,omitempty"`
}
