package domain

// Capability names an operation a policy may be asked about. The set is open:
// new capabilities are plain string constants, so policies written against the
// interface keep working as the surface grows.
type Capability string

const (
	// CapabilityUpdateBase governs changing the collection base metadata
	// string. It is collection-wide; per-token policy overrides never apply.
	CapabilityUpdateBase Capability = "collection.update_base"
	// CapabilityUpdateToken governs changing a single token's metadata
	// override.
	CapabilityUpdateToken Capability = "token.update_metadata"
)
