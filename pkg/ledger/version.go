package ledger

// Version information for the ledger package.
const (
	// Version is the current version of the ledger package.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "1.0.0"
)
