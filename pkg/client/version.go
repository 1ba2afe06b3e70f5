package client

// Version information for the client package.
const (
	// Version is the current version of the client package.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "1.0.0"
)
