// Package version holds build metadata injected via ldflags.
package version

// ServerName identifies this server in the RPC handshake and on UI resources.
const ServerName = "agentic_commerce"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
