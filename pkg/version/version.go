package version

import "runtime/debug"

// version is overridden at build time:
//
//	go build -ldflags "-X github.com/vinodismyname/mcpbigquery/pkg/version.version=1.2.0"
var version = "1.0.1"

// Version returns the service version reported by /healthz and the MCP
// initialize handshake. A tagged module build wins over the linked default.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}
