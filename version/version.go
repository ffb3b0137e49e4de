// Package version identifies this client to the services it calls.
package version

import (
	"fmt"
	"runtime"
)

// AppName is the product token of the User-Agent header.
const AppName = "mckinley-go-api-rest-client"

// Version is overridden at build time with -ldflags "-X .../version.Version=<v>".
var Version = "1.0.0"

// GetUserAgentHeader returns the User-Agent sent with every request, e.g.
// "mckinley-go-api-rest-client/1.0.0 (go1.24.0; linux/amd64)".
func GetUserAgentHeader() string {
	return fmt.Sprintf("%s/%s (%s; %s/%s)", AppName, Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
