// Package version reports rallykit build information.
//
// Version, commit and build time are set at compile time:
//
//	go build -ldflags "-X github.com/kbukum/rallykit/version.Version=1.2.0"
package version
