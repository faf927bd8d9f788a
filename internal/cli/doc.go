// Package cli implements the rallyctl command tree.
package cli
