// Package component defines the lifecycle interface shared by the
// transport and REST client, and a Registry that starts and stops them in
// order.
package component
