// Package daemon runs the HTTP service with single-instance enforcement via
// a file lock in the state directory.
package daemon
