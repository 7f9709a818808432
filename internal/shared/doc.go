// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and a small diamond dataset fixture with known stage counts.
package shared
