// Package lineguard provides the command-line interface for the lineguard
// whitespace linter. The root command checks files; subcommands manage the
// configuration file and shell completion.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/lineguard/lineguard/cmd/lineguard"
//	func main() { lineguard.Execute() }
package lineguard
