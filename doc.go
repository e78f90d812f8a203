// Package rmagui assembles the RMA web front end from configuration.
//
// # Configuration
//
// Components are unmarshaled from a viper instance into typed prototypes.
// The Unmarshal, UnmarshalKey, and ProvideKey functions produce constructors
// suitable for fx.Provide.  The prototype supplies the defaults, so any field
// absent from configuration keeps its prototype value.
//
// # Logging
//
// Logger installs a *zap.Logger both as the fx event logger and as a component
// for the rest of the application.
//
// # Exit Codes
//
// Errors may carry a process exit code via ExitCoder.  The command uses
// ExitCodeFor to translate startup failures.
package rmagui
