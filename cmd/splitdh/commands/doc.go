// Package commands defines the splitdh CLI.
//
// Commands
//
//   - demo      Run two parties end to end, ratchet, and check agreement
//   - keygen    Generate a split key and store it
//   - shared    Compute the shared key with a peer's public key
//   - ratchet   Re-randomize the split of a stored key
//   - params    Print the parameters of the configured curve
//
// # Configuration
//
// Settings come from an optional TOML file given with --config. Flags set
// on the command line override the file. The root command builds the
// logger before any subcommand runs; the key store is opened on first use.
//
// Keys live in TOML files by default. With key_store = "bolt" in the file,
// or --store bolt, they are kept in a single bbolt database instead.
package commands
