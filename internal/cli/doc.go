// Package cli implements the cpakstore command-line interface.
//
// The commands resolve the Containerpak store index into packages, print
// them, check them, export snapshots of the whole store and serve them over
// HTTP. The CLI is built using cobra, reads its settings through viper and
// logs with charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - categories: Print the store overview with package counts
//   - list: Print the packages of one category
//   - show: Print one package with its descriptor and media
//   - check: Resolve and lint every package in the index
//   - export: Write a snapshot of the store as JSON, YAML or TOML, or to MongoDB
//   - serve: Serve the store as a JSON API
//   - browse: Browse the store interactively
//   - cache: Manage the document cache
//
// # Configuration
//
// Every global flag has a configuration key. Values are read from flags,
// CPAKSTORE_* environment variables, .env files and ~/.cpakstore.yaml, in
// that order of precedence.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
//
// # Example
//
//	import "github.com/containerpak/cpakstore/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli
