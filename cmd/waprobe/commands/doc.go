// Package commands defines the waprobe CLI.
//
// Commands
//
//   - (root), run   Check every number in the configured input file
//   - setup         Interactive configuration wizard, sample files and a browser smoke test
//   - profiles      List browser profile directories
//   - examples      Print usage examples
//
// Every run flag overrides the matching field of the config file; flags that are
// not given leave the file value untouched.
package commands
