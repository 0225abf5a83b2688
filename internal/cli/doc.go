// Package cli implements the zinspect command-line interface.
//
// Each Cobra command resolves the config, runs a bundle through the shared
// pipeline in bundle.go and renders the result with the ui package:
//
//  1. archive.Open reads the ZIP within max_bundle_size
//  2. archive.ValidateCollectorVersion rejects bundles from old collectors
//  3. dispatch runs every member through its parser under the timeout
//  4. report.Build classifies the dataset against the threshold table
//
// # Command Structure
//
//	zinspect inspect <bundle>    - Overview cards and overall level
//	zinspect processes <bundle>  - ps aux records, filtered and sorted
//	zinspect diaginfo <bundle>   - Internal diagnostic sections as tables
//	zinspect conf <bundle>       - Server config and cache memory
//	zinspect vmstat <bundle>     - Sparklines of the vmstat samples
//	zinspect parse <bundle>      - Raw parsed dataset as JSON or YAML
//	zinspect classify <value>    - Classify one value against a band
//	zinspect watch <dir>         - Inspect bundles as they arrive
//	zinspect init                - Write a default .zinspect.yaml
//	zinspect config show|keys|set
//	zinspect version
//
// # Output
//
// Data commands take --format text|json|yaml. The global --json flag wraps
// output and errors in a JSONEnvelope with stable error codes for scripts.
package cli
