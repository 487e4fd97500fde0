// Package output formats command results for the microbench CLI.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned tables built from slices of structs
//   - json.go: indented JSON
//   - yaml.go: YAML via gopkg.in/yaml.v3
//
// Table headers come from json tags, upper-cased. Fields tagged
// `table:"wide"` only appear in wide mode; `table:"-"` hides a field.
package output
