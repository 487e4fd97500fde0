// Package confloader layers configuration sources onto a typed struct using
// koanf.
//
// Priority (highest to lowest):
//
//  1. Overrides, usually command-line flags (WithOverrides)
//  2. Environment variables (MICROBENCH_ prefix, "__" between sections)
//  3. Configuration file (YAML, WithFile)
//  4. Values already present in the target struct
//
// Keys in the file that name no field can be listed with UnknownKeys.
package confloader
