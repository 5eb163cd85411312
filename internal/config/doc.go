// Package config loads the application configuration from defaults, an
// optional YAML file and BUOYQC_-prefixed environment variables, in that
// order of precedence (later wins). The loaded structure is validated before
// use; QC test defaults live here as named, versioned values rather than as
// literals inside the test functions.
package config
