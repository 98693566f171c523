// Package config loads glyphreel settings from a YAML file.
//
// A settings file mirrors the command line flags:
//
//	width: 100
//	scaler: catmull-rom
//	fps: 24
//	logLevel: debug
//
// Files are validated against the JSON Schema returned by [Schema] before
// being decoded, so unknown keys and out of range values are rejected with a
// descriptive error. Values from a file only fill in flags that were not set
// explicitly; see [File.Apply].
package config
