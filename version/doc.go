// Package version reports build metadata for the glyphreel binary.
//
// Release builds set the string variables with -ldflags, for example:
//
//	go build -ldflags "-X go.jacobcolvin.com/glyphreel/version.Version=v1.0.0"
package version
