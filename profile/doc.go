// Package profile records runtime profiles while glyphreel converts and plays
// media.
//
// Conversion is CPU bound and playback is a long-lived goroutine, so the
// useful profiles are CPU, heap, goroutine, and an execution trace. Each is
// enabled by giving its flag an output path:
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.Flags())
//
//	p := cfg.NewProfiler()
//	err := p.Start()
//	defer p.Stop()
//
// Snapshot profiles (heap and goroutine) are written by [Profiler.Stop].
package profile
