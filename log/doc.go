// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports three output formats ([FormatJSON], [FormatLogfmt] and
// [FormatText]) and four severity levels ([LevelError], [LevelWarn],
// [LevelInfo] and [LevelDebug]). Use [NewHandler] to create a handler
// directly, or use [Config] with CLI flag integration via
// [github.com/spf13/pflag] and shell completion support via
// [github.com/spf13/cobra]:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	logger, err := cfg.NewLogger(os.Stderr)
//
// While a full-screen player owns the terminal, log output must not be written
// to it directly. A [Publisher] collects log records instead, so the player can
// show the latest one on its status line:
//
//	pub := log.NewPublisher()
//	logger, err := cfg.NewLogger(pub)
//
//	sub := pub.Subscribe()
//	for entry := range sub.C() {
//	    // Deliver entry to the TUI.
//	}
package log
