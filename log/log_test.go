package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/glyphreel/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want    log.Level
		wantErr bool
	}{
		"error":   {want: log.LevelError},
		"warn":    {want: log.LevelWarn},
		"warning": {want: log.LevelWarn},
		"Info":    {want: log.LevelInfo},
		"DEBUG":   {want: log.LevelDebug},
		"trace":   {wantErr: true},
		"":        {wantErr: true},
	}

	for input, tc := range tcs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseLevel(input)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want    log.Format
		wantErr bool
	}{
		"json":   {want: log.FormatJSON},
		"LOGFMT": {want: log.FormatLogfmt},
		"text":   {want: log.FormatText},
		"yaml":   {wantErr: true},
	}

	for input, tc := range tcs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseFormat(input)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogFormat)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLevelSlogLevel(t *testing.T) {
	t.Parallel()

	tcs := map[log.Level]slog.Level{
		log.LevelError:      slog.LevelError,
		log.LevelWarn:       slog.LevelWarn,
		log.LevelInfo:       slog.LevelInfo,
		log.LevelDebug:      slog.LevelDebug,
		log.Level("chatty"): slog.LevelInfo,
	}

	for lvl, want := range tcs {
		assert.Equal(t, want, lvl.SlogLevel(), lvl)
	}
}

// Every format honors the level and keeps the message and attributes.
func TestNewHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		check  func(t *testing.T, out string)
		format log.Format
	}{
		"json": {
			format: log.FormatJSON,
			check: func(t *testing.T, out string) {
				t.Helper()

				var entry map[string]any

				require.NoError(t, json.Unmarshal([]byte(out), &entry))
				assert.Equal(t, "WARN", entry["level"])
				assert.Equal(t, "ffmpeg exited", entry["msg"])
				assert.InDelta(t, 12, entry["frames"], 0)
				assert.Contains(t, entry, "source")
			},
		},
		"logfmt": {
			format: log.FormatLogfmt,
			check: func(t *testing.T, out string) {
				t.Helper()

				assert.Contains(t, out, "level=WARN")
				assert.Contains(t, out, `msg="ffmpeg exited"`)
				assert.Contains(t, out, "frames=12")
			},
		},
		"text": {
			format: log.FormatText,
			check: func(t *testing.T, out string) {
				t.Helper()

				assert.Contains(t, out, "WARN")
				assert.Contains(t, out, "ffmpeg exited")
				assert.Contains(t, out, "frames=12")
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			logger := slog.New(log.NewHandler(&buf, log.LevelWarn, tc.format))
			logger.Info("conversion complete", slog.Int("frames", 3))
			logger.Warn("ffmpeg exited", slog.Int("frames", 12))

			out := strings.TrimSpace(buf.String())
			assert.NotContains(t, out, "conversion complete")
			assert.Equal(t, 1, strings.Count(out, "\n")+1, out)

			tc.check(t, out)
		})
	}
}

func TestNewHandlerFromStrings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		wantErr error
		level   string
		format  string
	}{
		"valid":          {level: "debug", format: "json"},
		"invalid level":  {level: "loud", format: "json", wantErr: log.ErrUnknownLogLevel},
		"invalid format": {level: "info", format: "xml", wantErr: log.ErrUnknownLogFormat},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			h, err := log.NewHandlerFromStrings(&buf, tc.level, tc.format)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, log.ErrInvalidArgument)
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, h)

				return
			}

			require.NoError(t, err)
			slog.New(h).Debug("probed video")
			assert.Contains(t, buf.String(), `"msg":"probed video"`)
		})
	}
}

// Records written through a Publisher arrive as one entry each, which is what
// the player's status line relies on.
func TestHandlerToPublisher(t *testing.T) {
	t.Parallel()

	for _, format := range log.GetAllFormatStrings() {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			pub := log.NewPublisher()
			sub := pub.Subscribe()

			h, err := log.NewHandlerFromStrings(pub, "info", format)
			require.NoError(t, err)

			logger := slog.New(h)
			logger.Info("loading", slog.String("source", "cat.gif"))
			logger.Info("conversion complete", slog.Int("frames", 7))

			require.NoError(t, pub.Close())

			var entries []string
			for e := range sub.C() {
				entries = append(entries, e)
			}

			require.Len(t, entries, 2)
			assert.Contains(t, entries[0], "cat.gif")
			assert.NotContains(t, entries[0], "\n")
			assert.Contains(t, pub.Last(), "conversion complete")
		})
	}
}

func TestConfigRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())
	require.NoError(t, cfg.RegisterCompletions(cmd))

	for flag, want := range map[string][]string{
		"log-level":  log.GetAllLevelStrings(),
		"log-format": log.GetAllFormatStrings(),
	} {
		fn, ok := cmd.GetFlagCompletionFunc(flag)
		require.True(t, ok, flag)

		values, directive := fn(cmd, nil, "")
		assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
		assert.Equal(t, want, values)
	}
}

func TestConfigNewLogger(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	assert.Equal(t, string(log.LevelInfo), cfg.Level)
	assert.Equal(t, string(log.FormatText), cfg.Format)

	err := cmd.Flags().Parse([]string{"--log-level", "debug", "--log-format", "logfmt"})
	require.NoError(t, err)

	var buf bytes.Buffer

	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)

	logger.Debug("probed video", slog.Int("width", 64))
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "width=64")

	cfg.Format = "yaml"

	_, err = cfg.NewLogger(&buf)
	require.ErrorIs(t, err, log.ErrInvalidArgument)
	require.ErrorIs(t, err, log.ErrUnknownLogFormat)
}
