package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/glyphreel/config"
	"go.jacobcolvin.com/glyphreel/stringtest"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    *config.File
		wantErr error
	}{
		"empty": {
			input: "",
			want:  &config.File{},
		},
		"all fields": {
			input: stringtest.Input(`
				width: 100
				scaler: catmull-rom
				fps: 24.5
				ffmpeg: /opt/ffmpeg
				ffprobe: /opt/ffprobe
				logLevel: debug
				logFormat: json
				plain: false
			`),
			want: &config.File{
				Width:     100,
				Scaler:    "catmull-rom",
				FPS:       24.5,
				FFmpeg:    "/opt/ffmpeg",
				FFprobe:   "/opt/ffprobe",
				LogLevel:  "debug",
				LogFormat: "json",
				Plain:     new(bool),
			},
		},
		"unknown key": {
			input:   "colour: red\n",
			wantErr: config.ErrInvalidConfig,
		},
		"zero width": {
			input:   "width: 0\n",
			wantErr: config.ErrInvalidConfig,
		},
		"negative fps": {
			input:   "fps: -1\n",
			wantErr: config.ErrInvalidConfig,
		},
		"unknown scaler": {
			input:   "scaler: lanczos\n",
			wantErr: config.ErrInvalidConfig,
		},
		"unknown log level": {
			input:   "logLevel: loud\n",
			wantErr: config.ErrInvalidConfig,
		},
		"wrong type": {
			input:   "width: wide\n",
			wantErr: config.ErrInvalidConfig,
		},
		"malformed yaml": {
			input:   "width: [\n",
			wantErr: config.ErrParseConfig,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := config.Parse([]byte(tc.input))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "glyphreel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 42\n"), 0o600))

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Width)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, config.ErrReadConfig)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	s, err := config.Schema()
	require.NoError(t, err)

	out, err := json.Marshal(s)
	require.NoError(t, err)

	var doc map[string]any

	require.NoError(t, json.Unmarshal(out, &doc))

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)

	for _, key := range []string{"width", "scaler", "fps", "ffmpeg", "ffprobe", "logLevel", "logFormat", "plain"} {
		assert.Contains(t, props, key)
	}

	scaler, ok := props["scaler"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, scaler["enum"], "nearest")
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.IntP("width", "w", 80, "")
	fs.String("scaler", "approx-bilinear", "")
	fs.Float64("fps", 0, "")
	fs.String("ffmpeg", "", "")
	fs.String("log-level", "info", "")
	fs.Bool("plain", false, "")

	return fs
}

func TestFileApply(t *testing.T) {
	t.Parallel()

	plain := true

	tcs := map[string]struct {
		file  config.File
		args  []string
		check func(t *testing.T, fs *pflag.FlagSet)
	}{
		"fills unset flags": {
			file: config.File{Width: 120, Scaler: "nearest", FPS: 12.5, Plain: &plain},
			check: func(t *testing.T, fs *pflag.FlagSet) {
				t.Helper()

				w, err := fs.GetInt("width")
				require.NoError(t, err)
				assert.Equal(t, 120, w)

				s, err := fs.GetString("scaler")
				require.NoError(t, err)
				assert.Equal(t, "nearest", s)

				fps, err := fs.GetFloat64("fps")
				require.NoError(t, err)
				assert.InDelta(t, 12.5, fps, 1e-9)

				p, err := fs.GetBool("plain")
				require.NoError(t, err)
				assert.True(t, p)
			},
		},
		"command line wins": {
			file: config.File{Width: 120, LogLevel: "debug"},
			args: []string{"--width", "30"},
			check: func(t *testing.T, fs *pflag.FlagSet) {
				t.Helper()

				w, err := fs.GetInt("width")
				require.NoError(t, err)
				assert.Equal(t, 30, w)

				l, err := fs.GetString("log-level")
				require.NoError(t, err)
				assert.Equal(t, "debug", l)
			},
		},
		"empty values keep defaults": {
			file: config.File{},
			check: func(t *testing.T, fs *pflag.FlagSet) {
				t.Helper()

				w, err := fs.GetInt("width")
				require.NoError(t, err)
				assert.Equal(t, 80, w)
				assert.False(t, fs.Changed("width"))
			},
		},
		"missing flags are skipped": {
			file: config.File{FFprobe: "/bin/ffprobe", LogFormat: "json"},
			check: func(t *testing.T, fs *pflag.FlagSet) {
				t.Helper()

				assert.Nil(t, fs.Lookup("ffprobe"))
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fs := newFlagSet()
			require.NoError(t, fs.Parse(tc.args))
			require.NoError(t, tc.file.Apply(fs, config.DefaultFlagNames()))
			tc.check(t, fs)
		})
	}
}
