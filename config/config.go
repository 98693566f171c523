package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/glyphreel/frame"
	"go.jacobcolvin.com/glyphreel/log"
)

var (
	// ErrReadConfig indicates the settings file could not be read.
	ErrReadConfig = errors.New("read config")
	// ErrParseConfig indicates the settings file is not valid YAML.
	ErrParseConfig = errors.New("parse config")
	// ErrInvalidConfig indicates the settings file does not match [Schema].
	ErrInvalidConfig = errors.New("invalid config")
)

// File is the on-disk settings document.
type File struct {
	Scaler    string  `json:"scaler,omitempty"    jsonschema:"resampling filter used to shrink frames"`
	FFmpeg    string  `json:"ffmpeg,omitempty"    jsonschema:"path to the ffmpeg executable"`
	FFprobe   string  `json:"ffprobe,omitempty"   jsonschema:"path to the ffprobe executable"`
	LogLevel  string  `json:"logLevel,omitempty"  jsonschema:"log level"`
	LogFormat string  `json:"logFormat,omitempty" jsonschema:"log format"`
	Plain     *bool   `json:"plain,omitempty"     jsonschema:"write frames directly instead of using the interactive view"`
	FPS       float64 `json:"fps,omitempty"       jsonschema:"playback rate override in frames per second; 0 uses the source rate"`
	Width     int     `json:"width,omitempty"     jsonschema:"frame width in characters"`
}

// FlagNames maps [File] keys to the command line flags they populate.
type FlagNames struct {
	Width     string
	Scaler    string
	FPS       string
	FFmpeg    string
	FFprobe   string
	LogLevel  string
	LogFormat string
	Plain     string
}

// DefaultFlagNames returns the flag names registered by the glyphreel command.
func DefaultFlagNames() FlagNames {
	return FlagNames{
		Width:     "width",
		Scaler:    "scaler",
		FPS:       "fps",
		FFmpeg:    "ffmpeg",
		FFprobe:   "ffprobe",
		LogLevel:  "log-level",
		LogFormat: "log-format",
		Plain:     "plain",
	}
}

// Schema returns the JSON Schema describing [File].
func Schema() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[File](nil)
	if err != nil {
		return nil, fmt.Errorf("generate schema: %w", err)
	}

	s.Title = "glyphreel settings"

	s.Properties["width"].Minimum = jsonschema.Ptr(1.0)
	s.Properties["fps"].Minimum = jsonschema.Ptr(0.0)
	s.Properties["scaler"].Enum = enum(frame.ScalerNames())
	s.Properties["logLevel"].Enum = enum(log.GetAllLevelStrings())
	s.Properties["logFormat"].Enum = enum(log.GetAllFormatStrings())

	return s, nil
}

func enum(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}

	return out
}

// Load reads and validates the settings file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Parse validates data against [Schema] and decodes it.
// An empty document yields a zero [File].
func Parse(data []byte) (*File, error) {
	f := &File{}

	if len(bytes.TrimSpace(data)) == 0 {
		return f, nil
	}

	js, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseConfig, err)
	}

	var doc any

	err = json.Unmarshal(js, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseConfig, err)
	}

	if doc == nil {
		return f, nil
	}

	s, err := Schema()
	if err != nil {
		return nil, err
	}

	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}

	err = resolved.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	dec := json.NewDecoder(bytes.NewReader(js))
	dec.DisallowUnknownFields()

	err = dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return f, nil
}

// Apply sets each flag named in names from f, skipping values f leaves empty
// and flags that were already set on the command line. Flags missing from
// flags are ignored.
func (f *File) Apply(flags *pflag.FlagSet, names FlagNames) error {
	values := []struct {
		name  string
		value string
		set   bool
	}{
		{names.Width, strconv.Itoa(f.Width), f.Width != 0},
		{names.Scaler, f.Scaler, f.Scaler != ""},
		{names.FPS, strconv.FormatFloat(f.FPS, 'g', -1, 64), f.FPS != 0},
		{names.FFmpeg, f.FFmpeg, f.FFmpeg != ""},
		{names.FFprobe, f.FFprobe, f.FFprobe != ""},
		{names.LogLevel, f.LogLevel, f.LogLevel != ""},
		{names.LogFormat, f.LogFormat, f.LogFormat != ""},
		{names.Plain, strconv.FormatBool(f.Plain != nil && *f.Plain), f.Plain != nil},
	}

	for _, v := range values {
		if !v.set || v.name == "" {
			continue
		}

		fl := flags.Lookup(v.name)
		if fl == nil || fl.Changed {
			continue
		}

		err := flags.Set(v.name, v.value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, v.name, err)
		}
	}

	return nil
}
