package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/glyphreel/frame"
	"go.jacobcolvin.com/glyphreel/media"
)

// ErrInvalidOption indicates an invalid configuration value.
var ErrInvalidOption = errors.New("invalid option")

// Flags holds CLI flag names for conversion configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Width  string
	Scaler string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for conversion.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewPipeline] to create a [Pipeline].
type Config struct {
	Flags  Flags
	Scaler string
	Width  int
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Width:  "width",
		Scaler: "scaler",
	}

	return f.NewConfig()
}

// RegisterFlags adds conversion flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.IntVarP(&c.Width, c.Flags.Width, "w", DefaultWidth,
		"frame width in characters")
	flags.StringVar(&c.Scaler, c.Flags.Scaler, frame.ScalerApproxBiLinear,
		fmt.Sprintf("resampling filter, one of: %s", strings.Join(frame.ScalerNames(), ", ")))
}

// RegisterCompletions registers shell completions for conversion flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Scaler,
		cobra.FixedCompletions(frame.ScalerNames(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Scaler, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Width, cobra.NoFileCompletions)
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Width, err)
	}

	return nil
}

// TargetWidth returns the configured width, or [DefaultWidth] when it is not
// positive.
func (c *Config) TargetWidth() int {
	if c.Width < 1 {
		return DefaultWidth
	}

	return c.Width
}

// Options returns the pipeline options described by this [Config].
func (c *Config) Options() ([]Option, error) {
	name := c.Scaler
	if name == "" {
		name = frame.ScalerApproxBiLinear
	}

	scaler, err := frame.ParseScaler(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	return []Option{WithReducer(frame.NewReducer(frame.WithScaler(scaler)))}, nil
}

// NewPipeline creates a [Pipeline] using this [Config]. Options are applied
// after the configured ones.
func (c *Config) NewPipeline(decoder media.Decoder, opts ...Option) (*Pipeline, error) {
	all, err := c.Options()
	if err != nil {
		return nil, err
	}

	return New(decoder, append(all, opts...)...), nil
}
