// Command glyphreel plays a video or animated GIF as text art in the terminal.
//
// Every frame is reduced to grayscale and each pixel is drawn with one of
// twenty block and braille glyphs, from densest for black to blank for white.
// Videos are decoded with ffmpeg, which must be on $PATH or named with
// --ffmpeg and --ffprobe.
//
// # Usage
//
//	glyphreel [flags] <file>
//	glyphreel schema
//	glyphreel version
//
// Settings may also be read from a YAML file given with --config. Flags set on
// the command line take precedence over the file. Run "glyphreel schema" to
// print the JSON Schema for that file.
//
// Playback loops until q, esc or ctrl+c is pressed. When stdout is not a
// terminal, or with --plain, frames are written directly to stdout until the
// process is interrupted.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go.jacobcolvin.com/glyphreel/config"
	"go.jacobcolvin.com/glyphreel/convert"
	"go.jacobcolvin.com/glyphreel/engine"
	"go.jacobcolvin.com/glyphreel/log"
	"go.jacobcolvin.com/glyphreel/media"
	"go.jacobcolvin.com/glyphreel/profile"
	"go.jacobcolvin.com/glyphreel/version"
)

// ErrReadInput indicates the media file could not be read.
var ErrReadInput = errors.New("read input")

type options struct {
	log        *log.Config
	convert    *convert.Config
	profile    *profile.Config
	configPath string
	ffmpeg     string
	ffprobe    string
	fps        float64
	plain      bool
}

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{
		log:     log.NewConfig(),
		convert: convert.NewConfig(),
		profile: profile.NewConfig(),
	}

	rootCmd := &cobra.Command{
		Use:   "glyphreel [flags] <file>",
		Short: "Play videos and GIFs as text art",
		Long: `glyphreel converts a video or animated GIF into text-art frames and plays
them back in a loop. Supported formats: .gif, .mp4, .mov, .avi, .mkv, .webm.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.configPath == "" {
				return nil
			}

			f, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			return f.Apply(cmd.Flags(), config.DefaultFlagNames())
		},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			p := opts.profile.NewProfiler()

			err = p.Start()
			if err != nil {
				return err
			}

			defer func() {
				err = errors.Join(err, p.Stop())
			}()

			return run(cmd.Context(), opts, args[0], cmd.OutOrStdout())
		},
	}

	flags := rootCmd.Flags()
	opts.log.RegisterFlags(flags)
	opts.convert.RegisterFlags(flags)
	opts.profile.RegisterFlags(flags)
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML settings file")
	flags.Float64Var(&opts.fps, "fps", 0, "playback rate override in frames per second (0 uses the source rate)")
	flags.StringVar(&opts.ffmpeg, "ffmpeg", "", "path to the ffmpeg executable")
	flags.StringVar(&opts.ffprobe, "ffprobe", "", "path to the ffprobe executable")
	flags.BoolVar(&opts.plain, "plain", false, "write frames directly to stdout instead of the interactive view")

	err := registerCompletions(rootCmd, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	rootCmd.AddCommand(newSchemaCommand(), newVersionCommand())

	return rootCmd
}

func registerCompletions(cmd *cobra.Command, opts *options) error {
	err := opts.log.RegisterCompletions(cmd)
	if err != nil {
		return err
	}

	err = opts.convert.RegisterCompletions(cmd)
	if err != nil {
		return err
	}

	err = opts.profile.RegisterCompletions(cmd)
	if err != nil {
		return err
	}

	err = cmd.RegisterFlagCompletionFunc("config",
		cobra.FixedCompletions([]string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering config completion: %w", err)
	}

	cmd.ValidArgsFunction = func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
		exts := make([]cobra.Completion, 0, len(media.SupportedExtensions()))
		for _, ext := range media.SupportedExtensions() {
			exts = append(exts, ext[1:])
		}

		return exts, cobra.ShellCompDirectiveFilterFileExt
	}

	return nil
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := config.Schema()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal schema: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)

			return err
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())

			return err
		},
	}
}

func run(ctx context.Context, opts *options, path string, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	convertOpts, err := opts.convert.Options()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	name := filepath.Base(path)

	if opts.plain || !isTerminal(stdout) {
		logger, err := opts.log.NewLogger(os.Stderr)
		if err != nil {
			return err
		}

		return playPlain(ctx, opts, newEngineOptions(opts, logger, convertOpts), name, data, stdout)
	}

	pub := log.NewPublisher()
	defer pub.Close() //nolint:errcheck // Close never fails.

	logger, err := opts.log.NewLogger(pub)
	if err != nil {
		return err
	}

	return playInteractive(ctx, opts, newEngineOptions(opts, logger, convertOpts), pub, name, data)
}

type engineSetup struct {
	decoder media.Mux
	logger  *slog.Logger
	opts    []engine.Option
}

func newEngineOptions(opts *options, logger *slog.Logger, convertOpts []convert.Option) engineSetup {
	var ffOpts []media.FFmpegOption

	ffOpts = append(ffOpts, media.WithLogger(logger))
	if opts.ffmpeg != "" {
		ffOpts = append(ffOpts, media.WithFFmpegPath(opts.ffmpeg))
	}

	if opts.ffprobe != "" {
		ffOpts = append(ffOpts, media.WithFFprobePath(opts.ffprobe))
	}

	return engineSetup{
		decoder: media.NewDecoder(ffOpts...),
		logger:  logger,
		opts: []engine.Option{
			engine.WithLogger(logger),
			engine.WithFPS(opts.fps),
			engine.WithConvertOptions(convertOpts...),
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
