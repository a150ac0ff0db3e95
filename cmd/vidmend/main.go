// Package main provides the CLI entry point for vidmend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vidmend/vidmend/internal/config"
	"github.com/vidmend/vidmend/internal/logging"
)

const (
	appName    = "vidmend"
	appVersion = "0.3.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configFile  string
	ffmpegPath  string
	ffprobePath string
	quality     string
	logDir      string
	verbose     bool
	noLog       bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Detect and repair incompatible video files",
		Long:          "vidmend classifies video files whose streams are likely to be rejected by frame-accessing consumers and repairs them with a two-stage re-encode.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default: vidmend.yaml search path)")
	pf.StringVar(&flags.ffmpegPath, "ffmpeg", "", "ffmpeg binary (default: resolved from PATH)")
	pf.StringVar(&flags.ffprobePath, "ffprobe", "", "ffprobe binary (default: resolved from PATH)")
	pf.StringVarP(&flags.quality, "quality", "q", "", "repair quality tier: low, medium, high")
	pf.StringVar(&flags.logDir, "log-dir", "", "directory for the session log file")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&flags.noLog, "no-log", false, "disable the session log file")

	root.AddCommand(
		newDetectCmd(flags),
		newFixCmd(flags),
		newConvertCmd(flags),
		newPreviewCmd(flags),
		newFrameCmd(flags),
		newVersionCmd(),
	)

	return root
}

// buildConfig loads the optional config file and applies flag overrides.
func buildConfig(flags *rootFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error

	path := flags.configFile
	if path == "" {
		path = config.FindConfigFile()
	}
	if path != "" {
		cfg, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.NewConfig()
	}

	if flags.ffmpegPath != "" {
		cfg.FFmpegPath = flags.ffmpegPath
	}
	if flags.ffprobePath != "" {
		cfg.FFprobePath = flags.ffprobePath
	}
	if flags.quality != "" {
		cfg.Quality = config.ParseTier(flags.quality)
	}
	if flags.logDir != "" {
		cfg.LogDir = flags.logDir
	}
	if flags.verbose {
		cfg.Verbose = true
	}

	return cfg, cfg.Validate()
}

// setupSession configures the global logger and prepares the per-run log
// file. The returned close function is safe to defer even when file logging
// is disabled.
func setupSession(cfg *config.Config, noLog bool) (*logging.SessionLogger, func()) {
	level := logging.LevelInfo
	if cfg.Verbose {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stderr)

	if cfg.LogDir == "" {
		noLog = true
	}
	sess, err := logging.Setup(cfg.LogDir, cfg.Verbose, noLog)
	if err != nil {
		logging.Warn("session log unavailable", "error", err)
		return nil, func() {}
	}
	return sess, func() { _ = sess.Close() }
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
}
