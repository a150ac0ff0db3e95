package main

import (
	"github.com/spf13/cobra"

	"github.com/vidmend/vidmend/internal/ffprobe"
	"github.com/vidmend/vidmend/internal/registry"
	"github.com/vidmend/vidmend/internal/repair"
	"github.com/vidmend/vidmend/internal/worker"
)

func newFixCmd(flags *rootFlags) *cobra.Command {
	var recursive bool
	var keepOriginal bool

	cmd := &cobra.Command{
		Use:   "fix <file|folder>...",
		Short: "Repair flagged video files with a two-stage re-encode",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(flags)
			if err != nil {
				return err
			}
			if recursive {
				cfg.Recursive = true
			}
			cfg.ReplaceOriginal = !keepOriginal
			if err := cfg.RequireFFmpeg(); err != nil {
				return err
			}
			if err := cfg.RequireFFprobe(); err != nil {
				return err
			}

			sess, closeLog := setupSession(cfg, flags.noLog)
			defer closeLog()
			rep := buildReporter(sess)
			rep.SessionStarted(sessionInfo(cfg))

			files, err := collectInputs(cfg, args)
			if err != nil {
				return err
			}

			reg := registry.New()
			for _, f := range files {
				reg.Add(f)
			}

			prober := ffprobe.New(cfg.FFprobePath)
			eng := repair.New(cfg, prober, nil, rep)
			w := worker.New(cfg, reg, prober, eng, rep)

			if _, err := w.DetectAll(cmd.Context()); err != nil {
				return err
			}
			_, err = w.FixAll(cmd.Context())
			return err
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "scan folders recursively")
	cmd.Flags().BoolVar(&keepOriginal, "keep-original", false, "write <name>_fixed.mp4 instead of replacing the original")
	return cmd
}
