package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vidmend/vidmend/internal/config"
	"github.com/vidmend/vidmend/internal/ffmpeg"
	"github.com/vidmend/vidmend/internal/ffprobe"
	"github.com/vidmend/vidmend/internal/transcode"
	"github.com/vidmend/vidmend/internal/util"
)

func newConvertCmd(flags *rootFlags) *cobra.Command {
	var keepAudio bool
	var deleteOriginal bool
	var resize string

	cmd := &cobra.Command{
		Use:   "convert <input> [output]",
		Short: "Single-pass conversion to a normalized mp4",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(flags)
			if err != nil {
				return err
			}

			sess, closeLog := setupSession(cfg, flags.noLog)
			defer closeLog()
			rep := buildReporter(sess)

			input := args[0]
			output := derivedOutput(args, input, "_converted", ".mp4")

			eng := transcode.New(cfg, ffprobe.New(cfg.FFprobePath), nil, rep)
			return eng.Convert(cmd.Context(), transcode.ConvertRequest{
				Input:  input,
				Output: output,
				Options: ffmpeg.ConvertOptions{
					Quality:   cfg.Quality,
					KeepAudio: keepAudio,
					Resize:    resize,
				},
				DeleteOriginal: deleteOriginal,
			})
		},
	}

	cmd.Flags().BoolVar(&keepAudio, "keep-audio", true, "carry audio over to the output")
	cmd.Flags().BoolVar(&deleteOriginal, "delete-original", false, "remove the input after a verified conversion")
	cmd.Flags().StringVar(&resize, "resize", "", "scale the output, e.g. 1280x720")
	return cmd
}

func newPreviewCmd(flags *rootFlags) *cobra.Command {
	var length float64

	cmd := &cobra.Command{
		Use:   "preview <input> [output]",
		Short: "Extract a short preview clip",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(flags)
			if err != nil {
				return err
			}

			sess, closeLog := setupSession(cfg, flags.noLog)
			defer closeLog()
			rep := buildReporter(sess)

			input := args[0]
			output := derivedOutput(args, input, "_preview", ".mp4")

			eng := transcode.New(cfg, ffprobe.New(cfg.FFprobePath), nil, rep)
			return eng.Preview(cmd.Context(), input, output, length)
		},
	}

	cmd.Flags().Float64Var(&length, "length", config.DefaultPreviewSeconds, "preview length in seconds")
	return cmd
}

func newFrameCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "frame <input> [output]",
		Short: "Extract a single frame from the middle of a video",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(flags)
			if err != nil {
				return err
			}

			sess, closeLog := setupSession(cfg, flags.noLog)
			defer closeLog()
			rep := buildReporter(sess)

			input := args[0]
			output := derivedOutput(args, input, "_frame", ".jpg")

			eng := transcode.New(cfg, ffprobe.New(cfg.FFprobePath), nil, rep)
			return eng.ExtractFrame(cmd.Context(), input, output)
		},
	}
}

// derivedOutput returns the explicit output argument, or a sibling path
// built from the input name.
func derivedOutput(args []string, input, suffix, ext string) string {
	if len(args) > 1 {
		return args[1]
	}
	stem := util.GetFileStem(input)
	return filepath.Join(filepath.Dir(input), stem+suffix+ext)
}
