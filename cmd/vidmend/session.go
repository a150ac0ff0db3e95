package main

import (
	"os"

	"github.com/vidmend/vidmend/internal/config"
	"github.com/vidmend/vidmend/internal/discovery"
	"github.com/vidmend/vidmend/internal/errors"
	"github.com/vidmend/vidmend/internal/logging"
	"github.com/vidmend/vidmend/internal/reporter"
	"github.com/vidmend/vidmend/internal/util"
)

// buildReporter wires the terminal reporter, plus the session log when one
// is open.
func buildReporter(sess *logging.SessionLogger) reporter.Reporter {
	term := reporter.NewTerminalReporter()
	if sess == nil {
		return term
	}
	return reporter.NewCompositeReporter(term, reporter.NewLogReporter(sess))
}

func sessionInfo(cfg *config.Config) reporter.SessionInfo {
	host, _ := os.Hostname()
	return reporter.SessionInfo{
		Hostname:     host,
		FFmpegFound:  cfg.HasFFmpeg(),
		FFprobeFound: cfg.HasFFprobe(),
		FFmpegPath:   cfg.FFmpegPath,
		FFprobePath:  cfg.FFprobePath,
	}
}

// collectInputs expands each argument into video files: folders are
// scanned, files are taken as-is.
func collectInputs(cfg *config.Config, args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		switch {
		case util.DirectoryExists(arg):
			found, err := discovery.Scan(arg, cfg.Recursive)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
		case util.FileExists(arg):
			files = append(files, arg)
		default:
			return nil, errors.NewNotFoundError(arg)
		}
	}
	if len(files) == 0 {
		return nil, errors.NewNoFilesFoundError("given paths")
	}
	return files, nil
}
