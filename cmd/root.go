/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chihoangvnn/postpreview/internal/config"
	"github.com/chihoangvnn/postpreview/internal/logutil"
)

// ErrInvalidContent is returned after printing previews when at least one of
// them has validation errors. Callers should exit non-zero without printing it.
var ErrInvalidContent = errors.New("content is not valid for every selected platform")

var (
	configPath  string
	verboseFlag bool
	logFilePath string

	settings config.Config
	logFile  io.Closer
)

// Execute runs the root command.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postpreview",
		Short: "Preview and validate social posts before publishing",
		Long: "postpreview formats a post the way Facebook, Instagram and TikTok would show it " +
			"and reports everything that would block or degrade publishing there.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if logFile != nil {
				_ = logFile.Close()
				logFile = nil
			}
		},
		Example: `  postpreview preview "Launch day #new @shop" --platform instagram
  postpreview preview --media video,https://cdn.example.com/clip.mp4,1080x1920,75s < caption.txt
  postpreview limits tiktok
  postpreview serve --addr :9090`,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (yaml, json or toml)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "V", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&logFilePath, "log-file", "", "Also write logs to this file (rotated)")

	cmd.AddCommand(
		newPreviewCommand(),
		newLimitsCommand(),
		newServeCommand(),
		newTokenCommand(),
		newCompletionCommand(),
	)

	return cmd
}

func setup(*cobra.Command, []string) error {
	logutil.SetVerbose(verboseFlag)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	settings = cfg
	logutil.SetFormatter(cfg.Log.JSON)

	path := logFilePath
	if path == "" {
		path = cfg.Log.File
	}
	if path != "" {
		logFile = logutil.SetLogFile(path)
		logutil.Debug("logging to file", "path", path)
	}
	return nil
}

// resolveText takes the post text from args, --text or piped stdin, in that order.
func resolveText(cmd *cobra.Command, args []string, flagValue string) (string, error) {
	var text string

	if flagValue != "" {
		text = flagValue
	}

	if len(args) > 0 {
		if text != "" {
			return "", errors.New("provide the text either as an argument or with --text, not both")
		}
		text = strings.Join(args, " ")
	}

	if text != "" {
		return text, nil
	}

	stdin := cmd.InOrStdin()
	if file, ok := stdin.(*os.File); ok {
		info, err := file.Stat()
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		if (info.Mode() & os.ModeCharDevice) != 0 {
			return "", nil
		}
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
