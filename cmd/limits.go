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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chihoangvnn/postpreview/internal/preview"
)

func newLimitsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "limits [platform]",
		Short:     "Show the content rules of each platform",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"facebook", "instagram", "tiktok"},
		RunE:      runLimits,
		Example: `  postpreview limits
  postpreview limits instagram --json`,
	}

	addRemoteFlags(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print limits as JSON")

	return cmd
}

func runLimits(cmd *cobra.Command, args []string) error {
	platforms := preview.Platforms()
	if len(args) == 1 {
		p, err := preview.ParsePlatform(args[0])
		if err != nil {
			return err
		}
		platforms = []preview.Platform{p}
	}

	byPlatform, err := fetchLimits(cmd, platforms)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if len(args) == 1 {
			return writeJSON(out, byPlatform[platforms[0]])
		}
		return writeJSON(out, byPlatform)
	}
	return newRenderer(out, true).limits(platforms, byPlatform)
}

func fetchLimits(cmd *cobra.Command, platforms []preview.Platform) (map[preview.Platform]preview.PlatformLimits, error) {
	if !remote() {
		if len(platforms) > 1 {
			return preview.AllLimits(), nil
		}
		l, err := preview.Limits(platforms[0])
		if err != nil {
			return nil, err
		}
		return map[preview.Platform]preview.PlatformLimits{platforms[0]: l}, nil
	}

	c, err := remoteClient()
	if err != nil {
		return nil, err
	}
	if len(platforms) > 1 {
		all, err := c.AllLimits(cmd.Context())
		if err != nil {
			return nil, fmt.Errorf("remote limits: %w", err)
		}
		return all, nil
	}
	l, err := c.Limits(cmd.Context(), platforms[0])
	if err != nil {
		return nil, fmt.Errorf("remote limits %s: %w", platforms[0], err)
	}
	return map[preview.Platform]preview.PlatformLimits{platforms[0]: l}, nil
}
