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
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chihoangvnn/postpreview/internal/client"
	"github.com/chihoangvnn/postpreview/internal/logutil"
	"github.com/chihoangvnn/postpreview/internal/preview"
)

var (
	previewText      string
	previewPlatforms []string
	previewMedia     []string
	serverURL        string
	useRemote        bool
	serverToken      string
	jsonOutput       bool
	noColor          bool
)

func newPreviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [text]",
		Short: "Format and validate a post for one or more platforms",
		Long: "Preview shows how a post would look on each selected platform and lists the errors " +
			"that would block publishing and the warnings that would not. " +
			"The text comes from the argument, --text, or stdin.",
		RunE: runPreview,
		Example: `  postpreview preview "Summer sale #deals @store" --platform facebook --platform tiktok
  postpreview preview --text "clip" --media video,https://cdn.example.com/v.mp4,1080x1920,90s
  cat caption.txt | postpreview preview --platform all --json`,
	}

	cmd.Flags().StringVarP(&previewText, "text", "t", "", "Post text")
	cmd.Flags().StringSliceVarP(&previewPlatforms, "platform", "p", nil, "Platforms to preview (facebook, instagram, tiktok, or all)")
	cmd.Flags().StringArrayVarP(&previewMedia, "media", "m", nil, "Attachment as type,url[,WxH][,Ns]; repeatable")
	addRemoteFlags(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print previews as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().SortFlags = false

	return cmd
}

func addRemoteFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&useRemote, "remote", false, "Use the service at client.base_url instead of the built-in engine")
	cmd.Flags().StringVar(&serverURL, "server", "", "Use the postpreview service at this URL (implies --remote)")
	cmd.Flags().StringVar(&serverToken, "token", "", "Bearer token for the remote service (defaults to client.token)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	text, err := resolveText(cmd, args, previewText)
	if err != nil {
		return err
	}

	media, err := parseMedia(previewMedia)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" && len(media) == 0 {
		return errors.New("text or media is required")
	}

	platforms, err := normalizePlatforms(previewPlatforms)
	if err != nil {
		return err
	}

	results, err := collectPreviews(cmd.Context(), platforms, text, media)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if err := writeJSON(out, jsonPayload(results)); err != nil {
			return err
		}
	} else {
		newRenderer(out, noColor).previews(results)
	}

	for _, res := range results {
		if !res.Validation.IsValid {
			return ErrInvalidContent
		}
	}
	return nil
}

func parseMedia(specs []string) ([]preview.MediaAsset, error) {
	media := make([]preview.MediaAsset, 0, len(specs))
	var errs []error
	for _, spec := range specs {
		asset, err := preview.ParseMediaSpec(spec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		media = append(media, asset)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return media, nil
}

func normalizePlatforms(values []string) ([]preview.Platform, error) {
	if len(values) == 0 {
		return preview.Platforms(), nil
	}

	result := make([]preview.Platform, 0, len(values))
	seen := map[preview.Platform]struct{}{}
	for _, raw := range values {
		raw = strings.TrimSpace(strings.ToLower(raw))
		if raw == "" {
			continue
		}
		if raw == "all" {
			return preview.Platforms(), nil
		}
		p, err := preview.ParsePlatform(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}

	if len(result) == 0 {
		return nil, errors.New("no platforms selected")
	}
	return result, nil
}

// collectPreviews returns one result per platform, in the order given.
func collectPreviews(ctx context.Context, platforms []preview.Platform, text string, media []preview.MediaAsset) ([]preview.Result, error) {
	all := len(platforms) == len(preview.Platforms())

	if !remote() {
		if all {
			byPlatform, err := preview.GenerateMultiPlatformPreview(text, media)
			if err != nil {
				return nil, err
			}
			return ordered(platforms, byPlatform), nil
		}
		results := make([]preview.Result, 0, len(platforms))
		for _, p := range platforms {
			res, err := preview.GeneratePreview(preview.Options{Text: text, Media: media, Platform: p})
			if err != nil {
				return nil, err
			}
			results = append(results, res)
		}
		return results, nil
	}

	c, err := remoteClient()
	if err != nil {
		return nil, err
	}
	if all {
		byPlatform, err := c.MultiPlatform(ctx, text, media)
		if err != nil {
			return nil, fmt.Errorf("remote preview: %w", err)
		}
		return ordered(platforms, byPlatform), nil
	}
	results := make([]preview.Result, 0, len(platforms))
	for _, p := range platforms {
		res, err := c.Generate(ctx, preview.Options{Text: text, Media: media, Platform: p})
		if err != nil {
			return nil, fmt.Errorf("remote preview %s: %w", p, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func ordered(platforms []preview.Platform, byPlatform map[preview.Platform]preview.Result) []preview.Result {
	out := make([]preview.Result, 0, len(platforms))
	for _, p := range platforms {
		if res, ok := byPlatform[p]; ok {
			out = append(out, res)
		}
	}
	return out
}

func remote() bool {
	return useRemote || serverURL != ""
}

func remoteClient() (*client.Client, error) {
	base := serverURL
	if base == "" {
		base = settings.Client.BaseURL
	}
	token := serverToken
	if token == "" {
		token = settings.Client.Token
	}
	logutil.Debug("using remote service", "server", base, "auth", token != "")
	return client.New(client.Config{BaseURL: base, Token: token, Timeout: settings.Client.Timeout})
}

// jsonPayload prints a lone result as an object and several as a map keyed by platform.
func jsonPayload(results []preview.Result) any {
	if len(results) == 1 {
		return results[0]
	}
	byPlatform := make(map[preview.Platform]preview.Result, len(results))
	for _, res := range results {
		byPlatform[res.Platform] = res
	}
	return byPlatform
}
