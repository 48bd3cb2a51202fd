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
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	json "github.com/json-iterator/go"
	"golang.org/x/term"

	"github.com/chihoangvnn/postpreview/internal/preview"
)

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type renderer struct {
	w io.Writer

	title   *color.Color
	dim     *color.Color
	ok      *color.Color
	failure *color.Color
	warning *color.Color
}

func newRenderer(w io.Writer, plain bool) renderer {
	r := renderer{
		w:       w,
		title:   color.New(color.Bold, color.FgCyan),
		dim:     color.New(color.Faint),
		ok:      color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		warning: color.New(color.FgYellow),
	}
	enable := !plain && isTerminal(w)
	for _, c := range []*color.Color{r.title, r.dim, r.ok, r.failure, r.warning} {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func (r renderer) previews(results []preview.Result) {
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(r.w)
		}
		r.preview(res)
	}
}

func (r renderer) preview(res preview.Result) {
	name := string(res.Platform)
	maxText := 0
	if limits, err := preview.Limits(res.Platform); err == nil {
		name, maxText = limits.Name, limits.MaxTextLength
	}

	r.title.Fprintf(r.w, "== %s ==\n", name)
	if res.Text.Formatted != "" {
		fmt.Fprintln(r.w, res.Text.Formatted)
	}

	stats := fmt.Sprintf("%d/%d chars, %d hashtags, %d mentions, %d media",
		res.Text.Length, maxText, len(res.Text.Hashtags), len(res.Text.Mentions), len(res.Media.Assets))
	if res.Text.Truncated {
		stats += ", truncated"
	}
	r.dim.Fprintln(r.w, stats)

	if res.Validation.IsValid {
		r.ok.Fprintln(r.w, "valid")
	} else {
		r.failure.Fprintln(r.w, "invalid")
	}
	for _, msg := range res.Validation.Errors {
		r.failure.Fprint(r.w, "  error: ")
		fmt.Fprintln(r.w, msg)
	}
	for _, msg := range res.Validation.Warnings {
		r.warning.Fprint(r.w, "  warning: ")
		fmt.Fprintln(r.w, msg)
	}
}

func (r renderer) limits(platforms []preview.Platform, byPlatform map[preview.Platform]preview.PlatformLimits) error {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	headers := []string{"PLATFORM", "TEXT", "HASHTAGS", "MENTIONS", "MEDIA", "TYPES", "ASPECT", "VIDEO", "REFLOW"}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, p := range platforms {
		l, ok := byPlatform[p]
		if !ok {
			continue
		}
		fmt.Fprintln(tw, strings.Join([]string{
			string(p),
			strconv.Itoa(l.MaxTextLength),
			strconv.Itoa(l.MaxHashtags),
			strconv.Itoa(l.MaxMentions),
			strconv.Itoa(l.MaxMediaCount),
			mediaTypes(l.SupportedMediaTypes),
			aspectRange(l.RecommendedAspectRatios),
			fmt.Sprintf("%gs %s", l.MaxVideoDuration, l.VideoDurationLabel),
			strconv.FormatBool(l.ReflowHashtags),
		}, "\t"))
	}
	return tw.Flush()
}

func mediaTypes(types []preview.MediaType) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return strings.Join(names, ",")
}

func aspectRange(r preview.AspectRatioRange) string {
	s := fmt.Sprintf("%g-%g", r.Min, r.Max)
	if r.Optimal != nil {
		s += fmt.Sprintf(" (%g)", *r.Optimal)
	}
	return s
}
