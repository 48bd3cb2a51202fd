// Package preview renders and validates a social post against the content
// rules of each supported platform. Everything here is pure: no I/O, no
// shared mutable state, safe for concurrent use.
package preview

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// Service generates previews. It carries no state; the zero value is ready to use.
type Service struct{}

// New returns a preview Service.
func New() *Service { return &Service{} }

var defaultService = New()

// GeneratePreview runs GeneratePreview on a default Service.
func GeneratePreview(opts Options) (Result, error) {
	return defaultService.GeneratePreview(opts)
}

// GenerateMultiPlatformPreview runs GenerateMultiPlatformPreview on a default Service.
func GenerateMultiPlatformPreview(text string, media []MediaAsset) (map[Platform]Result, error) {
	return defaultService.GenerateMultiPlatformPreview(text, media)
}

// GeneratePreview formats and validates opts for opts.Platform. The only error
// is an unknown platform; content problems are reported in Result.Validation.
func (s *Service) GeneratePreview(opts Options) (Result, error) {
	limits, err := Limits(opts.Platform)
	if err != nil {
		return Result{}, err
	}

	formatted, truncated := FormatText(opts.Text, limits)
	hashtags := ExtractHashtags(opts.Text)
	mentions := ExtractMentions(opts.Text)
	report := ValidateMedia(opts.Media, limits)

	warnings := make([]string, 0, len(report.Warnings)+3)
	if n := utf8.RuneCountInString(opts.Text); n > limits.MaxTextLength {
		warnings = append(warnings, fmt.Sprintf("Text length %d exceeds %s limit of %d characters and was truncated", n, limits.Name, limits.MaxTextLength))
	}
	if len(hashtags) > limits.MaxHashtags {
		warnings = append(warnings, fmt.Sprintf("Too many hashtags (%d). %s recommends at most %d.", len(hashtags), limits.Name, limits.MaxHashtags))
	}
	if len(mentions) > limits.MaxMentions {
		warnings = append(warnings, fmt.Sprintf("Too many mentions (%d). %s recommends at most %d.", len(mentions), limits.Name, limits.MaxMentions))
	}
	warnings = append(warnings, report.Warnings...)

	assets := slices.Clone(opts.Media)
	if assets == nil {
		assets = make([]MediaAsset, 0)
	}

	return Result{
		Platform: opts.Platform,
		Text: TextPreview{
			Original:  opts.Text,
			Formatted: formatted,
			Length:    utf8.RuneCountInString(formatted),
			Hashtags:  hashtags,
			Mentions:  mentions,
			Truncated: truncated,
		},
		Media: MediaPreview{
			Assets:   assets,
			Warnings: report.Warnings,
		},
		Validation: Validation{
			IsValid:  len(report.Errors) == 0,
			Errors:   report.Errors,
			Warnings: warnings,
		},
	}, nil
}

// GenerateMultiPlatformPreview previews the post on every known platform
// concurrently. The first failure aborts the whole call.
func (s *Service) GenerateMultiPlatformPreview(text string, media []MediaAsset) (map[Platform]Result, error) {
	platforms := Platforms()
	results := make([]Result, len(platforms))

	var g errgroup.Group
	for i, p := range platforms {
		i, p := i, p
		g.Go(func() error {
			res, err := s.GeneratePreview(Options{Text: text, Media: media, Platform: p})
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[Platform]Result, len(platforms))
	for i, p := range platforms {
		out[p] = results[i]
	}
	return out, nil
}
