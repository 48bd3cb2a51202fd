package preview

import (
	"slices"
	"strings"
)

// Platform identifies a social destination.
type Platform string

const (
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	TikTok    Platform = "tiktok"
)

// AspectRatioRange is the advisory width/height band for media on a platform.
type AspectRatioRange struct {
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Optimal *float64 `json:"optimal,omitempty"`
}

// PlatformLimits holds the content constraints of one platform.
type PlatformLimits struct {
	Name                    string           `json:"name"`
	MaxTextLength           int              `json:"maxTextLength"`
	MaxHashtags             int              `json:"maxHashtags"`
	MaxMentions             int              `json:"maxMentions"`
	SupportedMediaTypes     []MediaType      `json:"supportedMediaTypes"`
	MaxMediaCount           int              `json:"maxMediaCount"`
	RecommendedAspectRatios AspectRatioRange `json:"recommendedAspectRatios"`
	// MaxVideoDuration is in seconds; VideoDurationLabel names the placement it applies to.
	MaxVideoDuration   float64 `json:"maxVideoDuration"`
	VideoDurationLabel string  `json:"videoDurationLabel"`
	// ReflowHashtags moves every hashtag to a trailing line when formatting.
	ReflowHashtags bool `json:"reflowHashtags"`
}

// Supports reports whether media of type t can be attached on the platform.
func (l PlatformLimits) Supports(t MediaType) bool {
	return slices.Contains(l.SupportedMediaTypes, t)
}

func (l PlatformLimits) clone() PlatformLimits {
	out := l
	out.SupportedMediaTypes = slices.Clone(l.SupportedMediaTypes)
	if l.RecommendedAspectRatios.Optimal != nil {
		optimal := *l.RecommendedAspectRatios.Optimal
		out.RecommendedAspectRatios.Optimal = &optimal
	}
	return out
}

func ratio(v float64) *float64 { return &v }

var ruleTable = map[Platform]PlatformLimits{
	Facebook: {
		Name:                    "Facebook",
		MaxTextLength:           63206,
		MaxHashtags:             30,
		MaxMentions:             50,
		SupportedMediaTypes:     []MediaType{MediaImage, MediaVideo},
		MaxMediaCount:           10,
		RecommendedAspectRatios: AspectRatioRange{Min: 0.8, Max: 1.91},
		MaxVideoDuration:        240 * 60,
		VideoDurationLabel:      "feed",
	},
	Instagram: {
		Name:                    "Instagram",
		MaxTextLength:           2200,
		MaxHashtags:             30,
		MaxMentions:             20,
		SupportedMediaTypes:     []MediaType{MediaImage, MediaVideo},
		MaxMediaCount:           10,
		RecommendedAspectRatios: AspectRatioRange{Min: 0.8, Max: 1.91, Optimal: ratio(1.0)},
		MaxVideoDuration:        60,
		VideoDurationLabel:      "feed",
		ReflowHashtags:          true,
	},
	TikTok: {
		Name:                    "TikTok",
		MaxTextLength:           2200,
		MaxHashtags:             30,
		MaxMentions:             20,
		SupportedMediaTypes:     []MediaType{MediaImage, MediaVideo},
		MaxMediaCount:           35,
		RecommendedAspectRatios: AspectRatioRange{Min: 0.5, Max: 1.0, Optimal: ratio(0.5625)},
		MaxVideoDuration:        10 * 60,
		VideoDurationLabel:      "short-form",
	},
}

// Limits returns the constraints for p.
func Limits(p Platform) (PlatformLimits, error) {
	limits, ok := ruleTable[p]
	if !ok {
		return PlatformLimits{}, UnknownPlatformError{Platform: string(p)}
	}
	return limits.clone(), nil
}

// AllLimits returns a copy of the full rule table.
func AllLimits() map[Platform]PlatformLimits {
	out := make(map[Platform]PlatformLimits, len(ruleTable))
	for p, limits := range ruleTable {
		out[p] = limits.clone()
	}
	return out
}

// Platforms lists the known platforms in name order.
func Platforms() []Platform {
	out := make([]Platform, 0, len(ruleTable))
	for p := range ruleTable {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// ParsePlatform normalizes a user supplied platform name.
func ParsePlatform(raw string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := ruleTable[p]; !ok {
		return "", UnknownPlatformError{Platform: raw}
	}
	return p, nil
}
