package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func image(w, h int) MediaAsset {
	return MediaAsset{Type: MediaImage, URL: "https://cdn.example/i.jpg", Width: intPtr(w), Height: intPtr(h)}
}

func video(seconds float64) MediaAsset {
	return MediaAsset{Type: MediaVideo, URL: "https://cdn.example/v.mp4", Duration: floatPtr(seconds)}
}

func mustLimits(t *testing.T, p Platform) PlatformLimits {
	t.Helper()
	limits, err := Limits(p)
	require.NoError(t, err)
	return limits
}

func TestValidateMedia(t *testing.T) {
	t.Parallel()

	forty := make([]MediaAsset, 40)
	for i := range forty {
		forty[i] = MediaAsset{Type: MediaImage, URL: "https://cdn.example/i.jpg"}
	}

	tests := []struct {
		name     string
		platform Platform
		media    []MediaAsset
		errors   []string
		warnings []string
	}{
		{
			name:     "no media",
			platform: Facebook,
		},
		{
			name:     "too many items",
			platform: TikTok,
			media:    forty,
			errors:   []string{"Too many media items (40). Maximum is 35."},
		},
		{
			name:     "unsupported type without dimensions",
			platform: Instagram,
			media:    []MediaAsset{{Type: "audio", URL: "https://cdn.example/a.mp3"}},
			errors:   []string{"Media item 1: audio is not supported on Instagram"},
		},
		{
			name:     "missing type",
			platform: Facebook,
			media:    []MediaAsset{{URL: "https://cdn.example/x"}},
			errors:   []string{"Media item 1: media without a type is not supported on Facebook"},
		},
		{
			name:     "ratio below minimum",
			platform: Facebook,
			media:    []MediaAsset{image(1000, 2000)},
			warnings: []string{"Media item 1: Aspect ratio 0.50 is below recommended minimum 0.8 for Facebook"},
		},
		{
			name:     "ratio above maximum and far from optimal",
			platform: Instagram,
			media:    []MediaAsset{image(1000, 1000), image(3000, 1000)},
			warnings: []string{
				"Media item 2: Aspect ratio 3.00 is above recommended maximum 1.91 for Instagram",
				"Media item 2: Aspect ratio 3.00 differs from optimal 1 for Instagram",
			},
		},
		{
			name:     "inside band but far from optimal",
			platform: TikTok,
			media:    []MediaAsset{image(1000, 1000)},
			warnings: []string{"Media item 1: Aspect ratio 1.00 differs from optimal 0.5625 for TikTok"},
		},
		{
			name:     "dimensions unknown",
			platform: Facebook,
			media:    []MediaAsset{{Type: MediaImage, URL: "x", Width: intPtr(100)}},
		},
		{
			name:     "video over feed limit",
			platform: Instagram,
			media:    []MediaAsset{video(90)},
			warnings: []string{"Video 1: Duration 90s exceeds Instagram feed limit of 60s"},
		},
		{
			name:     "video within limit",
			platform: Instagram,
			media:    []MediaAsset{video(59.5)},
		},
		{
			name:     "video over short-form limit",
			platform: TikTok,
			media:    []MediaAsset{image(1080, 1920), video(900.5)},
			warnings: []string{"Video 2: Duration 900.5s exceeds TikTok short-form limit of 600s"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			report := ValidateMedia(tt.media, mustLimits(t, tt.platform))
			assert.Equal(t, nonNil(tt.errors), report.Errors)
			assert.Equal(t, nonNil(tt.warnings), report.Warnings)
		})
	}
}

func TestValidateMediaDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	media := []MediaAsset{image(1000, 2000), video(90)}
	before := []MediaAsset{image(1000, 2000), video(90)}

	ValidateMedia(media, mustLimits(t, Instagram))
	assert.Equal(t, before, media)
}

func TestParseMediaSpec(t *testing.T) {
	t.Parallel()

	asset, err := ParseMediaSpec("Video, https://cdn.example/v.mp4, 1080x1920, 90s")
	require.NoError(t, err)
	assert.Equal(t, MediaVideo, asset.Type)
	assert.Equal(t, "https://cdn.example/v.mp4", asset.URL)
	require.NotNil(t, asset.Width)
	require.NotNil(t, asset.Height)
	require.NotNil(t, asset.Duration)
	assert.Equal(t, 1080, *asset.Width)
	assert.Equal(t, 1920, *asset.Height)
	assert.InDelta(t, 90.0, *asset.Duration, 0.0001)

	asset, err = ParseMediaSpec("image,https://cdn.example/i.png")
	require.NoError(t, err)
	assert.Nil(t, asset.Width)
	assert.Nil(t, asset.Duration)

	for _, bad := range []string{"", "image", "image,", "image,u,10x", "image,u,abc", "video,u,-3s"} {
		_, err := ParseMediaSpec(bad)
		var specErr MediaSpecError
		assert.ErrorAs(t, err, &specErr, "spec %q", bad)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
