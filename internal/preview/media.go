package preview

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// optimalRatioTolerance is how far a ratio may drift from the optimal one before it is flagged.
const optimalRatioTolerance = 0.2

// MediaReport collects the findings of ValidateMedia.
type MediaReport struct {
	Errors   []string
	Warnings []string
}

// ValidateMedia checks attachments against the platform limits. Messages are
// keyed by the 1-based position of the asset in media.
func ValidateMedia(media []MediaAsset, limits PlatformLimits) MediaReport {
	report := MediaReport{
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	if len(media) > limits.MaxMediaCount {
		report.Errors = append(report.Errors, fmt.Sprintf("Too many media items (%d). Maximum is %d.", len(media), limits.MaxMediaCount))
	}

	for idx, asset := range media {
		position := idx + 1

		if !limits.Supports(asset.Type) {
			report.Errors = append(report.Errors, fmt.Sprintf("Media item %d: %s is not supported on %s", position, describeType(asset.Type), limits.Name))
			continue
		}

		report.Warnings = append(report.Warnings, aspectRatioWarnings(position, asset, limits)...)

		if asset.Type == MediaVideo && asset.Duration != nil && *asset.Duration > limits.MaxVideoDuration {
			report.Warnings = append(report.Warnings, fmt.Sprintf("Video %d: Duration %ss exceeds %s %s limit of %ss",
				position, formatNumber(*asset.Duration), limits.Name, limits.VideoDurationLabel, formatNumber(limits.MaxVideoDuration)))
		}
	}

	return report
}

// aspectRatioWarnings skips assets whose dimensions are not known yet.
func aspectRatioWarnings(position int, asset MediaAsset, limits PlatformLimits) []string {
	if asset.Width == nil || asset.Height == nil || *asset.Width <= 0 || *asset.Height <= 0 {
		return nil
	}

	band := limits.RecommendedAspectRatios
	r := float64(*asset.Width) / float64(*asset.Height)

	var warnings []string
	switch {
	case r < band.Min:
		warnings = append(warnings, fmt.Sprintf("Media item %d: Aspect ratio %.2f is below recommended minimum %s for %s",
			position, r, formatNumber(band.Min), limits.Name))
	case r > band.Max:
		warnings = append(warnings, fmt.Sprintf("Media item %d: Aspect ratio %.2f is above recommended maximum %s for %s",
			position, r, formatNumber(band.Max), limits.Name))
	}
	if band.Optimal != nil && math.Abs(r-*band.Optimal) > optimalRatioTolerance {
		warnings = append(warnings, fmt.Sprintf("Media item %d: Aspect ratio %.2f differs from optimal %s for %s",
			position, r, formatNumber(*band.Optimal), limits.Name))
	}
	return warnings
}

func describeType(t MediaType) string {
	if strings.TrimSpace(string(t)) == "" {
		return "media without a type"
	}
	return string(t)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseMediaSpec reads a compact descriptor of the form
// "type,url[,WIDTHxHEIGHT][,SECONDSs]", e.g. "video,https://cdn/x.mp4,1080x1920,90s".
func ParseMediaSpec(spec string) (MediaAsset, error) {
	parts := strings.Split(spec, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return MediaAsset{}, MediaSpecError{Spec: spec, Reason: "expected type,url"}
	}

	asset := MediaAsset{
		Type: MediaType(strings.ToLower(parts[0])),
		URL:  parts[1],
	}

	for _, part := range parts[2:] {
		switch {
		case strings.HasSuffix(part, "s"):
			seconds, err := strconv.ParseFloat(strings.TrimSuffix(part, "s"), 64)
			if err != nil || seconds < 0 {
				return MediaAsset{}, MediaSpecError{Spec: spec, Reason: fmt.Sprintf("bad duration %q", part)}
			}
			asset.Duration = &seconds
		case strings.Contains(part, "x"):
			w, h, ok := strings.Cut(part, "x")
			width, werr := strconv.Atoi(w)
			height, herr := strconv.Atoi(h)
			if !ok || werr != nil || herr != nil || width <= 0 || height <= 0 {
				return MediaAsset{}, MediaSpecError{Spec: spec, Reason: fmt.Sprintf("bad dimensions %q", part)}
			}
			asset.Width, asset.Height = &width, &height
		default:
			return MediaAsset{}, MediaSpecError{Spec: spec, Reason: fmt.Sprintf("unrecognized field %q", part)}
		}
	}

	return asset, nil
}
