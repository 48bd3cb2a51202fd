package preview

import (
	"fmt"
	"strings"
)

// UnknownPlatformError is returned when a platform has no row in the rule table.
type UnknownPlatformError struct {
	Platform string
}

func (e UnknownPlatformError) Error() string {
	if strings.TrimSpace(e.Platform) == "" {
		return fmt.Sprintf("platform is required (expected one of %s)", knownPlatformList())
	}
	return fmt.Sprintf("unsupported platform %q (expected one of %s)", e.Platform, knownPlatformList())
}

// MediaSpecError captures a media descriptor that cannot be parsed.
type MediaSpecError struct {
	Spec   string
	Reason string
}

func (e MediaSpecError) Error() string {
	return fmt.Sprintf("invalid media %q: %s", e.Spec, e.Reason)
}

func knownPlatformList() string {
	names := make([]string, 0, len(ruleTable))
	for _, p := range Platforms() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
