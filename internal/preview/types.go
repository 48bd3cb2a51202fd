package preview

// MediaType identifies the kind of a media attachment.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// MediaAsset describes one attachment of a post. Dimensions and duration are
// optional because they are often unknown until the upload is processed.
type MediaAsset struct {
	Type     MediaType `json:"type"`
	URL      string    `json:"url"`
	Width    *int      `json:"width,omitempty"`
	Height   *int      `json:"height,omitempty"`
	Duration *float64  `json:"duration,omitempty"`
}

// Options is the input of a single-platform preview.
type Options struct {
	Text     string       `json:"text"`
	Media    []MediaAsset `json:"media"`
	Platform Platform     `json:"platform"`
}

// TextPreview is the analyzed and formatted post text.
type TextPreview struct {
	Original  string   `json:"original"`
	Formatted string   `json:"formatted"`
	Length    int      `json:"length"`
	Hashtags  []string `json:"hashtags"`
	Mentions  []string `json:"mentions"`
	Truncated bool     `json:"truncated"`
}

// MediaPreview echoes the attachments along with the warnings raised for them.
type MediaPreview struct {
	Assets   []MediaAsset `json:"assets"`
	Warnings []string     `json:"warnings"`
}

// Validation is the verdict for a preview. Errors block publishing, warnings do not.
type Validation struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Result is the preview of a post on one platform.
type Result struct {
	Platform   Platform     `json:"platform"`
	Text       TextPreview  `json:"text"`
	Media      MediaPreview `json:"media"`
	Validation Validation   `json:"validation"`
}
