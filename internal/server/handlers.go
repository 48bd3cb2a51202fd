package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chihoangvnn/postpreview/internal/cache"
	"github.com/chihoangvnn/postpreview/internal/logutil"
	"github.com/chihoangvnn/postpreview/internal/preview"
)

type mediaRequest struct {
	Type     string   `json:"type" binding:"required"`
	URL      string   `json:"url"`
	Width    *int     `json:"width,omitempty" binding:"omitempty,gt=0"`
	Height   *int     `json:"height,omitempty" binding:"omitempty,gt=0"`
	Duration *float64 `json:"duration,omitempty" binding:"omitempty,gte=0"`
}

type generateRequest struct {
	Text     *string        `json:"text" binding:"required"`
	Media    []mediaRequest `json:"media" binding:"omitempty,dive"`
	Platform string         `json:"platform" binding:"required"`
}

type multiPlatformRequest struct {
	Text  *string        `json:"text" binding:"required"`
	Media []mediaRequest `json:"media" binding:"omitempty,dive"`
}

func toAssets(in []mediaRequest) []preview.MediaAsset {
	out := make([]preview.MediaAsset, 0, len(in))
	for _, m := range in {
		out = append(out, preview.MediaAsset{
			Type:     preview.MediaType(m.Type),
			URL:      m.URL,
			Width:    m.Width,
			Height:   m.Height,
			Duration: m.Duration,
		})
	}
	return out
}

func badRequest(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   message,
		"details": err.Error(),
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"service":   "postpreview",
	})
}

func (s *Server) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	platform, err := preview.ParsePlatform(req.Platform)
	if err != nil {
		badRequest(c, "Invalid platform", err)
		return
	}

	res, err := s.previews.GeneratePreview(preview.Options{
		Text:     *req.Text,
		Media:    toAssets(req.Media),
		Platform: platform,
	})
	if err != nil {
		badRequest(c, "Invalid request", err)
		return
	}
	s.metrics.ObservePreview(res)

	c.JSON(http.StatusOK, gin.H{"success": true, "preview": res})
}

func (s *Server) multiPlatform(c *gin.Context) {
	var req multiPlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}
	text, media := *req.Text, toAssets(req.Media)

	key := s.cacheKey(text, media)
	if raw, ok := s.cachedPreviews(c, key); ok {
		c.Header(headerCache, "HIT")
		c.JSON(http.StatusOK, gin.H{"success": true, "previews": json.RawMessage(raw)})
		return
	}

	previews, err := s.previews.GenerateMultiPlatformPreview(text, media)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate previews"})
		return
	}
	for _, res := range previews {
		s.metrics.ObservePreview(res)
	}
	s.storePreviews(c, key, previews)

	if key != "" {
		c.Header(headerCache, "MISS")
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "previews": previews})
}

func (s *Server) allLimits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "limits": preview.AllLimits()})
}

func (s *Server) platformLimits(c *gin.Context) {
	platform, err := preview.ParsePlatform(c.Param("platform"))
	if err != nil {
		badRequest(c, "Invalid platform", err)
		return
	}

	limits, err := preview.Limits(platform)
	if err != nil {
		badRequest(c, "Invalid platform", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "platform": platform, "limits": limits})
}

// cacheKey is empty when caching is disabled.
func (s *Server) cacheKey(text string, media []preview.MediaAsset) string {
	if s.opts.Cache == nil {
		return ""
	}
	key, err := cache.Key("multi", struct {
		Text  string               `json:"text"`
		Media []preview.MediaAsset `json:"media"`
	}{text, media})
	if err != nil {
		logutil.Warn("cache key", "err", err)
		return ""
	}
	return key
}

func (s *Server) cachedPreviews(c *gin.Context, key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}
	raw, ok, err := s.opts.Cache.Get(c.Request.Context(), key)
	switch {
	case err != nil:
		s.metrics.ObserveCache("error")
		logutil.Warn("cache get", "key", key, "err", err)
		return nil, false
	case !ok:
		s.metrics.ObserveCache("miss")
		return nil, false
	}
	s.metrics.ObserveCache("hit")
	return raw, true
}

func (s *Server) storePreviews(c *gin.Context, key string, previews map[preview.Platform]preview.Result) {
	if key == "" {
		return
	}
	raw, err := json.Marshal(previews)
	if err != nil {
		logutil.Warn("cache encode", "err", err)
		return
	}
	if err := s.opts.Cache.Set(c.Request.Context(), key, raw, s.opts.CacheTTL); err != nil {
		s.metrics.ObserveCache("error")
		logutil.Warn("cache set", "key", key, "err", err)
	}
}
