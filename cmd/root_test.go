package cmd

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chihoangvnn/postpreview/internal/auth"
	"github.com/chihoangvnn/postpreview/internal/config"
	"github.com/chihoangvnn/postpreview/internal/metrics"
	"github.com/chihoangvnn/postpreview/internal/preview"
	"github.com/chihoangvnn/postpreview/internal/server"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPreviewJSONSinglePlatform(t *testing.T) {
	out, err := run(t, "", "preview", "Launch day #new @shop", "--platform", "Instagram", "--json")
	require.NoError(t, err)

	var res preview.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, preview.Instagram, res.Platform)
	assert.Equal(t, "Launch day @shop\n\n#new", res.Text.Formatted)
	assert.Equal(t, []string{"@shop"}, res.Text.Mentions)
	assert.True(t, res.Validation.IsValid)
}

func TestPreviewReadsStdin(t *testing.T) {
	out, err := run(t, "hello from a pipe\n", "preview", "--json")
	require.NoError(t, err)

	var results map[preview.Platform]preview.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)
	assert.Equal(t, "hello from a pipe", results[preview.Facebook].Text.Original)
}

func TestPreviewInvalidContent(t *testing.T) {
	out, err := run(t, "", "preview", "hi", "--platform", "tiktok", "--media", "gif,https://cdn.example.com/a.gif")
	require.ErrorIs(t, err, ErrInvalidContent)
	assert.Contains(t, out, "== TikTok ==")
	assert.Contains(t, out, "invalid")
	assert.Contains(t, out, "error: Media item 1: gif is not supported on TikTok")
}

func TestPreviewHumanOutput(t *testing.T) {
	out, err := run(t, "", "preview", "--text", "clip time", "-p", "instagram", "-p", "facebook",
		"--media", "video,https://cdn.example.com/v.mp4,1080x1080,90s")
	require.NoError(t, err)

	assert.Less(t, strings.Index(out, "== Instagram =="), strings.Index(out, "== Facebook =="))
	assert.Contains(t, out, "9/2200 chars, 0 hashtags, 0 mentions, 1 media")
	assert.Contains(t, out, "warning: Video 1: Duration 90s exceeds Instagram feed limit of 60s")
	assert.NotContains(t, out, "\x1b[")
}

func TestPreviewRejectsBadInput(t *testing.T) {
	_, err := run(t, "", "preview", "hi", "--platform", "myspace")
	var unknown preview.UnknownPlatformError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "myspace", unknown.Platform)

	_, err = run(t, "", "preview", "hi", "--media", "video")
	var spec preview.MediaSpecError
	require.ErrorAs(t, err, &spec)

	_, err = run(t, "", "preview")
	require.EqualError(t, err, "text or media is required")

	_, err = run(t, "", "preview", "one", "--text", "two")
	require.Error(t, err)
}

func TestNormalizePlatforms(t *testing.T) {
	got, err := normalizePlatforms(nil)
	require.NoError(t, err)
	assert.Equal(t, preview.Platforms(), got)

	got, err = normalizePlatforms([]string{"tiktok", "ALL"})
	require.NoError(t, err)
	assert.Equal(t, preview.Platforms(), got)

	got, err = normalizePlatforms([]string{" TikTok", "facebook", "tiktok"})
	require.NoError(t, err)
	assert.Equal(t, []preview.Platform{preview.TikTok, preview.Facebook}, got)

	_, err = normalizePlatforms([]string{" ", ""})
	assert.EqualError(t, err, "no platforms selected")
}

func TestPreviewRemote(t *testing.T) {
	gin.SetMode(gin.TestMode)

	v, err := auth.NewVerifier([]byte("remote-secret"))
	require.NoError(t, err)
	token, err := v.Issue("cli", time.Hour)
	require.NoError(t, err)

	ts := httptest.NewServer(server.New(server.Options{Verifier: v, Metrics: metrics.New()}).Handler())
	t.Cleanup(ts.Close)

	out, err := run(t, "", "preview", "remote #post", "--platform", "facebook", "--server", ts.URL, "--token", token, "--json")
	require.NoError(t, err)

	var res preview.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	want, err := preview.GeneratePreview(preview.Options{Text: "remote #post", Platform: preview.Facebook})
	require.NoError(t, err)
	assert.Equal(t, want, res)

	_, err = run(t, "", "limits", "--server", ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestLimitsTable(t *testing.T) {
	out, err := run(t, "", "limits")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "PLATFORM"))
	assert.Contains(t, out, "0.5-1 (0.5625)")
	assert.Contains(t, out, "14400s feed")
}

func TestLimitsJSON(t *testing.T) {
	out, err := run(t, "", "limits", "tiktok", "--json")
	require.NoError(t, err)

	var l preview.PlatformLimits
	require.NoError(t, json.Unmarshal([]byte(out), &l))
	assert.Equal(t, "TikTok", l.Name)
	assert.Equal(t, 35, l.MaxMediaCount)

	_, err = run(t, "", "limits", "myspace")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv(config.EnvName("auth.jwt_secret"), "cli-secret")

	out, err := run(t, "", "token", "--user", "alice", "--ttl", "1h")
	require.NoError(t, err)

	v, err := auth.NewVerifier([]byte("cli-secret"))
	require.NoError(t, err)
	claims, err := v.Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserID)
}

func TestTokenCommandRequiresSecret(t *testing.T) {
	t.Setenv(config.EnvName("auth.jwt_secret"), "")

	_, err := run(t, "", "token", "--user", "alice")
	var missing config.MissingEnvError
	require.ErrorAs(t, err, &missing)

	_, err = run(t, "", "token")
	assert.EqualError(t, err, "--user is required")
}

func TestCompletion(t *testing.T) {
	out, err := run(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "postpreview")

	_, err = run(t, "", "completion", "tcsh")
	assert.Error(t, err)
}

func TestServeRejectsMissingSecret(t *testing.T) {
	t.Setenv(config.EnvName("auth.jwt_secret"), "")
	t.Setenv(config.EnvName("auth.disabled"), "false")

	_, err := run(t, "", "serve")
	var missing config.MissingEnvError
	require.ErrorAs(t, err, &missing)
}

func TestSetGinMode(t *testing.T) {
	assert.NoError(t, setGinMode(gin.TestMode))
	assert.Error(t, setGinMode("loud"))
}
