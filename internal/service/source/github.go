package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/remancodeking/zocopos-launcher/internal/config"
	domain "github.com/remancodeking/zocopos-launcher/internal/domain/release"
	"github.com/remancodeking/zocopos-launcher/internal/logger"
)

const (
	// defaultBaseURL is the GitHub REST API endpoint.
	defaultBaseURL = "https://api.github.com"

	// userAgent identifies the launcher to GitHub.
	userAgent = "ZocoPOS-Launcher/1.0"

	// acceptAPI is the media type for REST API responses.
	acceptAPI = "application/vnd.github.v3+json"

	// acceptBinary is the media type for asset downloads.
	acceptBinary = "application/octet-stream"

	// defaultRetryMax bounds retries for flaky store connections.
	defaultRetryMax = 3
)

// GitHub serves releases from the public GitHub Releases API of a repository.
// No authentication is used; the repository must be public.
type GitHub struct {
	// repo is the "owner/name" repository.
	repo string
	// baseURL is the API endpoint, overridable for tests.
	baseURL string
	// client is the retrying HTTP client used for every request.
	client *retryablehttp.Client
}

// GitHubOption customizes a GitHub source.
type GitHubOption func(*GitHub)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(u string) GitHubOption {
	return func(g *GitHub) {
		g.baseURL = strings.TrimRight(u, "/")
	}
}

// NewGitHub creates a release source backed by the repository's GitHub Releases.
// The timeout bounds every request, downloads included.
func NewGitHub(repo string, timeout time.Duration, opts ...GitHubOption) *GitHub {
	client := retryablehttp.NewClient()
	client.HTTPClient = cleanhttp.DefaultPooledClient()
	client.HTTPClient.Timeout = timeout
	client.RetryMax = defaultRetryMax
	client.Logger = nil

	g := &GitHub{
		repo:    repo,
		baseURL: defaultBaseURL,
		client:  client,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Name implements Source.
func (g *GitHub) Name() string {
	return "github"
}

// githubRelease mirrors the subset of the Releases API response we consume.
type githubRelease struct {
	TagName string        `json:"tag_name"`
	Body    string        `json:"body"`
	Assets  []githubAsset `json:"assets"`
}

// githubAsset mirrors a release asset entry.
type githubAsset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Latest fetches the most recent release, pre-releases included, and locates
// the executable and manifest assets.
func (g *GitHub) Latest(ctx context.Context) (*domain.Release, error) {
	// /releases (not /releases/latest) so pre-releases are visible too.
	listURL := fmt.Sprintf("%s/repos/%s/releases?per_page=1", g.baseURL, g.repo)

	body, err := g.get(ctx, listURL, acceptAPI)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = body.Close()
	}()

	var releases []githubRelease
	if err = json.NewDecoder(body).Decode(&releases); err != nil {
		return nil, fmt.Errorf("decode releases response: %w", err)
	}

	if len(releases) == 0 {
		return nil, fmt.Errorf("%s: %w", g.repo, ErrNoRelease)
	}

	latest := releases[0]
	rel := &domain.Release{
		Version: strings.TrimPrefix(latest.TagName, "v"),
		Notes:   latest.Body,
	}

	var manifestURL string

	for _, asset := range latest.Assets {
		switch {
		case strings.EqualFold(asset.Name, config.AppExecutableName):
			rel.DownloadURL = asset.BrowserDownloadURL
			rel.Size = asset.Size
		case strings.EqualFold(asset.Name, config.ManifestFilename):
			manifestURL = asset.BrowserDownloadURL
		}
	}

	if rel.DownloadURL == "" {
		return nil, fmt.Errorf("release %s has no %s asset: %w",
			latest.TagName, config.AppExecutableName, ErrNoRelease)
	}

	if manifestURL != "" {
		if checksum, checksumErr := g.fetchChecksum(ctx, manifestURL); checksumErr != nil {
			// A missing checksum degrades verification, it does not block the release.
			logger.WarnKV(ctx, "Unable to fetch release checksum", "error", checksumErr)
		} else {
			rel.SHA256 = strings.ToUpper(checksum)
		}
	}

	return rel, nil
}

// fetchChecksum downloads the published version.json and returns its checksum.
func (g *GitHub) fetchChecksum(ctx context.Context, manifestURL string) (string, error) {
	body, err := g.get(ctx, manifestURL, acceptAPI)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = body.Close()
	}()

	var m domain.Manifest
	if err = json.NewDecoder(body).Decode(&m); err != nil {
		return "", fmt.Errorf("decode release manifest: %w", err)
	}

	return m.SHA256, nil
}

// Fetch streams the release executable to the destination path.
func (g *GitHub) Fetch(ctx context.Context, rel *domain.Release, destination string) error {
	body, err := g.get(ctx, rel.DownloadURL, acceptBinary)
	if err != nil {
		return err
	}

	defer func() {
		_ = body.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(destination), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}

	written, err := io.Copy(out, body)
	if err != nil {
		_ = out.Close()

		return fmt.Errorf("download %s: %w", rel.DownloadURL, err)
	}

	if err = out.Close(); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Downloaded release asset",
		"url", rel.DownloadURL, "bytes", written)

	return nil
}

// get performs a GET request and returns the response body on HTTP 200.
func (g *GitHub) get(ctx context.Context, rawURL, accept string) (io.ReadCloser, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrNoRelease)
		}

		return nil, fmt.Errorf("%s: unexpected http status %s", rawURL, resp.Status)
	}

	return resp.Body, nil
}
