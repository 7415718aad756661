package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/oshokin/vsc-portable/internal/logger"
	"github.com/oshokin/vsc-portable/internal/platform"
	"github.com/oshokin/vsc-portable/internal/version"
)

// ErrDownloadFailed is returned when the archive cannot be retrieved.
var ErrDownloadFailed = errors.New("download failed")

// DownloadError reports a non-success HTTP status of the archive request.
type DownloadError struct {
	// URL is the requested address.
	URL string
	// StatusCode is the HTTP status code of the response.
	StatusCode int
}

// Error implements error.
func (e *DownloadError) Error() string {
	return fmt.Sprintf("%s: %s: unexpected status %d %s",
		ErrDownloadFailed, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is makes errors.Is(err, ErrDownloadFailed) hold for status failures.
func (e *DownloadError) Is(target error) bool {
	return target == ErrDownloadFailed
}

const progressBarWidth = 60

// Fetcher downloads and extracts the release archive of one platform.
type Fetcher struct {
	// client performs the GET request.
	client *http.Client
	// baseURL is the scheme and host of the update service.
	baseURL string
	// descriptor selects the URL segment and archive compression.
	descriptor platform.Descriptor
	// progressOutput receives the progress bar; nil disables rendering.
	progressOutput io.Writer
	// userAgent is sent with the request.
	userAgent string
}

// Option configures the fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithProgressOutput sets where the progress bar is drawn; nil disables it.
func WithProgressOutput(w io.Writer) Option {
	return func(f *Fetcher) {
		f.progressOutput = w
	}
}

// New creates a fetcher for the update service at baseURL.
func New(baseURL string, descriptor platform.Descriptor, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:         NewHTTPClient(0),
		baseURL:        baseURL,
		descriptor:     descriptor,
		progressOutput: os.Stderr,
		userAgent:      version.UserAgent(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// NewHTTPClient returns a client that waits at most headerTimeout for response headers.
// The body has no deadline, so large archives are not cut off.
func NewHTTPClient(headerTimeout time.Duration) *http.Client {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return &http.Client{}
	}

	transport = transport.Clone()
	if headerTimeout > 0 {
		transport.ResponseHeaderTimeout = headerTimeout
	}

	return &http.Client{Transport: transport}
}

// DownloadURL substitutes version verbatim into the download URL template.
func DownloadURL(baseURL, version string, descriptor platform.Descriptor) string {
	return strings.TrimRight(baseURL, "/") + "/" + version + "/" + descriptor.URLSegment + "/stable"
}

// URL returns the download address of version.
func (f *Fetcher) URL(version string) string {
	return DownloadURL(f.baseURL, version, f.descriptor)
}

// Fetch downloads version and extracts it into destination.
// The request returns as soon as headers arrive and the body is extracted while it streams.
func (f *Fetcher) Fetch(ctx context.Context, version, destination string) error {
	archiveURL := f.URL(version)
	ctx = logger.WithKV(ctx, "url", archiveURL)

	logger.Info(ctx, "Downloading release archive")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	response, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDownloadFailed, archiveURL, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return &DownloadError{
			URL:        archiveURL,
			StatusCode: response.StatusCode,
		}
	}

	logger.DebugKV(ctx, "Response headers received",
		"content_length", response.ContentLength,
		"content_type", response.Header.Get("Content-Type"))

	body, finish := f.trackProgress(ctx, response)

	err = Extract(body, destination, f.descriptor.Compression)
	finish(err == nil)

	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Release archive extracted", "destination", destination)

	return nil
}

// trackProgress wraps the response body with a byte counter bar.
// The returned function completes or aborts the bar and waits for the last render.
func (f *Fetcher) trackProgress(ctx context.Context, response *http.Response) (io.Reader, func(ok bool)) {
	if f.progressOutput == nil {
		return response.Body, func(bool) {}
	}

	total := max(response.ContentLength, 0)

	progress := mpb.NewWithContext(ctx,
		mpb.WithWidth(progressBarWidth),
		mpb.WithOutput(f.progressOutput),
	)

	bar := progress.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(f.descriptor.AppFolder, decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.CountersKibiByte("% .1f / % .1f"),
			decor.Percentage(decor.WC{W: 5}),
		),
	)

	return bar.ProxyReader(response.Body), func(ok bool) {
		if ok {
			bar.SetTotal(-1, true)
		} else {
			bar.Abort(false)
		}

		progress.Wait()
	}
}
