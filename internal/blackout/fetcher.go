package blackout

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-calnav/internal/config"
)

// Fetcher opens the body of a remote blackout feed. Loader only needs this
// method, so tests can stand in for the network.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL, user, pass string) (io.ReadCloser, error)
}

// FeedClient downloads iCalendar feeds over HTTP(S), such as a CalDAV
// calendar export or a published holiday calendar.
type FeedClient struct {
	HTTP *http.Client

	// MaxBytes caps how much of a feed is read. Zero means
	// config.MaxHTTPResponseSize.
	MaxBytes int64
}

// NewFeedClient returns a FeedClient with the default timeout and size cap.
func NewFeedClient() *FeedClient {
	return &FeedClient{
		HTTP:     &http.Client{Timeout: config.HTTPTimeout},
		MaxBytes: config.MaxHTTPResponseSize,
	}
}

// Fetch requests feedURL, sending Basic credentials when either user or pass
// is set. Anything but 200 OK is an error. The returned body stops after
// MaxBytes; the decoder sees a truncated calendar rather than the whole
// response.
func (c *FeedClient) Fetch(ctx context.Context, feedURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(feedURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		config.LogKeyComponent, config.CompFetcher,
		config.LogKeyURL, redact(u),
	)
	log.DebugContext(ctx, config.MsgFetchStart)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRequestCreate, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeCalendar)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrNetwork, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchBadStatus, config.LogKeyStatus, resp.StatusCode)
		return nil, fmt.Errorf("%s: %s", config.ErrHTTPStatus, resp.Status)
	}

	// Servers often publish feeds as text/plain or octet-stream; the decoder
	// decides whether the body is a calendar.
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get(config.HeaderContentType)); mt != config.MimeCalendar {
		log.Debug(config.MsgFetchMediaType, config.LogKeyMediaType, mt)
	}
	log.Info(config.MsgFetchDownloading, config.LogKeyLength, resp.ContentLength)

	return feedBody{
		Reader: io.LimitReader(resp.Body, c.maxBytes()),
		Closer: resp.Body,
	}, nil
}

func (c *FeedClient) client() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *FeedClient) maxBytes() int64 {
	if c.MaxBytes <= 0 {
		return config.MaxHTTPResponseSize
	}
	return c.MaxBytes
}

// feedBody reads through the size cap but closes the real response body.
type feedBody struct {
	io.Reader
	io.Closer
}

// redact drops credentials, query and fragment from u for logging; feed URLs
// often carry access tokens in any of them.
func redact(u *url.URL) string {
	clean := url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}
	return clean.String()
}
