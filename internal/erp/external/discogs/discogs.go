// Package discogs is a minimal client for the Discogs database API: release
// lookup by id and release search by barcode. Release lookups are cached.
package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/OolalaDXB/outrenational/pkg/cachex"
	"github.com/OolalaDXB/outrenational/pkg/metricsx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

const (
	DefaultBaseURL   = "https://api.discogs.com"
	DefaultUserAgent = "OutrenationalERP/1.0"
	DefaultCacheTTL  = 7 * 24 * time.Hour
)

var (
	ErrReleaseNotFound = errors.New("discogs: release not found")
	ErrUnavailable     = errors.New("discogs: unavailable")
)

type Artist struct {
	Name string `json:"name"`
}

type Label struct {
	Name  string `json:"name"`
	CatNo string `json:"catno"`
}

type Format struct {
	Name         string   `json:"name"`
	Qty          string   `json:"qty"`
	Descriptions []string `json:"descriptions"`
}

type Track struct {
	Position string `json:"position"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

type Release struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Artists   []Artist `json:"artists"`
	Labels    []Label  `json:"labels"`
	Year      int      `json:"year"`
	Formats   []Format `json:"formats"`
	Genres    []string `json:"genres"`
	Styles    []string `json:"styles"`
	Tracklist []Track  `json:"tracklist"`
}

// ArtistName joins the credited artists the way Discogs displays them.
func (r Release) ArtistName() string {
	names := make([]string, 0, len(r.Artists))
	for _, a := range r.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// FormatName is the first format with its descriptions, e.g. "Vinyl, LP, Album".
func (r Release) FormatName() string {
	if len(r.Formats) == 0 {
		return ""
	}
	f := r.Formats[0]
	return strings.Join(append([]string{f.Name}, f.Descriptions...), ", ")
}

// SearchResult is one hit of a database search.
type SearchResult struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Year    string   `json:"year"`
	Label   []string `json:"label"`
	CatNo   string   `json:"catno"`
	Barcode []string `json:"barcode"`
}

type Client struct {
	BaseURL   string
	Token     string
	UserAgent string
	HTTP      *http.Client

	// Cache is optional. Release lookups are stored under discogs:release:{id}.
	Cache    cachex.Cache
	CacheTTL time.Duration
}

func New(baseURL, token, userAgent string, cache cachex.Cache) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Token:     token,
		UserAgent: userAgent,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
		Cache:     cache,
		CacheTTL:  DefaultCacheTTL,
	}
}

func releaseKey(id int64) string {
	return "discogs:release:" + strconv.FormatInt(id, 10)
}

// Release fetches a release by id.
func (c *Client) Release(ctx context.Context, id int64) (Release, error) {
	if c.Cache != nil {
		rel, err := cachex.GetJSON[Release](ctx, c.Cache, releaseKey(id))
		if err == nil {
			metricsx.RecordCacheEvent(ctx, "discogs", true)
			return rel, nil
		}
		metricsx.RecordCacheEvent(ctx, "discogs", false)
	}

	var rel Release
	if err := c.get(ctx, "release", "/releases/"+strconv.FormatInt(id, 10), nil, &rel); err != nil {
		return Release{}, err
	}

	if c.Cache != nil {
		if err := cachex.SetJSON(ctx, c.Cache, releaseKey(id), rel, c.CacheTTL); err != nil {
			slogx.FromContext(ctx).Warn("discogs cache write failed", "release_id", id, "error", err)
		}
	}
	return rel, nil
}

// SearchBarcode returns releases matching a barcode. An empty slice means
// no match.
func (c *Client) SearchBarcode(ctx context.Context, barcode string) ([]SearchResult, error) {
	q := url.Values{}
	q.Set("barcode", barcode)
	q.Set("type", "release")

	var body struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.get(ctx, "search", "/database/search", q, &body); err != nil {
		return nil, err
	}
	if body.Results == nil {
		body.Results = []SearchResult{}
	}
	return body.Results, nil
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, out any) (err error) {
	start := time.Now()
	defer func() {
		if !errors.Is(err, ErrReleaseNotFound) {
			metricsx.RecordExternalCall(ctx, "discogs", op, time.Since(start), err)
		}
	}()

	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/vnd.discogs.v2.discogs+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Discogs token="+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrReleaseNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return nil
}
