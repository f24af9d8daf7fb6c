package manifest

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/oakwood-commons/termsite/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultFetchLimit bounds concurrent content fetches.
const DefaultFetchLimit = 8

// Fetcher retrieves a referenced text resource.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (string, error)
}

// FSFetcher reads references from a filesystem. A leading "/" is ignored so
// site-absolute references resolve against the filesystem root.
type FSFetcher struct {
	FS fs.FS
}

// Fetch implements Fetcher.
func (f FSFetcher) Fetch(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := path.Clean(strings.TrimPrefix(ref, "/"))
	data, err := fs.ReadFile(f.FS, name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", ref, err)
	}
	return string(data), nil
}

// HTTPFetcher fetches references relative to Base.
type HTTPFetcher struct {
	Client *http.Client
	Base   *url.URL
	// CacheBust, when non-empty, is sent as the "v" query parameter.
	CacheBust string
}

// Fetch implements Fetcher.
func (f HTTPFetcher) Fetch(ctx context.Context, ref string) (string, error) {
	target, err := f.resolve(ref)
	if err != nil {
		return "", err
	}
	body, err := f.get(ctx, target)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (f HTTPFetcher) resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("parse reference %q: %w", ref, err)
	}
	if f.Base != nil {
		u = f.Base.ResolveReference(u)
	}
	if f.CacheBust != "" {
		q := u.Query()
		q.Set("v", f.CacheBust)
		u.RawQuery = q.Encode()
	}
	return u, nil
}

func (f HTTPFetcher) get(ctx context.Context, u *url.URL) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", u.Redacted(), resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// LoadOption customises Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	client    *http.Client
	limit     int
	cacheBust string
}

// WithHTTPClient sets the client used for URL manifests.
func WithHTTPClient(c *http.Client) LoadOption {
	return func(o *loadOptions) { o.client = c }
}

// WithFetchLimit bounds how many references are fetched at once.
func WithFetchLimit(n int) LoadOption {
	return func(o *loadOptions) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithCacheBust overrides the cache-busting token sent with HTTP fetches.
func WithCacheBust(token string) LoadOption {
	return func(o *loadOptions) { o.cacheBust = token }
}

// IsURL reports whether a manifest source should be fetched over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load reads the manifest at source (a file path or an http(s) URL), builds
// the tree and resolves every content and help reference before returning.
func Load(ctx context.Context, source string, opts ...LoadOption) (*Tree, error) {
	o := loadOptions{
		limit:     DefaultFetchLimit,
		cacheBust: strconv.FormatInt(time.Now().UnixMilli(), 10),
	}
	for _, opt := range opts {
		opt(&o)
	}
	lgr := logger.FromContext(ctx)

	var (
		data    []byte
		fetcher Fetcher
	)
	if IsURL(source) {
		base, err := url.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("parse manifest url: %w", err)
		}
		// References are site-relative, so they resolve against the manifest's
		// origin rather than its directory.
		origin := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}
		hf := HTTPFetcher{Client: o.client, Base: origin, CacheBust: o.cacheBust}
		manifestURL, err := HTTPFetcher{CacheBust: o.cacheBust}.resolve(source)
		if err != nil {
			return nil, err
		}
		data, err = hf.get(ctx, manifestURL)
		if err != nil {
			return nil, fmt.Errorf("load manifest: %w", err)
		}
		fetcher = hf
	} else {
		var err error
		data, err = os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("load manifest: %w", err)
		}
		fetcher = FSFetcher{FS: os.DirFS(filepath.Dir(source))}
	}
	lgr.V(1).Info("manifest fetched", logger.ManifestKey, source, "bytes", len(data))
	return parse(ctx, data, fetcher, o.limit)
}

// Parse decodes manifest bytes and resolves references through fetcher. A
// nil fetcher is allowed for inline documents.
func Parse(ctx context.Context, data []byte, fetcher Fetcher) (*Tree, error) {
	return parse(ctx, data, fetcher, DefaultFetchLimit)
}

func parse(ctx context.Context, data []byte, fetcher Fetcher, limit int) (*Tree, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	tree, err := NewTree(doc)
	if err != nil {
		return nil, err
	}
	if err := resolve(ctx, tree, fetcher, limit); err != nil {
		return nil, err
	}
	return tree, nil
}

// Resolve fills in lazily referenced content and help text. Structure is
// already complete; only text fields change.
func Resolve(ctx context.Context, tree *Tree, fetcher Fetcher) error {
	return resolve(ctx, tree, fetcher, DefaultFetchLimit)
}

func resolve(ctx context.Context, tree *Tree, fetcher Fetcher, limit int) error {
	type job struct {
		ref string
		set func(string)
	}
	var jobs []job
	tree.Walk(func(n *Node) {
		if n.contentRef != "" {
			jobs = append(jobs, job{ref: n.contentRef, set: func(s string) { n.Content = s }})
		}
		for _, e := range n.executables {
			if e.helpRef != "" {
				jobs = append(jobs, job{ref: e.helpRef, set: func(s string) { e.Help = s }})
			}
		}
	})
	if len(jobs) == 0 {
		return nil
	}
	if fetcher == nil {
		return fmt.Errorf("manifest references %d resources but no fetcher is configured", len(jobs))
	}

	lgr := logger.FromContext(ctx)
	lgr.V(1).Info("resolving manifest references", "count", len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	results := make([]string, len(jobs))
	for i, j := range jobs {
		g.Go(func() error {
			text, err := fetcher.Fetch(gctx, j.ref)
			if err != nil {
				return err
			}
			results[i] = strings.TrimRightFunc(text, unicode.IsSpace)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("resolve manifest content: %w", err)
	}
	// Assign after Wait so the tree is only written from this goroutine.
	for i, j := range jobs {
		j.set(results[i])
	}
	return nil
}
