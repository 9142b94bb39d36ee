package crawl

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const wwwPrefix = "www."

type Fetcher struct {
	Client *http.Client
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	return f.Client.Do(req)
}

// withWWW inserts "www." in front of the host of rawURL. It reports false when the host already
// has the prefix or the URL has no host.
func withWWW(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	if strings.HasPrefix(strings.ToLower(u.Host), wwwPrefix) {
		return "", false
	}

	u.Host = wwwPrefix + u.Host
	return u.String(), true
}

// saveHTTPResponse streams the body next to dest and renames it into place, so a failed copy
// leaves nothing at dest.
func saveHTTPResponse(resp *http.Response, dest string) (int64, error) {
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".capture-*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()

	savedSize, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpName, dest)
	}
	if err != nil {
		os.Remove(tmpName)
		return 0, err
	}

	return savedSize, nil
}

// Retrieve saves the body at rawURL to dest, whatever the status code. If the request fails in
// transport, it is retried once with "www." inserted in the host.
func (f *Fetcher) Retrieve(ctx context.Context, rawURL string, dest string) (int64, error) {
	resp, err := f.get(ctx, rawURL)
	if err != nil {
		wwwURL, ok := withWWW(rawURL)
		if !ok {
			return 0, errors.Wrapf(err, "could not fetch %s", rawURL)
		}

		logger.Printf("Retrying %s as %s: %v\n", rawURL, wwwURL, err)
		resp, err = f.get(ctx, wwwURL)
		if err != nil {
			return 0, errors.Wrapf(err, "could not fetch %s", wwwURL)
		}
	}

	savedSize, err := saveHTTPResponse(resp, dest)
	if err != nil {
		return 0, errors.Wrapf(err, "could not save %s", dest)
	}

	return savedSize, nil
}
