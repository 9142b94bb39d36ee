package crawl

import (
	"context"
	"io"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	DefaultListURL = "http://stuffgate.com/stuff/website/top-2000-sites"
	DefaultDestDir = "Web"

	captureSuffix = ".pcap"
	siteLinkCell  = 1
)

func findFirst(node *html.Node, tag atom.Atom) *html.Node {
	if node.Type == html.ElementNode && node.DataAtom == tag {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findFirst(child, tag); found != nil {
			return found
		}
	}

	return nil
}

func childElements(node *html.Node, tag atom.Atom) []*html.Node {
	ret := []*html.Node{}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.DataAtom == tag {
			ret = append(ret, child)
		}
	}

	return ret
}

func getAttr(node *html.Node, key string) (string, bool) {
	for _, attr := range node.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}

	return "", false
}

// ParseTopSites returns the link in the second cell of every row of the first table body.
// Rows without such a link are skipped.
func ParseTopSites(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	tbody := findFirst(doc, atom.Tbody)
	if tbody == nil {
		return nil, errors.New("no table body in top-sites page")
	}

	ret := []string{}
	for _, tr := range childElements(tbody, atom.Tr) {
		cells := childElements(tr, atom.Td)
		if len(cells) <= siteLinkCell {
			continue
		}
		anchor := findFirst(cells[siteLinkCell], atom.A)
		if anchor == nil {
			continue
		}
		if href, ok := getAttr(anchor, "href"); ok && href != "" {
			ret = append(ret, href)
		}
	}

	return ret, nil
}

// CaptureName maps a site link to its capture file: "http://example.com/" becomes
// "<destDir>/example.com.pcap". The path is cleaned under the host, and links whose file would
// land outside destDir are rejected.
func CaptureName(destDir string, href string) (string, error) {
	u, err := url.Parse(href)
	if err == nil && u.Scheme == "" && u.Host == "" {
		// bare "example.com/..." links
		u, err = url.Parse("//" + href)
	}
	if err != nil {
		return "", errors.Wrapf(err, "bad site link %q", href)
	}
	if u.Host == "" || u.Host == "." || u.Host == ".." {
		return "", errors.Errorf("bad site link %q: no usable host", href)
	}

	name := strings.TrimRight(u.Host+path.Clean("/"+u.Path), "/")
	dest := filepath.Join(destDir, filepath.FromSlash(name)+captureSuffix)

	rel, err := filepath.Rel(destDir, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("bad site link %q: capture would be saved outside %s", href, destDir)
	}

	return dest, nil
}

type CrawlStats struct {
	NSites    int
	NSaved    int
	NFailed   int
	SavedSize int64
}

// Crawl fetches the top-sites list and saves every listed site under destDir, one at a time.
// A site that cannot be fetched is logged and skipped.
func (f *Fetcher) Crawl(ctx context.Context, printer *log.Logger, listURL string, destDir string) (*CrawlStats, error) {
	resp, err := f.get(ctx, listURL)
	if err != nil {
		return nil, errors.Wrapf(err, "could not fetch %s", listURL)
	}
	hrefs, err := ParseTopSites(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %s", listURL)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, err
	}

	ret := &CrawlStats{NSites: len(hrefs)}
	for _, href := range hrefs {
		if err := ctx.Err(); err != nil {
			return ret, err
		}

		dest, err := CaptureName(destDir, href)
		if err != nil {
			logger.Printf("%v\n", err)
			ret.NFailed += 1
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return ret, err
		}

		savedSize, err := f.Retrieve(ctx, href, dest)
		if err != nil {
			logger.Printf("%v\n", err)
			ret.NFailed += 1
			continue
		}

		printer.Printf("%s: %d bytes\n", dest, savedSize)
		ret.NSaved += 1
		ret.SavedSize += savedSize
	}

	return ret, nil
}
