package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const maxPageBytes = 2 << 20

var pageClient = &http.Client{Timeout: 15 * time.Second}

// PageText fetches a profile page and returns its visible text. Script and
// style subtrees are dropped; everything else is joined with single spaces.
func PageText(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("invalid url %q", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := pageClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %q: %w", parsed.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %q: http status=%d", parsed.String(), resp.StatusCode)
	}

	root, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", parsed.String(), err)
	}

	var parts []string
	collectText(root, &parts)
	out := strings.Join(parts, " ")
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("no extractable text at %q", parsed.String())
	}
	return out, nil
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}
	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			*parts = append(*parts, text)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
