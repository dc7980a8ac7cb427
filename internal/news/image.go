package news

import (
	"regexp"
	"strings"
)

const PlaceholderImageURL = "https://images.unsplash.com/photo-1557992260-ec58e38d363c?w=800&q=80"

var (
	driveFilePattern = regexp.MustCompile(`drive\.google\.com/file/d/([^/?#]+)`)
	driveOpenPattern = regexp.MustCompile(`drive\.google\.com/open\?id=([^&#]+)`)
)

// DirectImageURL turns an image reference into something a browser can render:
// empty values become the placeholder, Google Drive share links become direct
// view links and relative paths are resolved against baseURL.
func DirectImageURL(raw, baseURL string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PlaceholderImageURL
	}

	for _, pattern := range []*regexp.Regexp{driveFilePattern, driveOpenPattern} {
		if m := pattern.FindStringSubmatch(raw); len(m) == 2 && m[1] != "" {
			return "https://drive.google.com/uc?export=view&id=" + m[1]
		}
	}

	if !strings.HasPrefix(raw, "http") {
		return joinURL(baseURL, raw)
	}

	return raw
}

func joinURL(base, path string) string {
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
