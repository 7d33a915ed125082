package folio

import (
	"net/url"
	"path"
	"strings"

	"github.com/eringen/folio/content"
)

// BuildURL joins a base URL with path segments. The result has no trailing
// slash unless base is returned unchanged.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	if len(pathSegments) == 0 {
		return strings.TrimRight(u.String(), "/")
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	return u.String()
}

// FilterByTag returns articles carrying tag, compared case-insensitively.
// An empty tag returns articles unchanged.
func FilterByTag(articles []content.Article, tag string) []content.Article {
	want := normalizeTag(tag)
	if want == "" {
		return articles
	}
	var filtered []content.Article
	for _, a := range articles {
		for _, t := range a.Tags {
			if normalizeTag(t) == want {
				filtered = append(filtered, a)
				break
			}
		}
	}
	return filtered
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
