// Package media talks to the hosted image service: uploads, best-effort
// deletes, and mapping delivery URLs back to object identifiers.
package media

import (
	"context"
	"io"
	"path"
	"regexp"
	"strings"
)

// Host is the subset of the media service the API depends on.
type Host interface {
	// Upload stores the content and returns its public delivery URL.
	Upload(ctx context.Context, r io.Reader, filename string) (string, error)
	// Destroy removes one object. result is the host's verbatim outcome
	// ("ok", "not found", ...).
	Destroy(ctx context.Context, publicID string) (result string, err error)
}

const uploadMarker = "/upload/"

var versionSegment = regexp.MustCompile(`^v[0-9]+$`)

// PublicIDFromURL derives the object identifier from a delivery URL such as
// https://res.cloudinary.com/<cloud>/image/upload/c_fill,w_200/v1712/buymesho/abc.jpg
// which yields "buymesho/abc". ok is false when the URL does not look like a
// delivery URL.
func PublicIDFromURL(rawURL string) (string, bool) {
	idx := strings.Index(rawURL, uploadMarker)
	if idx < 0 {
		return "", false
	}

	rest := rawURL[idx+len(uploadMarker):]
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}

	segments := strings.Split(rest, "/")
	for len(segments) > 0 && strings.Contains(segments[0], ",") {
		segments = segments[1:]
	}
	if len(segments) > 0 && versionSegment.MatchString(segments[0]) {
		segments = segments[1:]
	}
	if len(segments) == 0 {
		return "", false
	}

	last := len(segments) - 1
	segments[last] = strings.TrimSuffix(segments[last], path.Ext(segments[last]))

	id := strings.Join(segments, "/")
	if id == "" || strings.HasSuffix(id, "/") {
		return "", false
	}
	return id, true
}

// PublicIDs maps urls to identifiers, dropping empty and unparseable URLs and
// duplicates at both the URL and identifier level. First-seen order is kept.
func PublicIDs(urls []string) []string {
	seenURL := make(map[string]struct{}, len(urls))
	seenID := make(map[string]struct{}, len(urls))
	ids := make([]string, 0, len(urls))

	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, dup := seenURL[u]; dup {
			continue
		}
		seenURL[u] = struct{}{}

		id, ok := PublicIDFromURL(u)
		if !ok {
			continue
		}
		if _, dup := seenID[id]; dup {
			continue
		}
		seenID[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}
