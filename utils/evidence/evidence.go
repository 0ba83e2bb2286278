// Package evidence stores the before/after screenshots of a submission.
package evidence

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Kinds of evidence attached to a submission.
const (
	KindBefore = "before"
	KindAfter  = "after"
)

// Request describes one evidence item to persist.
type Request struct {
	URL         string
	ContentType string
	GuildID     string
	UserID      string
	Kind        string
	Step        int
	Boss        string
}

// Store persists evidence and returns a reference to it (a path or URL).
type Store interface {
	Save(ctx context.Context, req Request) (string, error)
}

var allowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var contentTypeExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ValidMediaType reports whether a content type is an accepted image type.
// Parameters such as "; charset" are ignored.
func ValidMediaType(contentType string) bool {
	return allowedMediaTypes[baseMediaType(contentType)]
}

func baseMediaType(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// Extension picks the file extension from the URL path, then the content
// type, and defaults to .jpg.
func Extension(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		ext := strings.ToLower(path.Ext(u.Path))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".gif", ".webp":
			return ext
		}
	}
	if ext, ok := contentTypeExt[baseMediaType(contentType)]; ok {
		return ext
	}
	return ".jpg"
}

// Dir is the relative directory of an evidence item.
func Dir(req Request) string {
	kind := req.Kind
	if kind != KindBefore && kind != KindAfter {
		kind = "other"
	}
	return path.Join("guild_"+req.GuildID, "user_"+req.UserID, kind)
}

// ObjectName builds step_<n>_<boss>_<yyyymmdd_hhmmss>_<id8><ext>.
func ObjectName(req Request, at time.Time, id uuid.UUID) string {
	var b strings.Builder
	fmt.Fprintf(&b, "step_%d_", req.Step)
	if s := slug.Make(req.Boss); s != "" {
		b.WriteString(s)
		b.WriteByte('_')
	}
	b.WriteString(at.UTC().Format("20060102_150405"))
	b.WriteByte('_')
	b.WriteString(id.String()[:8])
	b.WriteString(Extension(req.URL, req.ContentType))
	return b.String()
}
