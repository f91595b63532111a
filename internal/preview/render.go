// Package preview renders a prompt as HTML, showing placeholder images inline.
package preview

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/nilszeilon/promptimg/internal/imageref"
)

// Images are swapped for markers before Markdown sees them, so neither
// emphasis rules nor HTML sanitising can touch the references. Markers are
// built from private-use runes and lengthened until the prompt cannot contain
// one, either literally or through a character reference.
const (
	markerOpen  = "\uE000img"
	markerClose = "\uE001"
)

type markers struct {
	open string
	re   *regexp.Regexp
}

func newMarkers(text string) markers {
	decoded := html.UnescapeString(text)
	open := markerOpen
	for strings.Contains(text, open) || strings.Contains(decoded, open) {
		open += "\uE000"
	}
	return markers{
		open: open,
		re:   regexp.MustCompile(regexp.QuoteMeta(open) + `(\d+)` + regexp.QuoteMeta(markerClose)),
	}
}

func (m markers) marker(i int) string {
	return m.open + strconv.Itoa(i) + markerClose
}

// ImageURLFunc maps a reference to the src attribute of its <img> tag.
type ImageURLFunc func(ref string, isBase64 bool) string

type Renderer struct {
	md       goldmark.Markdown
	imageURL ImageURLFunc
}

type Option func(*Renderer)

// WithImageURL overrides how references become image URLs. By default the
// reference is used unchanged.
func WithImageURL(fn ImageURLFunc) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.imageURL = fn
		}
	}
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		md:       goldmark.New(),
		imageURL: func(ref string, _ bool) string { return ref },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the HTML for text to w. Raw HTML typed into the prompt is not
// passed through.
func (r *Renderer) Render(w io.Writer, text string) error {
	var (
		src  bytes.Buffer
		imgs []imageref.Segment
		mk   = newMarkers(text)
	)
	for _, seg := range imageref.Segments(text) {
		if !seg.IsImage {
			src.WriteString(seg.Text)
			continue
		}
		src.WriteString(mk.marker(len(imgs)))
		imgs = append(imgs, seg)
	}

	var out bytes.Buffer
	if err := r.md.Convert(src.Bytes(), &out); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	rendered := mk.re.ReplaceAllFunc(out.Bytes(), func(m []byte) []byte {
		idx, err := strconv.Atoi(string(mk.re.FindSubmatch(m)[1]))
		if err != nil || idx >= len(imgs) {
			return m
		}
		return []byte(r.imgTag(imgs[idx]))
	})
	_, err := w.Write(rendered)
	return err
}

func (r *Renderer) RenderString(text string) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, text); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) imgTag(seg imageref.Segment) string {
	alt := seg.Ref
	if seg.Base64 {
		alt = "base64 image"
	}
	return `<img class="prompt-image" src="` + html.EscapeString(r.imageURL(seg.Ref, seg.Base64)) +
		`" alt="` + html.EscapeString(alt) + `">`
}
