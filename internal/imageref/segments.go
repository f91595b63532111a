package imageref

import "strings"

// Segment is either a run of plain text or a single placeholder image.
type Segment struct {
	IsImage bool
	Text    string // for text segments
	Ref     string // for image segments
	Base64  bool   // for image segments
}

// Segments splits text into text and image segments around placeholder
// tokens. Text between placeholders is kept verbatim and empty runs are
// dropped, so joining the segments back (re-encoding images) reproduces text.
func Segments(text string) []Segment {
	var segments []Segment
	last := 0

	for _, p := range Placeholders(text) {
		if p.Start > last {
			segments = append(segments, Segment{Text: text[last:p.Start]})
		}
		segments = append(segments, Segment{IsImage: true, Ref: p.Ref, Base64: p.Base64})
		last = p.End
	}

	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// Join is the inverse of Segments.
func Join(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		if s.IsImage {
			b.WriteString(Encode(s.Ref, s.Base64))
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}
