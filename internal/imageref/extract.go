package imageref

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/nilszeilon/promptimg/internal/fileutil"
)

var (
	QuotedMentionRe = regexp.MustCompile(`@"([^"]+)"`)

	// A mention ends at any Unicode space, vertical tab or BOM, not only ASCII whitespace.
	PlainMentionRe = regexp.MustCompile(`@([^@\s\v\p{Z}\x{FEFF}]+)`)
)

// isMentionSpace reports whether r ends a plain mention. It must agree with
// the negated class in PlainMentionRe.
func isMentionSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Z, r)
}

// refSet keeps references unique in first-seen order.
type refSet struct {
	index map[string]int
	refs  []string
}

func newRefSet() *refSet {
	return &refSet{index: make(map[string]int), refs: []string{}}
}

func (s *refSet) add(ref string) {
	if _, ok := s.index[ref]; ok {
		return
	}
	s.index[ref] = len(s.refs)
	s.refs = append(s.refs, ref)
}

// Extract returns the image references in text, de-duplicated, in the order
// placeholders, then quoted mentions, then plain mentions. It never fails;
// malformed tokens are ignored. The result is never nil.
func Extract(text string) []string {
	set := newRefSet()

	for _, p := range Placeholders(text) {
		set.add(p.Ref)
	}
	for _, ref := range Mentions(text) {
		set.add(ref)
	}
	return set.refs
}

// span is a byte range cut from the text before the plain-mention pass.
type span struct {
	start, end int
	blank      bool // replace with a space instead of nothing
}

// Mentions returns the legacy @-mentions in text that look like images,
// ignoring anything inside placeholder tokens. Quoted mentions come first.
// Duplicates are kept.
func Mentions(text string) []string {
	placeholders := Placeholders(text)

	// Placeholders are blanked rather than cut so that neighbouring text is
	// not glued into a new token.
	cuts := make([]span, 0, len(placeholders))
	for _, p := range placeholders {
		cuts = append(cuts, span{start: p.Start, end: p.End, blank: true})
	}

	var refs []string
	for _, m := range QuotedMentionRe.FindAllStringSubmatchIndex(text, -1) {
		if withinPlaceholder(placeholders, m[0], m[1]) {
			continue
		}
		cuts = append(cuts, span{start: m[0], end: m[1]})
		if body := text[m[2]:m[3]]; fileutil.IsImage(body) {
			refs = append(refs, body)
		}
	}

	for _, m := range PlainMentionRe.FindAllStringSubmatch(cutSpans(text, cuts), -1) {
		ref := strings.TrimFunc(m[1], isMentionSpace)
		// A bare data URI can't be told apart from a broken mention.
		if strings.Contains(ref, "data:") {
			continue
		}
		if fileutil.IsImage(ref) {
			refs = append(refs, ref)
		}
	}
	return refs
}

func withinPlaceholder(placeholders []Placeholder, start, end int) bool {
	for _, p := range placeholders {
		if p.Start <= start && end <= p.End {
			return true
		}
	}
	return false
}

// cutSpans removes spans from text, merging any that overlap.
func cutSpans(text string, spans []span) string {
	if len(spans) == 0 {
		return text
	}
	slices.SortFunc(spans, func(a, b span) int { return a.start - b.start })

	var b strings.Builder
	last := 0
	for i := 0; i < len(spans); {
		cur := spans[i]
		for i++; i < len(spans) && spans[i].start < cur.end; i++ {
			cur.end = max(cur.end, spans[i].end)
			cur.blank = cur.blank || spans[i].blank
		}
		b.WriteString(text[last:cur.start])
		if cur.blank {
			b.WriteByte(' ')
		}
		last = cur.end
	}
	b.WriteString(text[last:])
	return b.String()
}
