package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderPlaceholder(t *testing.T) {
	r := NewRenderer()

	got, err := r.RenderString("hello {{claudecode:image:/tmp/a.png}}")
	require.NoError(t, err)
	require.Equal(t, `<p>hello <img class="prompt-image" src="/tmp/a.png" alt="/tmp/a.png"></p>`+"\n", got)
}

func TestRenderMarkdownAroundImages(t *testing.T) {
	r := NewRenderer()

	got, err := r.RenderString("**look** at {{claudecode:image:my_cat_photo.png}} and _this_")
	require.NoError(t, err)
	require.Contains(t, got, "<strong>look</strong>")
	require.Contains(t, got, "<em>this</em>")
	require.Contains(t, got, `src="my_cat_photo.png"`)
}

func TestRenderBase64(t *testing.T) {
	r := NewRenderer()

	got, err := r.RenderString("{{claudecode:image:base64:data:image/png;base64,AAAA}}")
	require.NoError(t, err)
	require.Contains(t, got, `src="data:image/png;base64,AAAA"`)
	require.Contains(t, got, `alt="base64 image"`)
}

func TestRenderEscapes(t *testing.T) {
	r := NewRenderer()

	got, err := r.RenderString("<script>x</script>\n\nsee {{claudecode:image:a\"b<c>.png}}")
	require.NoError(t, err)
	require.NotContains(t, got, "<script>")
	require.Contains(t, got, `src="a&#34;b&lt;c&gt;.png"`)
}

func TestRenderImageURL(t *testing.T) {
	r := NewRenderer(WithImageURL(func(ref string, isBase64 bool) string {
		if isBase64 {
			return "data:image/png;base64," + ref
		}
		return "/images/" + ref
	}))

	got, err := r.RenderString("{{claudecode:image:a.png}} {{claudecode:image:base64:QUJD}}")
	require.NoError(t, err)
	require.Contains(t, got, `src="/images/a.png"`)
	require.Contains(t, got, `src="data:image/png;base64,QUJD"`)
}

func TestRenderLegacyMentionsStayText(t *testing.T) {
	r := NewRenderer()

	got, err := r.RenderString("see @photo.png")
	require.NoError(t, err)
	require.Equal(t, "<p>see @photo.png</p>\n", got)
}

func TestRenderMarkerLookalikesStayText(t *testing.T) {
	r := NewRenderer()

	cases := map[string]string{
		"old marker word": "PROMPTIMGIMAGE0END",
		"code span":       "`PROMPTIMGIMAGE0END`",
		"private runes":   "\uE000img0\uE001",
		"char references": "&#xE000;img0&#xE001;",
	}
	for name, lookalike := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := r.RenderString(lookalike + " and {{claudecode:image:a.png}}")
			require.NoError(t, err)
			require.Equal(t, 1, strings.Count(got, "<img"), got)
			require.Contains(t, got, ` and <img class="prompt-image" src="a.png" alt="a.png"></p>`)
		})
	}

	got, err := r.RenderString("PROMPTIMGIMAGE0END `PROMPTIMGIMAGE0END`")
	require.NoError(t, err)
	require.Equal(t, "<p>PROMPTIMGIMAGE0END <code>PROMPTIMGIMAGE0END</code></p>\n", got)
}
