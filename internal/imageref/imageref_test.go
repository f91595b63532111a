package imageref

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	require.Equal(t, "{{claudecode:image:/tmp/a.png}}", Encode("/tmp/a.png", false))
	require.Equal(t,
		"{{claudecode:image:base64:data:image/png;base64,AAAA}}",
		Encode("data:image/png;base64,AAAA", true))
	require.Equal(t, "{{claudecode:image:}}", Encode("", false))
	require.Equal(t, "{{claudecode:image:base64:}}", Encode("", true))
}

func TestEncodeExtractRoundTrip(t *testing.T) {
	refs := []string{
		"/tmp/a.png",
		"relative/dir/shot.JPG",
		"my file.jpeg",
		"notes.txt",
		"no-extension",
		"data:image/png;base64,AAAA",
		`C:\Users\me\Pictures\cat.webp`,
		"@a.png and more",
		`@"quoted.png"`,
		"{{nested",
	}
	for _, ref := range refs {
		t.Run(ref, func(t *testing.T) {
			require.Equal(t, []string{ref}, Extract(Encode(ref, false)))
			require.Equal(t, []string{ref}, Extract(Encode(ref, true)))
		})
	}
}

func TestExtract(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty",
			text: "",
			want: []string{},
		},
		{
			name: "no references",
			text: "just a prompt, mail me at someone@example.com",
			want: []string{},
		},
		{
			name: "placeholder precedence",
			text: "{{claudecode:image:/tmp/a.png}} @b.png",
			want: []string{"/tmp/a.png", "b.png"},
		},
		{
			name: "notation order beats text order",
			text: `@three.webp then @"two words.jpg" then {{claudecode:image:one.png}}`,
			want: []string{"one.png", "two words.jpg", "three.webp"},
		},
		{
			name: "in-order notations",
			text: `{{claudecode:image:/x/one.png}} then @"two words.jpg" and @three.webp`,
			want: []string{"/x/one.png", "two words.jpg", "three.webp"},
		},
		{
			name: "case-insensitive extension",
			text: "look at @photo.PNG",
			want: []string{"photo.PNG"},
		},
		{
			name: "non-image mention",
			text: "summarise @notes.txt",
			want: []string{},
		},
		{
			name: "quoted with space",
			text: `compare @"my file.jpeg" please`,
			want: []string{"my file.jpeg"},
		},
		{
			name: "plain data uri dropped",
			text: "@data:image/png;base64,AAAA",
			want: []string{},
		},
		{
			name: "quoted data uri kept",
			text: `@"data:image/png;base64,AAAA"`,
			want: []string{"data:image/png;base64,AAAA"},
		},
		{
			name: "plain mention containing data: anywhere",
			text: "@assets/data:x.png",
			want: []string{},
		},
		{
			name: "base64 tag stripped",
			text: "{{claudecode:image:base64:data:image/png;base64,AAAA}}",
			want: []string{"data:image/png;base64,AAAA"},
		},
		{
			name: "placeholder accepts any reference",
			text: "{{claudecode:image:report.pdf}}",
			want: []string{"report.pdf"},
		},
		{
			name: "unterminated placeholder",
			text: "{{claudecode:image:/a.png}",
			want: []string{},
		},
		{
			name: "empty placeholder",
			text: "{{claudecode:image:}}",
			want: []string{},
		},
		{
			name: "bare base64 tag is the reference",
			text: "{{claudecode:image:base64:}}",
			want: []string{"base64:"},
		},
		{
			name: "mentions split on at-sign and whitespace",
			text: "@a.png@b.jpg\n@c.gif\t@d.bmp \u00a0@e.svg",
			want: []string{"a.png", "b.jpg", "c.gif", "d.bmp", "e.svg"},
		},
		{
			name: "quoted body is not rescanned",
			text: `@"see @inner.png here.jpg"`,
			want: []string{"see @inner.png here.jpg"},
		},
		{
			name: "quoted body keeps an embedded placeholder verbatim",
			text: `@"x {{claudecode:image:a.png}} y.png"`,
			want: []string{"a.png", "x {{claudecode:image:a.png}} y.png"},
		},
		{
			name: "quoted mention inside placeholder is skipped",
			text: `{{claudecode:image:@"q.png"}}`,
			want: []string{`@"q.png"`},
		},
		{
			name: "placeholder does not glue its neighbours",
			text: "@a{{claudecode:image:b}}.png",
			want: []string{"b"},
		},
		{
			name: "next line control is part of the token",
			text: "@a.png\u0085",
			want: []string{},
		},
		{
			name: "mention inside placeholder is not rescanned",
			text: "{{claudecode:image:/tmp/@x.png}}",
			want: []string{"/tmp/@x.png"},
		},
		{
			name: "duplicates across notations",
			text: `{{claudecode:image:a.png}} @a.png @"a.png" {{claudecode:image:base64:a.png}}`,
			want: []string{"a.png"},
		},
		{
			name: "no case folding",
			text: "{{claudecode:image:/Tmp/A.PNG}} @/Tmp/A.png",
			want: []string{"/Tmp/A.PNG", "/Tmp/A.png"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Extract(tc.text)
			require.NotNil(t, got)
			require.Equal(t, tc.want, got)
			for _, ref := range got {
				require.Contains(t, tc.text, ref)
			}
		})
	}
}

func TestExtractDoubledTextIsStable(t *testing.T) {
	text := "see {{claudecode:image:/a.png}} and @\"b c.png\" then @d.gif and @e.txt\n"
	want := []string{"/a.png", "b c.png", "d.gif"}

	require.Equal(t, want, Extract(text))
	require.Equal(t, want, Extract(text+text))
}

func TestPlaceholders(t *testing.T) {
	first := "{{claudecode:image:base64:QUJD}}"
	second := "{{claudecode:image:/tmp/a.png}}"
	text := "x " + first + " y " + second + second

	got := Placeholders(text)
	require.Len(t, got, 3)

	require.Equal(t, Placeholder{Ref: "QUJD", Base64: true, Start: 2, End: 2 + len(first)}, got[0])

	start := 2 + len(first) + len(" y ")
	require.Equal(t, Placeholder{Ref: "/tmp/a.png", Start: start, End: start + len(second)}, got[1])
	require.Equal(t, got[1].End, got[2].Start)
	require.Equal(t, second, text[got[2].Start:got[2].End])

	require.Empty(t, Placeholders("nothing here"))
}

func TestMentions(t *testing.T) {
	text := `{{claudecode:image:p.png}} @b.png @"a b.png" @b.png @c.txt`
	require.Equal(t, []string{"a b.png", "b.png", "b.png"}, Mentions(text))
	require.Empty(t, Mentions(""))
}

func TestSegments(t *testing.T) {
	text := "a {{claudecode:image:x.png}}{{claudecode:image:base64:eQ==}} b"

	got := Segments(text)
	require.Equal(t, []Segment{
		{Text: "a "},
		{IsImage: true, Ref: "x.png"},
		{IsImage: true, Ref: "eQ==", Base64: true},
		{Text: " b"},
	}, got)
	require.Equal(t, text, Join(got))

	require.Nil(t, Segments(""))
	require.Equal(t, []Segment{{Text: "plain @x.png"}}, Segments("plain @x.png"))
}
