package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsImage(t *testing.T) {
	cases := []struct {
		ref  string
		want bool
	}{
		{"photo.png", true},
		{"photo.PNG", true},
		{"/tmp/dir.v2/shot.JpEg", true},
		{"a.b.c.webp", true},
		{"icon.svg", true},
		{"scan.bmp", true},
		{"anim.gif", true},
		{"notes.txt", false},
		{"archive.png.zip", false},
		{"trailingdot.", false},
		{"noext", false},
		{"png", false},
		{"data:image/png;base64,AAAA", true},
		{"DATA:IMAGE/png;base64,AAAA", false},
		{"data:text/plain;base64,AAAA", false},
		{"data:image/png;base64,AA.AA", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run(tc.ref, func(t *testing.T) {
			require.Equal(t, tc.want, IsImage(tc.ref))
		})
	}
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	sum, err := HashFile(path)
	require.NoError(t, err)
	require.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", sum)

	fromReader, err := HashReader(strings.NewReader("hello"))
	require.NoError(t, err)
	require.Equal(t, sum, fromReader)

	_, err = HashFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
