package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"
)

var ImageExts = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"bmp": true, "webp": true, "svg": true,
}

// DataImagePrefix marks an inline image data URI.
const DataImagePrefix = "data:image/"

// IsImage reports whether ref looks like an image: by the text after its
// last dot, or, when it has no dot at all, by a data:image/ prefix.
func IsImage(ref string) bool {
	idx := strings.LastIndex(ref, ".")
	if idx == -1 {
		return strings.HasPrefix(ref, DataImagePrefix)
	}
	return ImageExts[strings.ToLower(ref[idx+1:])]
}

func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return HashReader(f)
}

func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
