// Package i18n holds the display strings shown around the prompt editor.
//
// Locales are YAML files named <lang>.yaml. Nested maps are flattened into
// dotted keys, so
//
//	drop:
//	  images: "Drop images here..."
//
// is looked up as "drop.images".
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLanguage = "zh"
	DefaultFallback = "en"
)

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrNoLocales           = errors.New("no locale files found")
)

//go:embed locales/*.yaml
var embedded embed.FS

type Catalog struct {
	mu        sync.RWMutex
	fsys      fs.FS
	resources map[string]map[string]string
	language  string
	fallback  string
}

// Default returns the catalog built into the binary.
func Default() (*Catalog, error) {
	return Open("", DefaultLanguage, DefaultFallback)
}

// Open loads the locales in dir, or the built-in ones when dir is empty.
func Open(dir, language, fallback string) (*Catalog, error) {
	if dir != "" {
		return New(os.DirFS(dir), language, fallback)
	}
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return nil, fmt.Errorf("locales fs: %w", err)
	}
	return New(sub, language, fallback)
}

// New loads every locale in fsys. language may be a regional variant of a
// loaded locale (zh-CN resolves to zh).
func New(fsys fs.FS, language, fallback string) (*Catalog, error) {
	c := &Catalog{fsys: fsys, fallback: fallback}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	if err := c.SetLanguage(language); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads all locale files. The current language is kept if it is
// still present.
func (c *Catalog) Reload() error {
	resources, err := loadLocales(c.fsys)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = resources
	if _, ok := resources[c.language]; !ok {
		c.language = ""
	}
	return nil
}

func (c *Catalog) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.language
}

func (c *Catalog) Fallback() string {
	return c.fallback
}

// SetLanguage switches the active language.
func (c *Catalog) SetLanguage(lang string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	resolved, ok := c.resolve(lang)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	c.language = resolved
	return nil
}

// Languages returns the loaded languages, sorted.
func (c *Catalog) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	langs := make([]string, 0, len(c.resources))
	for lang := range c.resources {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Keys returns the sorted translation keys of lang.
func (c *Catalog) Keys(lang string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res := c.resources[lang]
	keys := make([]string, 0, len(res))
	for k := range res {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the translation of key in lang without any fallback.
func (c *Catalog) Lookup(lang, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.resources[lang][key]
	return v, ok
}

// T translates key in the active language, then the fallback language. An
// unknown key is returned as is.
func (c *Catalog) T(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.resources[c.language][key]; ok {
		return v
	}
	if v, ok := c.resources[c.fallback][key]; ok {
		return v
	}
	return key
}

// All returns a copy of the flattened translations of lang merged over the
// fallback language.
func (c *Catalog) All(lang string) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resolved, ok := c.resolve(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	out := make(map[string]string, len(c.resources[c.fallback]))
	for k, v := range c.resources[c.fallback] {
		out[k] = v
	}
	for k, v := range c.resources[resolved] {
		out[k] = v
	}
	return out, nil
}

// resolve must be called with c.mu held.
func (c *Catalog) resolve(lang string) (string, bool) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := c.resources[lang]; ok {
		return lang, true
	}
	if idx := strings.IndexAny(lang, "-_"); idx != -1 {
		base := lang[:idx]
		if _, ok := c.resources[base]; ok {
			return base, true
		}
	}
	return "", false
}

func loadLocales(fsys fs.FS) (map[string]map[string]string, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob locales: %w", err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, ErrNoLocales
	}

	resources := make(map[string]map[string]string, len(files))
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", name, err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", name, err)
		}
		lang := strings.ToLower(strings.TrimSuffix(name, path.Ext(name)))
		flat := make(map[string]string)
		flatten(raw, "", flat)
		resources[lang] = flat
	}
	return resources, nil
}

func flatten(node map[string]any, prefix string, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(val, key, out)
		case map[any]any:
			m := make(map[string]any, len(val))
			for mk, mv := range val {
				m[fmt.Sprint(mk)] = mv
			}
			flatten(m, key, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
