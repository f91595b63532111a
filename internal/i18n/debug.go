package i18n

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// DefaultCheckKeys are the strings the prompt editor cannot render without.
var DefaultCheckKeys = []string{
	"prompt.placeholder",
	"send",
	"expand",
	"model",
	"thinking",
	"drop.images",
	"images.attached",
	"images.none",
}

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	missMark = color.New(color.FgRed).SprintFunc()
	heading  = color.New(color.Bold).SprintFunc()
)

// Status is a snapshot of a catalog's state.
type Status struct {
	Language    string   `json:"language"`
	Supported   []string `json:"supported"`
	Keys        []string `json:"keys"`
	Fallback    string   `json:"fallback"`
	Initialized bool     `json:"initialized"`
}

// Check is the result of looking one key up in one language.
type Check struct {
	Key      string `json:"key"`
	Language string `json:"language"`
	Value    string `json:"value"`
	Found    bool   `json:"found"`
}

// Debugger prints diagnostics about a Catalog. Nothing runs unless one of its
// methods is called.
type Debugger struct {
	catalog *Catalog
	out     io.Writer
}

func NewDebugger(catalog *Catalog, out io.Writer) *Debugger {
	return &Debugger{catalog: catalog, out: out}
}

func (d *Debugger) Status() Status {
	lang := d.catalog.Language()
	supported := d.catalog.Languages()
	return Status{
		Language:    lang,
		Supported:   supported,
		Keys:        d.catalog.Keys(lang),
		Fallback:    d.catalog.Fallback(),
		Initialized: len(supported) > 0,
	}
}

// PrintStatus writes Status in human-readable form.
func (d *Debugger) PrintStatus() Status {
	s := d.Status()
	fmt.Fprintln(d.out, heading("i18n status"))
	fmt.Fprintf(d.out, "  current language:   %s\n", s.Language)
	fmt.Fprintf(d.out, "  supported:          %s\n", strings.Join(s.Supported, ", "))
	fmt.Fprintf(d.out, "  fallback language:  %s\n", s.Fallback)
	fmt.Fprintf(d.out, "  initialized:        %t\n", s.Initialized)
	fmt.Fprintf(d.out, "  keys (%d):\n", len(s.Keys))
	for _, k := range s.Keys {
		fmt.Fprintf(d.out, "    %s\n", k)
	}
	return s
}

// CheckTranslation looks key up in lang, or the active language when lang is
// empty, and prints the outcome.
func (d *Debugger) CheckTranslation(key, lang string) Check {
	if lang == "" {
		lang = d.catalog.Language()
	}
	v, ok := d.catalog.Lookup(lang, key)
	if ok {
		fmt.Fprintf(d.out, "%s %q (%s): %s\n", okMark("ok  "), key, lang, v)
	} else {
		fmt.Fprintf(d.out, "%s %q (%s): not found\n", missMark("miss"), key, lang)
	}
	return Check{Key: key, Language: lang, Value: v, Found: ok}
}

// TestTranslations checks every key in every loaded language and returns the
// checks that failed.
func (d *Debugger) TestTranslations(keys []string) []Check {
	if len(keys) == 0 {
		keys = DefaultCheckKeys
	}
	fmt.Fprintln(d.out, heading("i18n translation check"))
	var missing []Check
	for _, key := range keys {
		for _, lang := range d.catalog.Languages() {
			if c := d.CheckTranslation(key, lang); !c.Found {
				missing = append(missing, c)
			}
		}
	}
	return missing
}

// Reload re-reads the catalog's locale files.
func (d *Debugger) Reload() error {
	fmt.Fprintln(d.out, "reloading i18n resources...")
	return d.catalog.Reload()
}
