// Package i18n provides internationalization support for error messages.
package i18n

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// BaseLocale is the locale every lookup falls back to.
const BaseLocale = "en-US"

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

type registry struct {
	mu sync.RWMutex
	// tags[i] is the locale of catalogs[i]; index 0 is always the base.
	tags     []language.Tag
	catalogs []*Catalog
	matcher  language.Matcher
}

var catalogs = newRegistry(enUSCatalog)

func newRegistry(base *Catalog) *registry {
	r := &registry{
		tags:     []language.Tag{language.MustParse(base.locale)},
		catalogs: []*Catalog{base},
	}
	r.matcher = language.NewMatcher(r.tags)
	return r
}

// GetCatalog returns the catalog best matching locale, which may be a single
// BCP 47 tag or an Accept-Language list. Falls back to en-US when nothing
// registered matches.
func GetCatalog(locale string) *Catalog {
	catalogs.mu.RLock()
	defer catalogs.mu.RUnlock()

	base := catalogs.catalogs[0]
	requested := strings.TrimSpace(locale)
	if requested == "" {
		return base
	}
	desired, _, err := language.ParseAcceptLanguage(requested)
	if err != nil || len(desired) == 0 {
		return base
	}
	_, index, confidence := catalogs.matcher.Match(desired...)
	if confidence == language.No || index < 0 || index >= len(catalogs.catalogs) {
		return base
	}
	return catalogs.catalogs[index]
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the error code itself if no template is found.
// Templates are always executed even with nil/empty metadata to ensure
// consistent output (template variables without metadata render as empty).
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}

	// Ensure metadata is non-nil for template execution
	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

// RegisterCatalog registers a catalog for the given BCP 47 locale,
// replacing any previous one for the same tag.
func RegisterCatalog(locale string, cat *Catalog) error {
	if cat == nil {
		return fmt.Errorf("catalog for %q is nil", locale)
	}
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", locale, err)
	}
	cat.locale = tag.String()

	catalogs.mu.Lock()
	defer catalogs.mu.Unlock()
	for i, existing := range catalogs.tags {
		if existing == tag {
			catalogs.catalogs[i] = cat
			return nil
		}
	}
	catalogs.tags = append(catalogs.tags, tag)
	catalogs.catalogs = append(catalogs.catalogs, cat)
	catalogs.matcher = language.NewMatcher(catalogs.tags)
	return nil
}

// NewCatalog creates a new catalog with the given locale and messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:   locale,
		messages: cloned,
	}
}
