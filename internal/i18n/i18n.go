// Package i18n loads the embedded label catalogs and hands out per-locale
// translators. Locales are always passed explicitly; nothing here reads the
// process environment.
package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-calnav/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog is the set of loaded label translations. It is immutable after
// NewCatalog returns and safe for concurrent use.
type Catalog struct {
	bundle    *i18n.Bundle
	languages []language.Tag
	matcher   language.Matcher
}

// NewCatalog loads every embedded active.<lang>.json file. Malformed file
// names are skipped; a file that fails to parse is logged and skipped.
func NewCatalog() (*Catalog, error) {
	defaultTag := language.MustParse(config.DefaultLanguage)
	bundle := i18n.NewBundle(defaultTag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	// The default language comes first so the matcher falls back to it.
	languages := []language.Tag{defaultTag}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		tag, err := language.Parse(langCode)
		if langCode == "" || err != nil {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)

		if tag != defaultTag {
			languages = append(languages, tag)
		}
	}

	return &Catalog{
		bundle:    bundle,
		languages: languages,
		matcher:   language.NewMatcher(languages),
	}, nil
}

// Languages returns the loaded language codes, default language first.
func (c *Catalog) Languages() []string {
	codes := make([]string, 0, len(c.languages))
	for _, tag := range c.languages {
		codes = append(codes, tag.String())
	}
	return codes
}

// Locale returns a translator for lang. Unparseable or unsupported tags get
// the closest loaded language, ultimately the default one. The requested tag
// is kept so callers can derive locale defaults such as the calendar system.
func (c *Catalog) Locale(lang string) *Locale {
	requested, err := language.Parse(lang)
	if err != nil {
		requested = c.languages[0]
	}
	_, index, _ := c.matcher.Match(requested)
	matched := c.languages[index]

	return &Locale{
		requested: requested,
		matched:   matched,
		localizer: i18n.NewLocalizer(c.bundle, matched.String()),
	}
}

// Locale translates label keys for one language.
type Locale struct {
	requested language.Tag
	matched   language.Tag
	localizer *i18n.Localizer
}

// Tag returns the tag the locale was requested with.
func (l *Locale) Tag() language.Tag { return l.requested }

// Language returns the loaded language the locale translates into.
func (l *Locale) Language() language.Tag { return l.matched }

// Msg translates key, returning the key itself when no translation exists.
func (l *Locale) Msg(key string) string {
	return l.Format(key, nil)
}

// Format translates key and fills its template with data.
func (l *Locale) Format(key string, data map[string]any) string {
	if l == nil || l.localizer == nil {
		return key
	}
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		var notFound *i18n.MessageNotFoundErr
		if !errors.As(err, &notFound) || msg == "" {
			slog.Debug(config.MsgTransMissing,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyKey, key,
				config.LogKeyError, err,
			)
			return key
		}
	}
	return msg
}
