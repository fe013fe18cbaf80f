package i18n

import (
	"embed"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

var localeFiles = []string{"active.ru.toml", "active.en.toml"}

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	logger          *zap.SugaredLogger
}

// NewTranslator builds a Translator backed by the embedded bundles using the
// given default locale (e.g. "ru"). Unknown locales fall back to Russian.
func NewTranslator(defaultLocale string, logger *zap.SugaredLogger) *Translator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.Russian
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			logger.Errorw("failed to load locale file", "file", file, "error", err)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
		logger:          logger,
	}
}

func (t *Translator) localizer(locale string) *i18n.Localizer {
	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())
	return i18n.NewLocalizer(t.bundle, languages...)
}

// T renders the message identified by key for the given locale.
// If the key/locale is not found, it falls back to the default locale,
// then finally to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	return t.localize(locale, &i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
}

// Plural renders key choosing the plural form for count. Count is also
// available to the template as .Count.
func (t *Translator) Plural(locale, key string, count int, data map[string]any) string {
	if data == nil {
		data = map[string]any{}
	}
	data["Count"] = count
	return t.localize(locale, &i18n.LocalizeConfig{
		MessageID:    key,
		PluralCount:  count,
		TemplateData: data,
	})
}

func (t *Translator) localize(locale string, cfg *i18n.LocalizeConfig) string {
	if cfg.MessageID == "" {
		return ""
	}
	msg, err := t.localizer(locale).Localize(cfg)
	if err != nil {
		t.logger.Warnw("localize failed", "key", cfg.MessageID, "locale", locale, "error", err)
		return cfg.MessageID
	}
	return msg
}

// Matches reports whether text equals the rendering of key in any loaded
// language. Used to recognise menu buttons regardless of the user's locale.
func (t *Translator) Matches(text, key string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	for _, tag := range t.bundle.LanguageTags() {
		if t.T(tag.String(), key, nil) == text {
			return true
		}
	}
	return false
}
