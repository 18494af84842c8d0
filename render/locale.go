package render

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported lists the languages with a translation, preferred first.
var Supported = []language.Tag{language.English, language.Indonesian}

// Localizer picks a supported language for a request and hands out
// printers bound to the message catalog. Match results are cached by the
// raw preference strings since browsers resend identical headers.
type Localizer struct {
	matcher  language.Matcher
	fallback language.Tag
	catalog  catalog.Catalog
	cache    *lru.Cache[string, language.Tag]
}

func NewLocalizer(fallback string, cacheSize int) (*Localizer, error) {
	cat, err := newCatalog()
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	cache, err := lru.New[string, language.Tag](cacheSize)
	if err != nil {
		return nil, err
	}

	l := &Localizer{
		matcher:  language.NewMatcher(Supported),
		fallback: language.English,
		catalog:  cat,
		cache:    cache,
	}
	if fallback != "" {
		tag, err := language.Parse(fallback)
		if err != nil {
			return nil, fmt.Errorf("default locale %q: %w", fallback, err)
		}
		_, idx, conf := l.matcher.Match(tag)
		if conf == language.No {
			return nil, fmt.Errorf("default locale %q is not supported", fallback)
		}
		l.fallback = Supported[idx]
	}
	return l, nil
}

// Match returns the best supported language for the given preferences,
// each either a single tag ("id") or an Accept-Language header value.
// Earlier preferences win.
func (l *Localizer) Match(preferences ...string) language.Tag {
	key := strings.Join(preferences, "\x00")
	if tag, ok := l.cache.Get(key); ok {
		return tag
	}

	tag := l.fallback
	for _, pref := range preferences {
		if strings.TrimSpace(pref) == "" {
			continue
		}
		desired, _, err := language.ParseAcceptLanguage(pref)
		if err != nil || len(desired) == 0 {
			continue
		}
		if _, idx, conf := l.matcher.Match(desired...); conf != language.No {
			tag = Supported[idx]
			break
		}
	}
	l.cache.Add(key, tag)
	return tag
}

// Printer returns a printer for tag bound to the translations.
func (l *Localizer) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(l.catalog))
}

// CachedMatches reports how many preference strings are cached.
func (l *Localizer) CachedMatches() int {
	return l.cache.Len()
}
