package keyword

import (
	"context"
	"regexp"
	"strings"

	"github.com/BarkinBalci/ad-scouter-service/internal/provider"
)

type matcher struct {
	name    string
	aliases []string
	words   []*regexp.Regexp
}

// Extractor identifies known advertisers by alias matching
type Extractor struct {
	matchers []matcher
}

// NewExtractor creates an extractor over the given advertisers; order decides precedence
func NewExtractor(advertisers []provider.KnownAdvertiser) *Extractor {
	e := &Extractor{}
	for _, a := range advertisers {
		m := matcher{name: a.Name}
		for _, alias := range a.Aliases {
			m.aliases = append(m.aliases, strings.ToLower(alias))
		}
		for _, w := range a.Words {
			m.words = append(m.words, regexp.MustCompile(`\b`+regexp.QuoteMeta(strings.ToLower(w))+`\b`))
		}
		e.matchers = append(e.matchers, m)
	}
	return e
}

// ExtractAdvertiser returns the first known advertiser mentioned in text
func (e *Extractor) ExtractAdvertiser(_ context.Context, text string) (string, bool, error) {
	lower := strings.ToLower(text)
	for _, m := range e.matchers {
		for _, alias := range m.aliases {
			if strings.Contains(lower, alias) {
				return m.name, true, nil
			}
		}
		for _, re := range m.words {
			if re.MatchString(lower) {
				return m.name, true, nil
			}
		}
	}
	return "", false, nil
}
