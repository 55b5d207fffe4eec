package suggest

import (
	"sort"
	"strings"

	"github.com/bastiangx/ternserve/internal/utils"
	"github.com/bastiangx/ternserve/pkg/dict"
	"github.com/bastiangx/ternserve/pkg/tst"
	"github.com/charmbracelet/log"
)

// Suggestion is one ranked completion candidate.
type Suggestion struct {
	Word            string
	Frequency       int
	WasCorrected    bool   `json:",omitempty"`
	OriginalPrefix  string `json:",omitempty"`
	CorrectedPrefix string `json:",omitempty"`
}

// Completer ranks words from a dictionary. Prefix queries always run
// through the wildcard matcher on the tree; a small patricia hot cache of
// frequent words is consulted afterwards and its hits are merged in when
// the tree yields fewer than limit-1 suggestions.
type Completer struct {
	dict         *dict.Dictionary
	hotCache     *HotCache
	minFrequency int
}

// DefaultMinFrequency filters rare words out of suggestions. Short or
// repetitive prefixes raise the bar, since they match too much.
const (
	DefaultMinFrequency = 20
	shortPrefixMinFreq  = 24
	defaultHotWords     = 20000
)

// NewCompleter wraps d with the default hot cache size.
func NewCompleter(d *dict.Dictionary) *Completer {
	return &Completer{
		dict:         d,
		hotCache:     NewHotCache(defaultHotWords),
		minFrequency: DefaultMinFrequency,
	}
}

// SetMinFrequency overrides the suggestion frequency floor.
func (c *Completer) SetMinFrequency(min int) {
	if min > 0 {
		c.minFrequency = min
	}
}

// WarmCache seeds the hot cache from the current dictionary contents.
func (c *Completer) WarmCache() {
	if c.hotCache != nil {
		c.hotCache.Populate(c.dict)
	}
}

// Complete returns up to limit words starting with prefix, best
// frequency first. The stored prefix word itself is never suggested.
// Capitalization of the input is re-applied onto each suggestion.
func (c *Completer) Complete(prefix string, limit int) []Suggestion {
	lowerPrefix := strings.ToLower(prefix)
	if lowerPrefix == "" {
		return nil
	}
	capitalPositions := capitalMask(prefix)

	threshold := c.minFrequency
	if len(lowerPrefix) <= 2 || utils.IsRepetitive(lowerPrefix) {
		threshold = shortPrefixMinFreq
	}

	// The trailing star enumerates the subtree below the prefix, which
	// excludes the prefix word itself.
	pairs := c.dict.Match(lowerPrefix + string(tst.WildcardMany))

	suggestions := make([]Suggestion, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		word := p.Key.String()
		freq := pairFrequency(p)
		if freq < threshold {
			continue
		}
		if seen[word] {
			continue
		}
		seen[word] = true
		suggestions = append(suggestions, Suggestion{
			Word:      ApplyCapitalization(word, capitalPositions),
			Frequency: freq,
		})
	}

	if len(suggestions) < limit-1 {
		for _, s := range c.hotSuggestions(lowerPrefix, capitalPositions, threshold) {
			lower := strings.ToLower(s.Word)
			if seen[lower] {
				continue
			}
			seen[lower] = true
			suggestions = append(suggestions, s)
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Frequency != suggestions[j].Frequency {
			return suggestions[i].Frequency > suggestions[j].Frequency
		}
		return suggestions[i].Word < suggestions[j].Word
	})

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// Match returns up to limit words matching the wildcard pattern, best
// frequency first. '.' stands for one character and '*' for any run.
func (c *Completer) Match(pattern string, limit int) []Suggestion {
	pairs := c.dict.Match(pattern)

	suggestions := make([]Suggestion, 0, len(pairs))
	for _, p := range pairs {
		suggestions = append(suggestions, Suggestion{
			Word:      p.Key.String(),
			Frequency: pairFrequency(p),
		})
	}
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Frequency != suggestions[j].Frequency {
			return suggestions[i].Frequency > suggestions[j].Frequency
		}
		return suggestions[i].Word < suggestions[j].Word
	})
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// Correct returns the best dictionary word within maxDistance character
// substitutions of input, and whether a correction was found. Inputs
// shorter than two characters are returned unchanged.
func (c *Completer) Correct(input string, maxDistance int) (string, bool) {
	lower := strings.ToLower(input)
	if len(lower) < 2 {
		return input, false
	}

	pairs := c.dict.Near(lower, maxDistance)
	best := ""
	bestFreq := -1
	for _, p := range pairs {
		word := p.Key.String()
		if word == lower {
			return input, false
		}
		if freq := pairFrequency(p); freq > bestFreq {
			best = word
			bestFreq = freq
		}
	}
	if best == "" {
		return input, false
	}
	return ApplyCapitalization(best, capitalMask(input)), true
}

// Stats reports dictionary and cache counters.
func (c *Completer) Stats() map[string]int {
	stats := map[string]int{
		"totalWords": c.dict.Count(),
	}
	if c.hotCache != nil {
		for k, v := range c.hotCache.Stats() {
			stats[k] = v
		}
	}
	return stats
}

func (c *Completer) hotSuggestions(lowerPrefix string, capitalPositions []bool, minThreshold int) []Suggestion {
	if c.hotCache == nil {
		return nil
	}
	hits := c.hotCache.Search(lowerPrefix, minThreshold)
	suggestions := make([]Suggestion, 0, len(hits))
	for _, hit := range hits {
		suggestions = append(suggestions, Suggestion{
			Word:      ApplyCapitalization(hit.Word, capitalPositions),
			Frequency: hit.Frequency,
		})
	}
	return suggestions
}

// pairFrequency extracts the frequency stored in a pair value. Unknown
// value types count as 1 so foreign values still rank above nothing.
func pairFrequency(p tst.Pair) int {
	switch v := p.Value.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		return int(v)
	default:
		log.Errorf("Unknown value type: %T for word %s", p.Value, p.Key.String())
		return 1
	}
}

// capitalMask records which input positions are uppercase ASCII.
func capitalMask(prefix string) []bool {
	mask := make([]bool, len(prefix))
	for i := 0; i < len(prefix); i++ {
		mask[i] = prefix[i] >= 'A' && prefix[i] <= 'Z'
	}
	return mask
}

// ApplyCapitalization copies the uppercase positions of the original
// input onto word.
func ApplyCapitalization(word string, capitalPositions []bool) string {
	if len(capitalPositions) == 0 {
		return word
	}
	wordRunes := []rune(word)
	for i := 0; i < len(wordRunes) && i < len(capitalPositions); i++ {
		if capitalPositions[i] && wordRunes[i] >= 'a' && wordRunes[i] <= 'z' {
			wordRunes[i] = wordRunes[i] - 'a' + 'A'
		}
	}
	return string(wordRunes)
}
