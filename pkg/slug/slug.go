// Package slug turns arbitrary text into lowercase, URL-safe identifiers.
//
//	slug.Make("Jöhn Doe's Org")                          // "john-doe-s-org"
//	slug.Make("", slug.Fallback("user"))                 // "user"
//	slug.Make("alice", slug.WithSuffix("1718000000000")) // "alice-1718000000000"
package slug

import (
	"strings"
	"unicode/utf8"
)

const separator = '-'

// Option configures Make.
type Option func(*config)

type config struct {
	maxLength int
	fallback  string
	suffix    string
}

// MaxLength caps the slug body, not counting the suffix. Zero means no limit.
func MaxLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// Fallback is used when the input produces an empty slug.
func Fallback(s string) Option {
	return func(c *config) { c.fallback = s }
}

// WithSuffix appends "-"+suffix (itself slugified) to the result.
func WithSuffix(suffix string) Option {
	return func(c *config) { c.suffix = suffix }
}

// Make creates a slug: ASCII letters and digits are kept lowercased, common
// Latin diacritics are folded to ASCII, and every other run of characters
// becomes a single "-". Leading and trailing separators are trimmed.
func Make(s string, opts ...Option) string {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	out := normalize(s, cfg.maxLength)
	if out == "" {
		out = normalize(cfg.fallback, cfg.maxLength)
	}
	if cfg.suffix != "" {
		if sfx := normalize(cfg.suffix, 0); sfx != "" {
			if out == "" {
				return sfx
			}
			return out + string(separator) + sfx
		}
	}
	return out
}

func normalize(s string, maxLength int) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSep := false
	for _, r := range s {
		if folded, ok := fold[r]; ok {
			r = folded
		}
		switch {
		case r >= 'A' && r <= 'Z':
			r += 'a' - 'A'
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
		default:
			pendingSep = b.Len() > 0
			continue
		}

		if pendingSep {
			if maxLength > 0 && utf8.RuneCountInString(b.String())+2 > maxLength {
				break
			}
			b.WriteRune(separator)
			pendingSep = false
		}
		if maxLength > 0 && b.Len() >= maxLength {
			break
		}
		b.WriteRune(r)
	}

	return b.String()
}

// fold maps common Latin diacritics to ASCII.
var fold = func() map[rune]rune {
	groups := map[rune]string{
		'a': "àáâãäåāăąæ", 'A': "ÀÁÂÃÄÅĀĂĄÆ",
		'c': "çćč", 'C': "ÇĆČ",
		'd': "đď", 'D': "ĐĎ",
		'e': "èéêëēėęě", 'E': "ÈÉÊËĒĖĘĚ",
		'i': "ìíîïīį", 'I': "ÌÍÎÏĪĮ",
		'l': "ł", 'L': "Ł",
		'n': "ñńň", 'N': "ÑŃŇ",
		'o': "òóôõöøōœ", 'O': "ÒÓÔÕÖØŌŒ",
		'r': "ř", 'R': "Ř",
		's': "śšșß", 'S': "ŚŠȘ",
		't': "ťț", 'T': "ŤȚ",
		'u': "ùúûüūůų", 'U': "ÙÚÛÜŪŮŲ",
		'y': "ýÿ", 'Y': "ÝŸ",
		'z': "źžż", 'Z': "ŹŽŻ",
	}
	m := make(map[rune]rune, 160)
	for base, variants := range groups {
		for _, v := range variants {
			m[v] = base
		}
	}
	return m
}()
