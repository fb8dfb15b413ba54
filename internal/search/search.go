// Package search matches catalog products against a free-text query expanded
// through a synonym dictionary of brand and product nicknames.
package search

import (
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/smokehouse-backend/internal/catalog"
)

// PreviewLimit caps the dropdown results shown while typing.
const PreviewLimit = 5

var dictionary = [][]string{
	{"elf bar", "elfbar", "ельф", "елф", "ельфбар", "ельф бар"},
	{"chaser", "чейзер", "чесер", "чайзер", "чейз"},
	{"xros", "іксрос", "хрос", "крос", "xroz"},
	{"voopoo", "вупу", "вопу", "драг", "drag"},
	{"geekvape", "гіквейп", "гік вейп", "sonder", "сондер"},
	{"rf350", "рф350", "рф", "rf"},
	{"liquid", "рідина", "жижа", "сольова"},
	{"cartridge", "картридж", "катридж", "іспарік", "випарник"},
}

// ExpandTerms returns the normalized query followed by every synonym group
// that has a member contained in it. Duplicates are dropped.
func ExpandTerms(query string) []string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	terms := []string{normalized}
	seen := map[string]struct{}{normalized: {}}

	for _, group := range dictionary {
		if !groupMatches(group, normalized) {
			continue
		}
		for _, word := range group {
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			terms = append(terms, word)
		}
	}
	return terms
}

func groupMatches(group []string, query string) bool {
	for _, word := range group {
		if strings.Contains(query, word) {
			return true
		}
	}
	return false
}

// Match returns products whose name, brand, category or flavor contains any
// expanded term, in catalog order. Queries shorter than two characters match
// nothing; a positive limit truncates the result.
func Match(products []catalog.Product, query string, limit int) []catalog.Product {
	out := make([]catalog.Product, 0)
	if utf8.RuneCountInString(strings.TrimSpace(query)) <= 1 {
		return out
	}

	terms := ExpandTerms(query)
	for _, p := range products {
		if limit > 0 && len(out) == limit {
			break
		}
		if productMatches(p, terms) {
			out = append(out, p)
		}
	}
	return out
}

func productMatches(p catalog.Product, terms []string) bool {
	fields := []string{
		strings.ToLower(p.Name),
		strings.ToLower(p.Brand),
		strings.ToLower(p.Category),
		strings.ToLower(p.Flavor),
	}
	for _, term := range terms {
		for _, field := range fields {
			if field != "" && strings.Contains(field, term) {
				return true
			}
		}
	}
	return false
}
