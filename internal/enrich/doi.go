// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"net/url"
	"regexp"
	"strings"
)

// DOI extraction patterns, tried in order; the first match wins.
var (
	// doiPathPattern matches publisher URLs carrying the DOI in a /doi/
	// path segment (science.org, Wiley, ACS).
	doiPathPattern = regexp.MustCompile(`/doi/?(10\.\d{4,}/[^\s?#]+)`)

	// natureArticlePattern matches nature.com article IDs. Nature DOIs
	// follow 10.1038/{article_id}.
	natureArticlePattern = regexp.MustCompile(`nature\.com/articles/(s\d+[-\w]+)`)

	// bareDOIPattern matches a DOI anywhere in the URL.
	bareDOIPattern = regexp.MustCompile(`(10\.\d{4,}/[^\s?#]+)`)
)

const natureDOIPrefix = "10.1038/"

// ExtractDOI pulls a DOI out of a publisher URL. It returns "" when no
// pattern matches. The result is deterministic for a given URL.
func ExtractDOI(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	if unescaped, err := url.QueryUnescape(rawURL); err == nil {
		rawURL = unescaped
	}

	if m := doiPathPattern.FindStringSubmatch(rawURL); m != nil {
		return strings.TrimRight(m[1], "/")
	}

	if m := natureArticlePattern.FindStringSubmatch(rawURL); m != nil {
		return natureDOIPrefix + m[1]
	}

	if m := bareDOIPattern.FindStringSubmatch(rawURL); m != nil {
		return strings.TrimRight(m[1], "/")
	}

	return ""
}

// nonWordPattern strips everything but word characters and whitespace for
// title comparison.
var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// groupTagPattern matches a leading bracketed tag such as "[Stanford NLP] ".
var groupTagPattern = regexp.MustCompile(`^\[.*?\]\s*`)

// stripGroupTag removes a leading "[Group Name]" prefix added by the
// source aggregator.
func stripGroupTag(title string) string {
	return strings.TrimSpace(groupTagPattern.ReplaceAllString(title, ""))
}

// titlesMatch reports whether two titles are close enough to be the same
// paper: after lowercasing and punctuation stripping, one contains the
// other (handles truncation), or the word overlap over the larger word set
// exceeds 0.7. The check is symmetric.
func titlesMatch(a, b string) bool {
	na := normalizeTitle(a)
	nb := normalizeTitle(b)
	if na == "" || nb == "" {
		return false
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	aWords := wordSet(na)
	bWords := wordSet(nb)
	if len(aWords) == 0 || len(bWords) == 0 {
		return false
	}

	overlap := 0
	for w := range aWords {
		if bWords[w] {
			overlap++
		}
	}
	larger := len(aWords)
	if len(bWords) > larger {
		larger = len(bWords)
	}
	return float64(overlap)/float64(larger) > 0.7
}

func normalizeTitle(title string) string {
	return strings.TrimSpace(nonWordPattern.ReplaceAllString(strings.ToLower(title), ""))
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
