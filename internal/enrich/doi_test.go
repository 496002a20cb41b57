// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import "testing"

func TestExtractDOI(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		// /doi/ path segment (science.org, Wiley, ACS).
		{"science.org doi path", "https://www.science.org/doi/10.1126/science.abn4727", "10.1126/science.abn4727"},
		{"acs doi path", "https://pubs.acs.org/doi/10.1021/acsnano.1c04736", "10.1021/acsnano.1c04736"},
		{"doi path trailing slash", "https://onlinelibrary.wiley.com/doi/10.1002/adma.202105416/", "10.1002/adma.202105416"},
		{"doi path with query", "https://www.science.org/doi/10.1126/science.abn4727?utm_source=feed", "10.1126/science.abn4727"},

		// Nature article IDs map to the 10.1038 prefix.
		{"nature article", "https://www.nature.com/articles/s41566-021-00837-x", "10.1038/s41566-021-00837-x"},
		{"nature article with fragment", "https://www.nature.com/articles/s41586-023-06123-1#citeas", "10.1038/s41586-023-06123-1"},

		// Bare DOI anywhere in the URL.
		{"bare doi in path", "https://link.springer.com/article/10.1007/s00340-022-07794-y", "10.1007/s00340-022-07794-y"},

		// URL-escaped DOIs are unescaped first.
		{"escaped doi", "https://example.org/doi/10.1126%2Fscience.abn4727", "10.1126/science.abn4727"},

		// No DOI present.
		{"plain article page", "https://phys.org/news/2024-01-quantum-dots.html", ""},
		{"empty url", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDOI(tt.url)
			if got != tt.want {
				t.Errorf("ExtractDOI(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractDOIDeterministic(t *testing.T) {
	url := "https://www.nature.com/articles/s41566-021-00837-x"
	first := ExtractDOI(url)
	for i := 0; i < 5; i++ {
		if got := ExtractDOI(url); got != first {
			t.Fatalf("ExtractDOI call %d = %q, want %q", i, got, first)
		}
	}
}

func TestStripGroupTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[Stanford NLP] Attention Is All You Need", "Attention Is All You Need"},
		{"No tag here", "No tag here"},
		{"[Tag]Tight", "Tight"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripGroupTag(tt.in); got != tt.want {
			t.Errorf("stripGroupTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitlesMatch(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "Quantum Dot Synthesis", "Quantum Dot Synthesis", true},
		{"case and punctuation", "Quantum Dot Synthesis!", "quantum dot synthesis.", true},
		{"containment handles truncation", "Novel CdSe Quantum Dot Synthesis", "Novel CdSe Quantum Dot Synthesis via Hot Injection at Scale", true},
		{"high word overlap", "broadband spectral imaging with 2d materials", "spectral broadband imaging using 2d materials", true},
		{"unrelated", "Quantum Dot Synthesis", "Deep Learning for Protein Folding", false},
		{"empty query", "", "anything", false},
		{"empty candidate", "anything", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := titlesMatch(tt.a, tt.b); got != tt.want {
				t.Errorf("titlesMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// The similarity test is symmetric.
			if got := titlesMatch(tt.b, tt.a); got != tt.want {
				t.Errorf("titlesMatch(%q, %q) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestStripJATS(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"jats abstract", "<jats:p>We report a <jats:italic>novel</jats:italic> detector.</jats:p>", "We report a novel detector."},
		{"plain text untouched", "Plain abstract text.", "Plain abstract text."},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripJATS(tt.in); got != tt.want {
				t.Errorf("StripJATS(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
