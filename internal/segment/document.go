package segment

import (
	"regexp"
	"strconv"
	"strings"
)

// Source document grammar. Pages are delimited by a line of 40 or more
// "=" characters; a page optionally carries a "Page <n>" label followed
// by a dashed divider. The converter in internal/sheet emits exactly this
// format, so the two packages must stay in sync.
var (
	pageSepRe    = regexp.MustCompile(`\n={40,}\n`)
	pageLabelRe  = regexp.MustCompile(`Page (\d+)`)
	pageHeaderRe = regexp.MustCompile(`Page \d+\n-+\n`)
)

// Page is one page-separator-delimited section of a document.
type Page struct {
	// Label is the verbatim "Page <n>" marker found in the section,
	// or "" when the section carries none (e.g. a title block).
	Label string

	// Paragraphs are the non-empty, blank-line separated text blocks of
	// the page body, in original order, with the label header stripped.
	Paragraphs []string
}

// Number returns the numeric page identifier parsed from the label.
// ok is false for unlabeled pages.
func (p Page) Number() (n int, ok bool) {
	m := pageLabelRe.FindStringSubmatch(p.Label)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Document is a parsed page-annotated document.
type Document struct {
	Pages []Page
}

// Parse splits a raw page-annotated document into its pages and
// paragraphs. Sections that are empty after stripping the page header
// are dropped. An empty or whitespace-only input yields a Document with
// no pages.
func Parse(doc string) Document {
	var d Document
	for _, section := range pageSepRe.Split(doc, -1) {
		if strings.TrimSpace(section) == "" {
			continue
		}

		label := pageLabelRe.FindString(section)
		body := strings.TrimSpace(pageHeaderRe.ReplaceAllString(section, ""))
		if body == "" {
			continue
		}

		var paragraphs []string
		for _, para := range strings.Split(body, "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			paragraphs = append(paragraphs, para)
		}
		if len(paragraphs) == 0 {
			continue
		}

		d.Pages = append(d.Pages, Page{Label: label, Paragraphs: paragraphs})
	}
	return d
}
