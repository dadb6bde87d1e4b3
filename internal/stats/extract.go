// Package stats extracts DSL line metrics from the modem's broadband
// diagnostics page and renders them for output.
package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/dslstats/tgstat/pkg/protocol"
)

// Parse extracts the four up/down metric pairs from the raw page HTML.
// For each labeled section the first value carrying the unit is the "up"
// figure and the second the "down" figure, in document order; values are
// never reordered. Any missing pair aborts the whole parse.
func Parse(page string) (*Stats, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	var st Stats
	pairs := []struct {
		label, unit string
		up, down    *float64
	}{
		{"Line Rate", "Mbps", &st.UpRate, &st.DownRate},
		{"Output Power", "dBm", &st.UpPower, &st.DownPower},
		{"Line Attenuation", "dB", &st.UpAttenuation, &st.DownAttenuation},
		{"Noise Margin", "dB", &st.UpNoiseMargin, &st.DownNoiseMargin},
	}

	for _, p := range pairs {
		up, down, err := extractPair(doc, p.label, p.unit)
		if err != nil {
			return nil, err
		}
		*p.up = up
		*p.down = down
	}

	return &st, nil
}

// extractPair locates the section labeled by the given title and returns
// the first two unit-suffixed values found within it, in document order.
func extractPair(doc *goquery.Document, label, unit string) (float64, float64, error) {
	section := findSection(doc, label)
	if section == nil {
		return 0, 0, &protocol.ExtractionError{Label: label}
	}

	values := unitValues(section, unit)
	if len(values) < 2 {
		return 0, 0, &protocol.ExtractionError{Label: label}
	}

	up, err := parseValue(values[0], unit)
	if err != nil {
		return 0, 0, &protocol.ExtractionError{Label: label}
	}
	down, err := parseValue(values[1], unit)
	if err != nil {
		return 0, 0, &protocol.ExtractionError{Label: label}
	}

	return up, down, nil
}

// findSection returns the grandparent subtree of the text node whose
// trimmed content equals label: the element holding the label text, one
// level up. That subtree groups the label with its value cells on this
// device's pages.
func findSection(doc *goquery.Document, label string) *html.Node {
	var section *html.Node
	doc.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		n := sel.Nodes[0]
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode && strings.TrimSpace(child.Data) == label {
				section = n.Parent
				return false
			}
		}
		return true
	})
	return section
}

// unitValues collects, depth-first in document order, every text node under
// n that contains the unit suffix.
func unitValues(n *html.Node, unit string) []string {
	var values []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode && strings.Contains(n.Data, unit) {
			values = append(values, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return values
}

// parseValue strips the unit suffix and parses the remaining number.
func parseValue(text, unit string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(text, unit, "")), 64)
}
