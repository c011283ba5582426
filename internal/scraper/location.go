package scraper

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const contactHeaderLabel = "Kontakt"

// parseLocation extracts the gym's postal address from the homepage HTML.
// It collects the paragraph lines of the first <address> block, dropping
// the contact header and the gym's own name line, and joins the rest into a
// single comma-separated address ending in "Poland". Returns "" when no
// usable block exists.
func parseLocation(r io.Reader, gymName string) string {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return ""
	}

	address := doc.Find("address").First()
	if address.Length() == 0 {
		return ""
	}

	var lines []string
	address.Find("p").Each(func(_ int, p *goquery.Selection) {
		line := strings.TrimSpace(p.Text())
		if line == "" || line == contactHeaderLabel || line == gymName {
			return
		}
		lines = append(lines, line)
	})
	if len(lines) == 0 {
		return ""
	}

	joined := strings.Join(lines, ", ")
	if !strings.Contains(joined, "Poland") {
		joined += ", Poland"
	}
	return joined
}
