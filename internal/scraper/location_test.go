package scraper

import (
	"strings"
	"testing"
)

func TestParseLocation(t *testing.T) {
	html := `
	<html><body>
	<address>
		<p>Kontakt</p>
		<p>CrossFit 2.0 Rzeszów</p>
		<p>Boya-Żeleńskiego 15</p>
		<p>35-105 Rzeszów</p>
		<p>   </p>
	</address>
	</body></html>`

	got := parseLocation(strings.NewReader(html), "CrossFit 2.0 Rzeszów")
	want := "Boya-Żeleńskiego 15, 35-105 Rzeszów, Poland"
	if got != want {
		t.Errorf("parseLocation = %q, expected %q", got, want)
	}
}

func TestParseLocationKeepsExistingCountry(t *testing.T) {
	html := `<address><p>Boya-Żeleńskiego 15</p><p>35-105 Rzeszów, Poland</p></address>`
	got := parseLocation(strings.NewReader(html), "CrossFit 2.0 Rzeszów")
	want := "Boya-Żeleńskiego 15, 35-105 Rzeszów, Poland"
	if got != want {
		t.Errorf("parseLocation = %q, expected %q", got, want)
	}
}

func TestParseLocationAbsent(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no address block", `<html><body><p>hello</p></body></html>`},
		{"all lines filtered", `<address><p>Kontakt</p><p>CrossFit 2.0 Rzeszów</p></address>`},
		{"empty document", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLocation(strings.NewReader(tt.html), "CrossFit 2.0 Rzeszów"); got != "" {
				t.Errorf("parseLocation = %q, expected empty", got)
			}
		})
	}
}
