package serp

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/storascout/storascout/pkg/urlclean"
)

// googleParser extracts hits from Google listings. Google has shipped
// several result-container classes over time and sometimes wraps links in
// /url?q= redirects.
type googleParser struct{}

func (googleParser) Parse(doc *goquery.Document) []Hit {
	items := doc.Find("div.g")
	if items.Length() == 0 {
		items = doc.Find("div.tF2Cxc")
	}

	var hits []Hit
	items.Each(func(_ int, item *goquery.Selection) {
		title := compact(item.Find("h3").First().Text())
		if title == "" {
			title = compact(item.Find("h2").First().Text())
		}
		if title == "" {
			return
		}

		href, ok := item.Find("a").First().Attr("href")
		if !ok {
			return
		}
		target := urlclean.Clean(unwrapGoogleRedirect(href))
		if target == "" {
			return
		}

		snippet := compact(item.Find("div.VwiC3b").First().Text())
		if snippet == "" {
			snippet = compact(item.Find("div.IsZvec").First().Text())
		}
		if snippet == "" {
			snippet = compact(item.Find("span.aCOpRe").First().Text())
		}

		hits = append(hits, Hit{
			Title:   title,
			Snippet: snippet,
			URL:     target,
		})
	})

	return hits
}

// unwrapGoogleRedirect reads the real destination from a /url?q= link.
func unwrapGoogleRedirect(href string) string {
	if !strings.HasPrefix(href, "/url?") {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if q := u.Query().Get("q"); q != "" {
		return q
	}
	return href
}
