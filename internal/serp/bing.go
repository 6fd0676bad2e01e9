package serp

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/storascout/storascout/pkg/urlclean"
)

// bingParser extracts hits from Bing listings. Bing wraps result links in
// /ck/a click-tracking URLs; the real destination is shown in the item's
// attribution <cite>, so that is preferred, with redirect resolution as the
// fallback.
type bingParser struct{}

func (bingParser) Parse(doc *goquery.Document) []Hit {
	var hits []Hit

	doc.Find("li.b_algo").Each(func(_ int, item *goquery.Selection) {
		heading := item.Find("h2").First()
		title := compact(heading.Text())
		if title == "" {
			return
		}

		redirect, _ := heading.Find("a").First().Attr("href")

		target := compact(item.Find("div.b_attribution cite").First().Text())
		if target != "" {
			// Attribution text is display-formatted and may carry
			// breadcrumbs or a truncation ellipsis.
			target = urlclean.Clean(target)
		} else {
			target = urlclean.ResolveRedirect(urlclean.Clean(redirect))
		}
		if target == "" {
			return
		}

		caption := item.Find("div.b_caption")
		caption.Find("h2").Remove()
		snippet := compact(caption.Text())

		hits = append(hits, Hit{
			Title:       title,
			Snippet:     snippet,
			URL:         target,
			RedirectURL: redirect,
		})
	})

	return hits
}
