package serp

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/storascout/storascout/pkg/urlclean"
)

// baiduParser extracts hits from Baidu listings. Baidu occasionally lists
// Bing click-tracking links verbatim, so every link goes through redirect
// resolution.
type baiduParser struct{}

func (baiduParser) Parse(doc *goquery.Document) []Hit {
	var hits []Hit

	doc.Find("div.result").Each(func(_ int, item *goquery.Selection) {
		heading := item.Find("h3").First()
		title := compact(heading.Text())
		if title == "" {
			return
		}

		href, ok := heading.Find("a").First().Attr("href")
		if !ok {
			return
		}
		target := urlclean.ResolveRedirect(urlclean.Clean(href))
		if target == "" {
			return
		}

		snippet := compact(item.Find("div.c-abstract").First().Text())

		hits = append(hits, Hit{
			Title:   title,
			Snippet: snippet,
			URL:     target,
		})
	})

	return hits
}
