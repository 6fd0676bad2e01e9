package serp

import (
	"encoding/base64"
	"net/url"
	"strings"
	"testing"
)

const bingListing = `
<html><body><ol id="b_results">
<li class="b_algo">
  <h2><a href="https://www.bing.com/ck/a?!&amp;&amp;p=x&amp;u=a1aHR0cHM6Ly9ncmlkc3RvcmUuZXhhbXBsZS9wcm9qZWN0cw">GridStore 200MWh BESS project</a></h2>
  <div class="b_attribution"><cite>https://gridstore.example › projects</cite></div>
  <div class="b_caption"><h2>ignored duplicate heading</h2><p>A 200MWh battery energy storage project came online.</p></div>
</li>
<li class="b_algo">
  <h2><a href="https://www.bing.com/ck/a?!&amp;&amp;p=y&amp;u=a1aHR0cHM6Ly92b2x0ZXBjLmV4YW1wbGUv">VoltEPC — storage EPC services</a></h2>
  <div class="b_caption"><p>Turnkey EPC for utility-scale storage.</p></div>
</li>
<li class="b_algo">
  <h2></h2>
  <div class="b_caption"><p>malformed item without a title</p></div>
</li>
</ol></body></html>`

func TestParse_Bing(t *testing.T) {
	hits, err := Parse(bingListing, Bing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d: %+v", len(hits), hits)
	}

	first := hits[0]
	if first.Title != "GridStore 200MWh BESS project" {
		t.Errorf("unexpected title %q", first.Title)
	}
	// Attribution cite wins over the tracking link.
	if first.URL != "https://gridstore.example" {
		t.Errorf("expected cite-derived URL, got %q", first.URL)
	}
	if first.RedirectURL == "" {
		t.Errorf("expected redirect URL to be retained")
	}
	if first.Snippet != "A 200MWh battery energy storage project came online." {
		t.Errorf("unexpected snippet %q", first.Snippet)
	}

	// No cite: the click-redirect link is resolved instead.
	if hits[1].URL != "https://voltepc.example/" {
		t.Errorf("expected resolved redirect, got %q", hits[1].URL)
	}
}

const baiduListing = `
<html><body>
<div class="result">
  <h3><a href="https://stor.example/news/1">Pumped hydro expansion</a></h3>
  <div class="c-abstract">Capacity doubled at the plant.</div>
</div>
<div class="result">
  <h3><a href="REDIRECT">Embedded tracking link</a></h3>
  <div class="c-abstract">Listed through Bing.</div>
</div>
<div class="result"><div class="c-abstract">no heading here</div></div>
</body></html>`

func TestParse_Baidu(t *testing.T) {
	target := "https://tracked.example/page"
	encoded := base64.StdEncoding.EncodeToString([]byte(target))
	redirect := "https://www.bing.com/ck/a?u=" + url.QueryEscape("a1"+encoded)

	html := strings.Replace(baiduListing, "REDIRECT", redirect, 1)

	hits, err := Parse(html, Baidu)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].URL != "https://stor.example/news/1" {
		t.Errorf("unexpected URL %q", hits[0].URL)
	}
	if hits[1].URL != target {
		t.Errorf("expected unwrapped tracking link %q, got %q", target, hits[1].URL)
	}
}

const googleListing = `
<html><body>
<div class="g">
  <a href="/url?q=https://flywheel.example/tech&amp;sa=U">
    <h3>Flywheel storage explained</h3>
  </a>
  <div class="VwiC3b">How kinetic storage smooths the grid.</div>
</div>
<div class="g">
  <a href="https://microgrid.example/">
    <h3>Microgrid integrators</h3>
  </a>
  <div class="IsZvec">Integration services for island grids.</div>
</div>
<div class="g"><a href="https://nameless.example/">no heading</a></div>
</body></html>`

func TestParse_Google(t *testing.T) {
	hits, err := Parse(googleListing, Google)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].URL != "https://flywheel.example/tech" {
		t.Errorf("expected /url?q= unwrapped, got %q", hits[0].URL)
	}
	if hits[0].Snippet != "How kinetic storage smooths the grid." {
		t.Errorf("unexpected snippet %q", hits[0].Snippet)
	}
	if hits[1].Snippet != "Integration services for island grids." {
		t.Errorf("expected IsZvec fallback snippet, got %q", hits[1].Snippet)
	}
}

func TestParse_GoogleAlternateContainer(t *testing.T) {
	html := `<html><body>
	<div class="tF2Cxc">
	  <a href="https://ess.example/"><h3>ESS vendors</h3></a>
	  <span class="aCOpRe">Vendor directory.</span>
	</div>
	</body></html>`

	hits, err := Parse(html, Google)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].URL != "https://ess.example/" {
		t.Fatalf("expected tF2Cxc fallback to find the hit, got %+v", hits)
	}
	if hits[0].Snippet != "Vendor directory." {
		t.Errorf("expected aCOpRe fallback snippet, got %q", hits[0].Snippet)
	}
}

func TestParsePages_ConcatenatesInOrder(t *testing.T) {
	page1 := `<div class="result"><h3><a href="https://a.example/">first</a></h3></div>`
	page2 := `<div class="result"><h3><a href="https://b.example/">second</a></h3></div>`

	hits := ParsePages([]string{page1, "", page2}, Baidu)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Title != "first" || hits[1].Title != "second" {
		t.Errorf("page order not preserved: %+v", hits)
	}
}

func TestParseEngine(t *testing.T) {
	for name, want := range map[string]Engine{"bing": Bing, "Baidu": Baidu, " google ": Google} {
		got, err := ParseEngine(name)
		if err != nil || got != want {
			t.Errorf("ParseEngine(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseEngine("altavista"); err == nil {
		t.Errorf("expected error for unsupported engine")
	}
}
