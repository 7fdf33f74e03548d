// scraper/rootserver_scraper.go
package scraper

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// RootServerEntry is one (name, url) pair scraped from the root server
// directory page.
type RootServerEntry struct {
	Name string
	URL  string
}

// FetchRootServerList scrapes the HTML directory page that lists known BMLT
// root servers. rowSelector must match one anchor per server; the anchor text
// is the server name and its href the server base URL. Rows without an
// absolute http(s) href are skipped with a warning rather than failing the
// whole scrape.
func FetchRootServerList(listPageURL, rowSelector string) ([]RootServerEntry, error) {
	log.Printf("Scraper: Fetching root server list from %s\n", listPageURL)

	client := http.Client{
		Timeout: 30 * time.Second,
	}
	resp, err := client.Get(listPageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to make GET request to %s: %w", listPageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch root server list from %s: received status code %d", listPageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse root server list page: %w", err)
	}

	return parseRootServerList(doc, rowSelector), nil
}

func parseRootServerList(doc *goquery.Document, rowSelector string) []RootServerEntry {
	var entries []RootServerEntry
	doc.Find(rowSelector).Each(func(i int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		href = strings.TrimSpace(href)
		name := strings.TrimSpace(sel.Text())
		if !ok || (!strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://")) {
			log.Printf("WARN Scraper: Skipping root server row %d (%q): no absolute URL\n", i, name)
			return
		}
		if name == "" {
			name = href
		}
		entries = append(entries, RootServerEntry{Name: name, URL: href})
	})
	log.Printf("Scraper: Parsed %d root servers from directory page\n", len(entries))
	return entries
}
