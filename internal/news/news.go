// Package news holds the candidate item model, the IT-relevance filter
// and the selection policy for the publishing pipeline.
package news

import (
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Item is one candidate article, rebuilt on every fetch cycle.
type Item struct {
	ID      string // canonical link, dedup key
	Title   string
	Summary string
	Image   string // optional enclosure/media URL
	PubDate time.Time
}

// DefaultSummary is used when a feed item carries no usable description.
const DefaultSummary = "Без описания"

var itKeywords = []string{
	"programming",
	"coding",
	"developer",
	"JavaScript",
	"Python",
	"AI",
	"artificial intelligence",
	"machine learning",
	"tech",
	"software",
	"framework",
	"library",
	"open source",
	"API",
	"GitHub",
	"dev",
	"typescript",
	"react",
	"node.js",
	"cloud",
	"backend",
	"frontend",
}

// IsITNews reports whether the text mentions at least one IT keyword.
// Plain case-insensitive substring match, no word boundaries.
func IsITNews(text string) bool {
	text = strings.ToLower(text)
	for _, k := range itKeywords {
		if strings.Contains(text, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// ExcludeSent drops items whose ID is already known to the store.
func ExcludeSent(items []Item, isSent func(id string) bool) []Item {
	fresh := make([]Item, 0, len(items))
	for _, it := range items {
		if !isSent(it.ID) {
			fresh = append(fresh, it)
		}
	}
	return fresh
}

// SortByDate orders items most recent first. Items without a parseable
// publish date carry a zero time and sort as the oldest.
func SortByDate(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PubDate.After(items[j].PubDate)
	})
}

// Pick sorts the candidates by recency and picks uniformly at random among
// the topFresh most recent ones. Always surfacing the single newest item
// would make the channel predictable run to run; going deeper would surface
// stale backlog. Returns false when the pool is empty.
func Pick(items []Item, topFresh int) (Item, bool) {
	if len(items) == 0 {
		return Item{}, false
	}
	SortByDate(items)
	if topFresh > len(items) {
		topFresh = len(items)
	}
	return items[rand.Intn(topFresh)], true
}
