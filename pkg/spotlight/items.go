package spotlight

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/iota-uz/hr-console/pkg/types"
)

// Translator turns a message ID into a display label.
type Translator func(id string) string

// Item is one spotlight hit: a label and the command that opens it.
type Item struct {
	Label   string `json:"label" yaml:"label"`
	Command string `json:"command" yaml:"command"`
}

func NewQuickLink(trKey, command string) *QuickLink {
	return &QuickLink{trKey: trKey, command: command}
}

type QuickLink struct {
	trKey     string
	command   string
	protected bool
}

// RequireSession hides the link while nobody is logged in.
func (i *QuickLink) RequireSession() *QuickLink {
	i.protected = true
	return i
}

type QuickLinks struct {
	items []*QuickLink
}

// FromNavigation collects every navigation entry that opens a page.
func FromNavigation(items []types.NavigationItem) *QuickLinks {
	ql := &QuickLinks{}
	var walk func([]types.NavigationItem)
	walk = func(items []types.NavigationItem) {
		for _, it := range items {
			if it.Href != "" {
				link := NewQuickLink(it.Name, it.Href)
				if it.Protected {
					link.RequireSession()
				}
				ql.Add(link)
			}
			walk(it.Children)
		}
	}
	walk(items)
	return ql
}

func (ql *QuickLinks) Add(links ...*QuickLink) {
	ql.items = append(ql.items, links...)
}

// Find ranks the visible links whose label fuzzily matches q, best first.
func (ql *QuickLinks) Find(q string, authenticated bool, tr Translator) []Item {
	links := ql.visibleLinks(authenticated)
	if len(links) == 0 {
		return nil
	}
	words := make([]string, len(links))
	for i, it := range links {
		words[i] = tr(it.trKey)
	}
	ranks := fuzzy.RankFindNormalizedFold(q, words)
	sort.Stable(ranks)

	result := make([]Item, 0, len(ranks))
	for _, rank := range ranks {
		result = append(result, Item{Label: rank.Target, Command: links[rank.OriginalIndex].command})
	}
	return result
}

func (ql *QuickLinks) visibleLinks(authenticated bool) []*QuickLink {
	filtered := make([]*QuickLink, 0, len(ql.items))
	for _, link := range ql.items {
		if !link.protected || authenticated {
			filtered = append(filtered, link)
		}
	}
	return filtered
}
