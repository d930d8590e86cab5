package crud

import (
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Option is one entry of a dropdown. Group places it in a derived index
// (countries by region); Attrs carries extra data such as salary bands.
type Option struct {
	Value string
	Label string
	Group string
	Attrs map[string]string
}

func (o Option) Attr(name string) string {
	if o.Attrs == nil {
		return ""
	}
	return o.Attrs[name]
}

// References holds the option lists of one modal opening. Lists keep fetch
// order; sorting happens on read.
type References struct {
	mu     sync.RWMutex
	lists  map[string][]Option
	groups map[string]map[string][]Option
}

func NewReferences() *References {
	return &References{
		lists:  map[string][]Option{},
		groups: map[string]map[string][]Option{},
	}
}

func (r *References) Set(name string, opts []Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]Option, len(opts))
	copy(list, opts)
	r.lists[name] = list
	index := map[string][]Option{}
	for _, opt := range list {
		if opt.Group != "" {
			index[opt.Group] = append(index[opt.Group], opt)
		}
	}
	r.groups[name] = index
}

// Has reports whether name was fetched, even if it came back empty.
func (r *References) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.lists[name]
	return ok
}

// Options returns name in fetch order, newest nested creations first.
func (r *References) Options(name string) []Option {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Option, len(r.lists[name]))
	copy(out, r.lists[name])
	return out
}

// Sorted returns name ordered by label for display.
func (r *References) Sorted(name string) []Option {
	return SortOptions(r.Options(name))
}

func (r *References) Group(name, group string) []Option {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return SortOptions(r.groups[name][group])
}

func (r *References) Groups(name string) []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.groups[name]))
	for g := range r.groups[name] {
		out = append(out, g)
	}
	c := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool { return c.CompareString(out[i], out[j]) < 0 })
	return out
}

func (r *References) Find(name, value string) (Option, bool) {
	if r == nil {
		return Option{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, opt := range r.lists[name] {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// Prepend adds opt to the front of name and to its group, replacing an
// existing option with the same value.
func (r *References) Prepend(name string, opt Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]Option, 0, len(r.lists[name])+1)
	list = append(list, opt)
	for _, existing := range r.lists[name] {
		if existing.Value != opt.Value {
			list = append(list, existing)
		}
	}
	r.lists[name] = list

	index := map[string][]Option{}
	for _, o := range list {
		if o.Group != "" {
			index[o.Group] = append(index[o.Group], o)
		}
	}
	r.groups[name] = index
}

// SortOptions orders options by label, ignoring case, using English
// collation so accented names sort next to their base letters.
func SortOptions(opts []Option) []Option {
	out := make([]Option, len(opts))
	copy(out, opts)
	c := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Label, out[j].Label) < 0
	})
	return out
}
