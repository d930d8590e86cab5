package crud

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const NotAssigned = "Not Assigned"

type ListState int

const (
	ListIdle ListState = iota
	ListLoading
	ListReady
)

func (s ListState) String() string {
	switch s {
	case ListLoading:
		return "loading"
	case ListReady:
		return "ready"
	default:
		return "idle"
	}
}

type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

type Banner struct {
	Kind    BannerKind `json:"kind"`
	Message string     `json:"message"`
}

type ListConfig[T Entity] struct {
	// Resource is the lower-case singular name used in banners.
	Resource string
	// Plural overrides Resource+"s" in the load failure banner.
	Plural string
	Fetch  func(ctx context.Context) ([]T, error)
	// Lookups resolve foreign keys in rows to labels.
	Lookups    map[string]Fetcher
	SearchText func(T) []string
	PageSize   int
	BannerTTL  time.Duration
	Logger     *logrus.Logger
}

// PageView is what a renderer needs for one page of the filtered list.
type PageView[T Entity] struct {
	Items    []T
	Page     int
	Pages    int
	PageSize int
	Filtered int
	Total    int
	Search   string
}

// ListController owns the authoritative Collection of a list page. Modals
// reach it only through OnCreateSuccess, OnUpdateSuccess and
// OnDeleteSuccess.
type ListController[T Entity] struct {
	cfg ListConfig[T]
	log *logrus.Logger

	mu          sync.Mutex
	state       ListState
	coll        *Collection[T]
	lookups     *References
	search      string
	page        int
	pageSize    int
	banner      *Banner
	bannerTimer *time.Timer
	bannerGen   uint64
	mountGen    uint64

	listenersMu sync.Mutex
	listeners   map[uint64]func()
	nextID      uint64
}

func NewList[T Entity](cfg ListConfig[T]) *ListController[T] {
	if cfg.Plural == "" {
		cfg.Plural = cfg.Resource + "s"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ListController[T]{
		cfg:       cfg,
		log:       log,
		coll:      NewCollection[T](nil),
		lookups:   NewReferences(),
		page:      1,
		pageSize:  cfg.PageSize,
		listeners: map[uint64]func(){},
	}
}

// Mount loads the collection and its lookups concurrently. Lookup failures
// degrade to empty lists; a primary failure empties the collection and
// raises the load failure banner.
func (l *ListController[T]) Mount(ctx context.Context) error {
	l.mu.Lock()
	l.mountGen++
	gen := l.mountGen
	l.state = ListLoading
	l.mu.Unlock()
	l.notify()

	lookups := NewPrefetcher(l.cfg.Lookups, l.log).Run
	var (
		items   []T
		loadErr error
		refs    *References
	)
	var g errgroup.Group
	g.Go(func() error {
		if l.cfg.Fetch == nil {
			loadErr = errors.New("no fetch configured")
			return nil
		}
		items, loadErr = l.cfg.Fetch(ctx)
		return nil
	})
	g.Go(func() error {
		refs = lookups(ctx)
		return nil
	})
	_ = g.Wait()

	l.mu.Lock()
	if gen != l.mountGen {
		l.mu.Unlock()
		return ErrStale
	}
	l.state = ListReady
	l.lookups = refs
	if loadErr != nil {
		l.coll.Reset(nil)
		l.page = 1
		l.setBannerLocked(BannerError, "Failed to load "+l.cfg.Plural+". Please refresh the page.")
		l.mu.Unlock()
		l.log.WithError(loadErr).WithField("resource", l.cfg.Resource).Error("failed to load list")
		l.notify()
		return errors.Wrapf(loadErr, "load %s", l.cfg.Plural)
	}
	l.coll.Reset(items)
	l.clampLocked()
	l.mu.Unlock()
	l.notify()
	return nil
}

// Refetch reloads the collection without resetting search or paging.
func (l *ListController[T]) Refetch(ctx context.Context) error {
	return l.Mount(ctx)
}

// Unmount stops the banner timer. The controller must not be reused.
func (l *ListController[T]) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mountGen++
	if l.bannerTimer != nil {
		l.bannerTimer.Stop()
		l.bannerTimer = nil
	}
}

func (l *ListController[T]) State() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *ListController[T]) OnCreateSuccess(record T) {
	l.mu.Lock()
	l.coll.Prepend(record)
	l.clampLocked()
	l.setBannerLocked(BannerSuccess, l.title()+" added successfully!")
	l.mu.Unlock()
	l.notify()
}

// OnUpdateSuccess replaces the member with record's key. It reports false
// when no member matched, which leaves the collection untouched.
func (l *ListController[T]) OnUpdateSuccess(record T) bool {
	l.mu.Lock()
	replaced := l.coll.Replace(record)
	if replaced {
		l.clampLocked()
		l.setBannerLocked(BannerSuccess, l.title()+" updated successfully!")
	}
	l.mu.Unlock()
	if !replaced {
		l.log.WithFields(logrus.Fields{
			"resource": l.cfg.Resource,
			"key":      record.Key(),
		}).Warn("updated record is not in the list")
		return false
	}
	l.notify()
	return true
}

func (l *ListController[T]) OnDeleteSuccess(key string) bool {
	l.mu.Lock()
	removed := l.coll.Remove(key)
	if removed {
		l.clampLocked()
		l.setBannerLocked(BannerSuccess, l.title()+" deleted successfully!")
	}
	l.mu.Unlock()
	if removed {
		l.notify()
	}
	return removed
}

func (l *ListController[T]) Search(term string) {
	l.mu.Lock()
	l.search = strings.TrimSpace(term)
	l.page = 1
	l.clampLocked()
	l.mu.Unlock()
	l.notify()
}

func (l *ListController[T]) SetPage(page int) {
	l.mu.Lock()
	l.page = page
	l.clampLocked()
	l.mu.Unlock()
	l.notify()
}

func (l *ListController[T]) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	l.mu.Lock()
	l.pageSize = size
	l.clampLocked()
	l.mu.Unlock()
	l.notify()
}

func (l *ListController[T]) View() PageView[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pageLocked(l.search, l.page, l.pageSize)
}

// Query renders one page for the given search and paging without changing
// the controller's own search or paging. A non-positive size falls back to
// the current page size.
func (l *ListController[T]) Query(search string, page, size int) PageView[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	if size <= 0 {
		size = l.pageSize
	}
	return l.pageLocked(strings.TrimSpace(search), page, size)
}

// pageLocked reports at least one page so that Page stays within [1, Pages].
func (l *ListController[T]) pageLocked(search string, page, size int) PageView[T] {
	filtered := l.filterLocked(search)
	pages := max(PageCount(len(filtered), size), 1)
	page = ClampPage(page, pages)
	start := min((page-1)*size, len(filtered))
	end := min(start+size, len(filtered))
	return PageView[T]{
		Items:    filtered[start:end],
		Page:     page,
		Pages:    pages,
		PageSize: size,
		Filtered: len(filtered),
		Total:    l.coll.Len(),
		Search:   search,
	}
}

func (l *ListController[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.coll.Items()
}

func (l *ListController[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.coll.Len()
}

func (l *ListController[T]) Find(key string) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.coll.Find(key)
}

// Lookup resolves value against the lookup list name.
func (l *ListController[T]) Lookup(name, value string) string {
	if value == "" {
		return NotAssigned
	}
	l.mu.Lock()
	refs := l.lookups
	l.mu.Unlock()
	if opt, ok := refs.Find(name, value); ok && opt.Label != "" {
		return opt.Label
	}
	return NotAssigned
}

func (l *ListController[T]) LookupOptions(name string) []Option {
	l.mu.Lock()
	refs := l.lookups
	l.mu.Unlock()
	return refs.Sorted(name)
}

func (l *ListController[T]) Banner() (Banner, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.banner == nil {
		return Banner{}, false
	}
	return *l.banner, true
}

func (l *ListController[T]) ShowError(message string) {
	l.mu.Lock()
	l.setBannerLocked(BannerError, message)
	l.mu.Unlock()
	l.notify()
}

// Subscribe registers fn to run after every state change.
func (l *ListController[T]) Subscribe(fn func()) func() {
	l.listenersMu.Lock()
	defer l.listenersMu.Unlock()
	l.nextID++
	id := l.nextID
	l.listeners[id] = fn
	return func() {
		l.listenersMu.Lock()
		defer l.listenersMu.Unlock()
		delete(l.listeners, id)
	}
}

func (l *ListController[T]) notify() {
	l.listenersMu.Lock()
	fns := make([]func(), 0, len(l.listeners))
	for _, fn := range l.listeners {
		fns = append(fns, fn)
	}
	l.listenersMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (l *ListController[T]) title() string {
	if l.cfg.Resource == "" {
		return "Record"
	}
	return strings.ToUpper(l.cfg.Resource[:1]) + l.cfg.Resource[1:]
}

func (l *ListController[T]) setBannerLocked(kind BannerKind, message string) {
	l.bannerGen++
	gen := l.bannerGen
	l.banner = &Banner{Kind: kind, Message: message}
	if l.bannerTimer != nil {
		l.bannerTimer.Stop()
		l.bannerTimer = nil
	}
	if l.cfg.BannerTTL <= 0 {
		return
	}
	l.bannerTimer = time.AfterFunc(l.cfg.BannerTTL, func() {
		l.mu.Lock()
		if l.bannerGen != gen {
			l.mu.Unlock()
			return
		}
		l.banner = nil
		l.bannerTimer = nil
		l.mu.Unlock()
		l.notify()
	})
}

func (l *ListController[T]) filterLocked(search string) []T {
	items := l.coll.Items()
	if search == "" || l.cfg.SearchText == nil {
		return items
	}
	term := strings.ToLower(search)
	out := items[:0]
	for _, item := range items {
		for _, text := range l.cfg.SearchText(item) {
			if strings.Contains(strings.ToLower(text), term) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

func (l *ListController[T]) clampLocked() {
	l.page = ClampPage(l.page, PageCount(len(l.filterLocked(l.search)), l.pageSize))
}

// PageCount is ceil(n/size).
func PageCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ClampPage keeps page within [1, pages]. An empty list still shows page 1.
func ClampPage(page, pages int) int {
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	return page
}
