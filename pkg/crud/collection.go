package crud

// Entity is anything with a canonical identifier.
type Entity interface {
	Key() string
}

// Collection is an ordered list of records in which no two members share
// a key. It is not safe for concurrent use; ListController guards it.
type Collection[T Entity] struct {
	items []T
}

func NewCollection[T Entity](items []T) *Collection[T] {
	c := &Collection[T]{}
	c.Reset(items)
	return c
}

// Reset replaces the contents. Later duplicates of a key are dropped.
func (c *Collection[T]) Reset(items []T) {
	seen := make(map[string]struct{}, len(items))
	c.items = make([]T, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		c.items = append(c.items, item)
	}
}

// Prepend puts item first. A member with the same key is removed, so the
// count only grows when the key is new.
func (c *Collection[T]) Prepend(item T) {
	c.Remove(item.Key())
	c.items = append([]T{item}, c.items...)
}

// Replace swaps the member sharing item's key in place.
func (c *Collection[T]) Replace(item T) bool {
	key := item.Key()
	for i := range c.items {
		if c.items[i].Key() == key {
			c.items[i] = item
			return true
		}
	}
	return false
}

func (c *Collection[T]) Remove(key string) bool {
	for i := range c.items {
		if c.items[i].Key() == key {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Collection[T]) Find(key string) (T, bool) {
	for _, item := range c.items {
		if item.Key() == key {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Items returns a copy in display order.
func (c *Collection[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) Len() int {
	return len(c.items)
}
