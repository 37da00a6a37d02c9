package model

// collection is an insertion-ordered, name-keyed container. It backs every
// name-keyed collection in the graph (samples, files, programs, parameters)
// so that serialization and export order never depend on map iteration.
type collection[T any] struct {
	keys  []string
	items map[string]T
}

// add inserts v under key. Returns false if the key is already present;
// callers turn that into a DUPLICATE_NAME error with container context.
func (c *collection[T]) add(key string, v T) bool {
	if c.items == nil {
		c.items = make(map[string]T)
	}
	if _, exists := c.items[key]; exists {
		return false
	}
	c.items[key] = v
	c.keys = append(c.keys, key)
	return true
}

// get returns the value under key and whether it exists.
func (c *collection[T]) get(key string) (T, bool) {
	v, ok := c.items[key]
	return v, ok
}

// ordered returns the keys in insertion order. The returned slice is the
// internal one; callers must not modify it.
func (c *collection[T]) ordered() []string {
	return c.keys
}

// values returns the items in insertion order.
func (c *collection[T]) values() []T {
	out := make([]T, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.items[k])
	}
	return out
}

func (c *collection[T]) len() int { return len(c.keys) }
