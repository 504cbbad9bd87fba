package reconcile

import "github.com/WeDoCheapies/website/internal/realtime"

// Collection is ordered set of rows keyed by row id
type Collection[T realtime.Row] struct {
	rows  []T
	index map[string]int
}

func NewCollection[T realtime.Row](rows ...T) *Collection[T] {
	c := &Collection[T]{
		rows:  make([]T, 0, len(rows)),
		index: make(map[string]int, len(rows)),
	}
	for _, r := range rows {
		c.Insert(r)
	}
	return c
}

// Insert appends row unless row with the same id is already present
func (c *Collection[T]) Insert(row T) bool {
	if _, ok := c.index[row.Key()]; ok {
		return false
	}
	c.index[row.Key()] = len(c.rows)
	c.rows = append(c.rows, row)
	return true
}

// Replace swaps row with the same id keeping its position, absent row is not added
func (c *Collection[T]) Replace(row T) bool {
	i, ok := c.index[row.Key()]
	if !ok {
		return false
	}
	c.rows[i] = row
	return true
}

func (c *Collection[T]) Remove(key string) bool {
	i, ok := c.index[key]
	if !ok {
		return false
	}

	c.rows = append(c.rows[:i], c.rows[i+1:]...)
	delete(c.index, key)
	for j := i; j < len(c.rows); j++ {
		c.index[c.rows[j].Key()] = j
	}
	return true
}

func (c *Collection[T]) Get(key string) (T, bool) {
	i, ok := c.index[key]
	if !ok {
		var zero T
		return zero, false
	}
	return c.rows[i], true
}

// All returns copy of rows in collection order
func (c *Collection[T]) All() []T {
	rows := make([]T, len(c.rows))
	copy(rows, c.rows)
	return rows
}

func (c *Collection[T]) Len() int {
	return len(c.rows)
}
