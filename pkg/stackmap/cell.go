package stackmap

import "sync"

// Cell holds the current state of one container behind a mutex, for owners
// that share a container between goroutines. The zero Cell holds Empty.
type Cell struct {
	mu sync.Mutex
	m  Map
}

// NewCell returns a Cell holding Empty.
func NewCell() *Cell {
	return &Cell{m: Empty{}}
}

// Update replaces the held container with fn's result. fn runs under the
// lock and owns its argument.
func (c *Cell) Update(fn func(Map) Map) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = orEmpty(fn(orEmpty(c.m)))
}

// View runs fn under the lock. fn may write through GetMut but must not
// keep m after returning.
func (c *Cell) View(fn func(m Map)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(orEmpty(c.m))
}

// Swap installs m and returns the previous container.
func (c *Cell) Swap(m Map) Map {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := orEmpty(c.m)
	c.m = orEmpty(m)
	return prev
}

// Len returns the number of values held.
func (c *Cell) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return orEmpty(c.m).Len()
}

// CellInsert inserts value into c and returns the displaced value, if any.
func CellInsert[T any](c *Cell, value T) (old T, existed bool) {
	c.Update(func(m Map) Map {
		f := Insert(m, value)
		old, existed = f.Old()
		return f
	})
	return old, existed
}

// CellRemove removes the T held by c and returns it.
func CellRemove[T any](c *Cell) (value T, ok bool) {
	c.Update(func(m Map) Map {
		f := Remove[T](m)
		value, ok = f.Value()
		return f
	})
	return value, ok
}

// CellGet returns a copy of the T held by c.
func CellGet[T any](c *Cell) (value T, ok bool) {
	c.View(func(m Map) {
		value, ok = Get[T](m)
	})
	return value, ok
}
