package status

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Metric names one published value, dotted by owning component
type Metric string

// Group holds the cells of one value type
// Components fetch a cell once at construction and write it from the tick goroutine; the HUD reads concurrently
type Group[T any] struct {
	cells sync.Map // Metric -> *T
	n     atomic.Int32
}

// Get returns the cell for m, allocating it on first use
func (g *Group[T]) Get(m Metric) *T {
	if c, ok := g.cells.Load(m); ok {
		return c.(*T)
	}
	c, loaded := g.cells.LoadOrStore(m, new(T))
	if !loaded {
		g.n.Add(1)
	}
	return c.(*T)
}

// Each visits cells in metric name order
func (g *Group[T]) Each(fn func(m Metric, cell *T)) {
	var names []Metric
	g.cells.Range(func(k, _ any) bool {
		names = append(names, k.(Metric))
		return true
	})
	slices.Sort(names)
	for _, m := range names {
		c, _ := g.cells.Load(m)
		fn(m, c.(*T))
	}
}

func (g *Group[T]) Len() int {
	return int(g.n.Load())
}
