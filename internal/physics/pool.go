package physics

import (
	"sync"

	"github.com/san-kum/gravity/internal/world"
)

// updatePool recycles the per-step update buffers.
type updatePool struct {
	pool sync.Pool
}

func (p *updatePool) Get(n int) []world.Update {
	if v, ok := p.pool.Get().(*[]world.Update); ok && cap(*v) >= n {
		return (*v)[:n]
	}
	return make([]world.Update, n)
}

func (p *updatePool) Put(buf []world.Update) {
	clear(buf)
	buf = buf[:0]
	p.pool.Put(&buf)
}
