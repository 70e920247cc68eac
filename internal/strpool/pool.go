package strpool

import (
	"strings"
	"sync"
)

var pool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func Get() (b *strings.Builder) {
	ifc := pool.Get()
	if ifc != nil {
		b = ifc.(*strings.Builder)
	}
	return
}

func Put(b *strings.Builder) {
	b.Reset()
	pool.Put(b)
}

// Build runs fn against a pooled builder and returns the built string.
func Build(fn func(b *strings.Builder)) string {
	buf := Get()
	defer Put(buf)

	fn(buf)
	return buf.String()
}
