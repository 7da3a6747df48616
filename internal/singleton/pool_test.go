package singleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_HandlesAreMonotonic(t *testing.T) {
	p := NewPool[string]()
	h1 := p.Create("a")
	h2 := p.Create("b")
	p.Destroy(h1)
	h3 := p.Create("c")

	assert.Less(t, h1, h2)
	assert.Less(t, h2, h3)

	got := p.Candidates()
	assert.Equal(t, []Candidate[string]{{Handle: h2, Value: "b"}, {Handle: h3, Value: "c"}}, got)
}

type invalidations []Handle

func (i *invalidations) Invalidate(h Handle) { *i = append(*i, h) }

func TestPool_AttachDetach(t *testing.T) {
	p := NewPool[string]()
	w := &invalidations{}
	p.Attach(w)

	h := p.Create("a")
	p.Destroy(h)
	p.Detach(w)
	p.Destroy(p.Create("b"))

	assert.Equal(t, invalidations{h}, *w)
}
