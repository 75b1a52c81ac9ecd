package pipeline

import (
	"sync/atomic"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestBufferRefcountConservation verifies that for any sequence of
// Retain/Release/Slice calls, the refcount after replaying the sequence
// equals 1 (the initial reference) plus the net Retain/Slice count minus
// the Release count, and never goes negative for a balanced sequence.
func TestBufferRefcountConservation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("refcount equals 1 + retains - releases for a balanced op sequence", prop.ForAll(
		func(retains, releases int) bool {
			b := NewBuffer([]byte("x"))
			held := make([]*Buffer, 0, retains)
			for i := 0; i < retains; i++ {
				held = append(held, b.Retain())
			}
			for i := 0; i < releases && i < retains; i++ {
				held[i].Release()
			}
			want := int32(1 + retains - min(releases, retains))
			return atomic.LoadInt32(b.refs) == want
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
	))

	properties.Property("Slice shares the parent's refcount pointer and increments it", prop.ForAll(
		func(n int) bool {
			data := make([]byte, 10)
			b := NewBuffer(data)
			children := make([]*Buffer, 0, n)
			for i := 0; i < n; i++ {
				children = append(children, b.Slice(0, 1))
			}
			if atomic.LoadInt32(b.refs) != int32(1+n) {
				return false
			}
			for _, c := range children {
				if c.refs != b.refs {
					return false
				}
				c.Release()
			}
			return atomic.LoadInt32(b.refs) == 1
		},
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
