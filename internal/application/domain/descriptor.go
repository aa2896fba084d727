package domain

import (
	"github.com/pkg/errors"
)

// The proof descriptor is a depth-first walk of the minimal subtree
// spanning the requested generalized indices. Each bit describes one node
// in visit order: 0 means the node is internal and its two children follow,
// 1 means the node's value is supplied directly in the proof's node list.
// Bits are packed most-significant first and the final byte is zero-padded.

// ComputeProofDescriptor builds the descriptor for a set of requested
// generalized indices, as expected by provers that take the descriptor as a
// query parameter. Indices must be non-zero and no index may be an ancestor
// of another.
func ComputeProofDescriptor(indices []GeneralizedIndex) (Descriptor, error) {
	if len(indices) == 0 {
		return nil, errors.Wrap(ErrInput, "no gindices requested")
	}

	requested := make(map[GeneralizedIndex]bool, len(indices))
	internal := make(map[GeneralizedIndex]bool)
	for _, g := range indices {
		if g == 0 {
			return nil, errors.Wrap(ErrInput, "gindex 0 is not addressable")
		}
		requested[g] = true
		for a := g >> 1; a >= 1; a >>= 1 {
			internal[a] = true
		}
	}
	for g := range requested {
		if internal[g] {
			return nil, errors.Wrap(ErrInput, "requested gindices overlap")
		}
	}

	var bits []bool
	var walk func(g GeneralizedIndex)
	walk = func(g GeneralizedIndex) {
		if internal[g] {
			bits = append(bits, false)
			walk(2 * g)
			walk(2*g + 1)
			return
		}
		bits = append(bits, true)
	}
	walk(1)

	out := make(Descriptor, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out, nil
}

// descriptorReader consumes descriptor bits in stream order.
type descriptorReader struct {
	d   Descriptor
	pos int
}

func (r *descriptorReader) next() (bit bool, ok bool) {
	if r.pos >= len(r.d)*8 {
		return false, false
	}
	b := r.d[r.pos/8]&(1<<uint(7-r.pos%8)) != 0
	r.pos++
	return b, true
}

// finished reports whether every meaningful bit was consumed: the stream
// must end inside the final byte and all padding bits must be zero.
func (r *descriptorReader) finished() bool {
	if len(r.d) == 0 {
		return false
	}
	if r.pos <= (len(r.d)-1)*8 {
		return false
	}
	for p := r.pos; p < len(r.d)*8; p++ {
		if r.d[p/8]&(1<<uint(7-p%8)) != 0 {
			return false
		}
	}
	return true
}
