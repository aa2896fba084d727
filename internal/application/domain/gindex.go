package domain

// Generalized-index navigation of the mainnet beacon state tree: the root
// of the tree is index 1 and the children of node i are 2i and 2i+1. A
// container field at offset f out of n fields lives at next_pow2(n)+f, and
// element k of a fixed vector rooted at g lives at g*next_pow2(N)+k.
const (
	// Field count of the mainnet BeaconState container (capella onward).
	beaconStateFieldCount = 28

	// block_roots is the sixth field of the state container.
	blockRootsFieldOffset = 5
)

// nextPow2 returns the smallest power of two >= v.
func nextPow2(v uint64) uint64 {
	p := uint64(1)
	for p < v {
		p <<= 1
	}
	return p
}

// containerFieldGIndex returns the generalized index of field `offset` in a
// container with `fields` fields, rooted at the tree root.
func containerFieldGIndex(fields, offset uint64) GeneralizedIndex {
	return GeneralizedIndex(nextPow2(fields) + offset)
}

// vectorElementGIndex returns the generalized index of element k in a
// fixed-length vector of capacity n, itself rooted at g.
func vectorElementGIndex(g GeneralizedIndex, n, k uint64) GeneralizedIndex {
	return g*GeneralizedIndex(nextPow2(n)) + GeneralizedIndex(k)
}

// BlockRootsGIndex resolves the generalized index of the block_roots entry
// for the given slot inside the mainnet beacon state. The accumulator is a
// rolling vector, so only slot mod SlotsPerHistoricalRoot matters.
//
// For the mainnet schema the block_roots field sits at gindex 37 and the
// vector holds 8192 roots, so slot 7_879_316 resolves to 309_908.
func BlockRootsGIndex(slot Slot) GeneralizedIndex {
	offset := uint64(slot % SlotsPerHistoricalRoot)
	fieldG := containerFieldGIndex(beaconStateFieldCount, blockRootsFieldOffset)
	return vectorElementGIndex(fieldG, uint64(SlotsPerHistoricalRoot), offset)
}

// Depth returns the number of tree levels between g and the root, which is
// also the witness count a single-branch proof for g must carry.
func (g GeneralizedIndex) Depth() int {
	d := 0
	for i := g; i > 1; i >>= 1 {
		d++
	}
	return d
}
