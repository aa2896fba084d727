package domain

import (
	sha256 "github.com/minio/sha256-simd"
)

// VerifyProof checks a proof against the leaf it is claimed to authenticate
// and the trusted root. It is pure and total: malformed, truncated, or
// adversarial proofs yield false, never a panic or an error.
func VerifyProof(proof *Proof, leaf Node, root Node) bool {
	if proof == nil {
		return false
	}
	switch {
	case proof.Single != nil && proof.Compact == nil:
		return verifySingle(proof.Single, leaf, root)
	case proof.Compact != nil && proof.Single == nil:
		return verifyCompact(proof.Compact, leaf, root)
	default:
		return false
	}
}

func hashPair(left, right Node) Node {
	var buf [64]byte
	copy(buf[:32], left[:])
	copy(buf[32:], right[:])
	return sha256.Sum256(buf[:])
}

// verifySingle walks the authentication path from the leaf to the root.
// The working gindex decides hash order at every level: an even index is a
// left child, an odd one a right child.
func verifySingle(p *SingleProof, leaf Node, root Node) bool {
	if p.GIndex < 1 {
		return false
	}
	// The proof is self-describing; the caller's leaf must be the one the
	// path authenticates.
	if leaf != p.Leaf {
		return false
	}
	if len(p.Witnesses) != p.GIndex.Depth() {
		return false
	}

	current := p.Leaf
	index := p.GIndex
	for _, w := range p.Witnesses {
		if index%2 == 0 {
			current = hashPair(current, w)
		} else {
			current = hashPair(w, current)
		}
		index >>= 1
	}
	return index == 1 && current == root
}

// verifyCompact replays the descriptor's depth-first walk, popping supplied
// nodes on 1-bits and hashing recomputed children on 0-bits. The proof is
// valid only if the walk consumes the descriptor and node list exactly, the
// reconstructed root matches, and the claimed leaf was actually supplied.
func verifyCompact(p *CompactProof, leaf Node, root Node) bool {
	reader := &descriptorReader{d: p.Descriptor}
	nodes := p.Nodes

	var resolve func(depth int) (Node, bool)
	resolve = func(depth int) (Node, bool) {
		// A descriptor deeper than the node width of the tree cannot come
		// from a well-formed prover; cut off runaway recursion.
		if depth > 64 {
			return Node{}, false
		}
		bit, ok := reader.next()
		if !ok {
			return Node{}, false
		}
		if bit {
			if len(nodes) == 0 {
				return Node{}, false
			}
			n := nodes[0]
			nodes = nodes[1:]
			return n, true
		}
		left, ok := resolve(depth + 1)
		if !ok {
			return Node{}, false
		}
		right, ok := resolve(depth + 1)
		if !ok {
			return Node{}, false
		}
		return hashPair(left, right), true
	}

	candidate, ok := resolve(0)
	if !ok || !reader.finished() || len(nodes) != 0 {
		return false
	}
	if candidate != root {
		return false
	}

	// The descriptor cannot say which supplied node is the target, so the
	// claimed leaf must at least be among the values the proof commits to.
	for _, n := range p.Nodes {
		if n == leaf {
			return true
		}
	}
	return false
}
