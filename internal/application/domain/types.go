package domain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Basic consensus types
type Slot uint64
type GeneralizedIndex uint64

// SlotsPerHistoricalRoot is the capacity of the block_roots accumulator in
// the beacon state. Ancestry proofs can only reach back this many slots;
// anything older needs the historical-summaries scheme, which this package
// does not implement.
const SlotsPerHistoricalRoot = Slot(8192)

// Node is a 32-byte hash tree node. On the wire it is a 0x-prefixed hex
// string, matching the state-prover and Lodestar APIs.
type Node [32]byte

func (n Node) String() string {
	return "0x" + hex.EncodeToString(n[:])
}

func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return err
	}
	if len(b) != len(n) {
		return fmt.Errorf("invalid node length %d", len(b))
	}
	copy(n[:], b)
	return nil
}

// Descriptor is the bitstream that drives compact multiproof
// reconstruction. Hex-encoded on the wire.
type Descriptor []byte

func (d Descriptor) String() string {
	return "0x" + hex.EncodeToString(d)
}

func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return err
	}
	*d = b
	return nil
}

// SingleProof is one authentication path from a leaf to the root. The
// witnesses are ordered from the leaf's sibling upward.
type SingleProof struct {
	GIndex    GeneralizedIndex `json:"gindex"`
	Witnesses []Node           `json:"witnesses"`
	Leaf      Node             `json:"leaf"`
}

// CompactProof is a batched multiproof: the descriptor encodes which tree
// positions are supplied in Nodes and which are recomputed from children.
type CompactProof struct {
	Descriptor Descriptor `json:"descriptor"`
	Nodes      []Node     `json:"nodes"`
}

// Proof is the canonical proof value: exactly one of Single or Compact is
// set. The wire encoding is untagged; the two shapes are told apart by
// their field sets (gindex/witnesses/leaf vs descriptor/nodes), which is
// how existing provers serve them.
type Proof struct {
	Single  *SingleProof
	Compact *CompactProof
}

// NewSingleProof wraps a single-branch proof in the canonical union.
func NewSingleProof(gindex GeneralizedIndex, witnesses []Node, leaf Node) *Proof {
	return &Proof{Single: &SingleProof{GIndex: gindex, Witnesses: witnesses, Leaf: leaf}}
}

// NewCompactProof wraps a compact multiproof in the canonical union.
func NewCompactProof(descriptor Descriptor, nodes []Node) *Proof {
	return &Proof{Compact: &CompactProof{Descriptor: descriptor, Nodes: nodes}}
}

func (p Proof) MarshalJSON() ([]byte, error) {
	switch {
	case p.Single != nil && p.Compact == nil:
		return json.Marshal(p.Single)
	case p.Compact != nil && p.Single == nil:
		return json.Marshal(p.Compact)
	default:
		return nil, fmt.Errorf("proof must have exactly one active variant")
	}
}

// UnmarshalJSON probes the field set explicitly rather than trying each
// variant in turn: a body carrying both field sets, or neither, does not
// match any known prover and is rejected.
func (p *Proof) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	_, hasGIndex := raw["gindex"]
	_, hasWitnesses := raw["witnesses"]
	_, hasLeaf := raw["leaf"]
	_, hasDescriptor := raw["descriptor"]
	_, hasNodes := raw["nodes"]

	single := hasGIndex && hasWitnesses && hasLeaf
	compact := hasDescriptor && hasNodes

	switch {
	case single && !compact:
		var sp SingleProof
		if err := json.Unmarshal(data, &sp); err != nil {
			return err
		}
		*p = Proof{Single: &sp}
		return nil
	case compact && !single:
		var cp CompactProof
		if err := json.Unmarshal(data, &cp); err != nil {
			return err
		}
		*p = Proof{Compact: &cp}
		return nil
	default:
		return fmt.Errorf("body matches no known proof shape")
	}
}
