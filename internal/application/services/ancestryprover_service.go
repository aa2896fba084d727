package services

import (
	"context"
	"fmt"

	"github.com/attestantio/go-eth2-client/spec/phase0"
	"github.com/pkg/errors"

	"github.com/Marketen/ancestry-prover/internal/application/domain"
	"github.com/Marketen/ancestry-prover/internal/application/ports"
	"github.com/Marketen/ancestry-prover/internal/logger"
)

// AncestryProver produces proofs that a target block's root is an ancestor
// entry inside the block_roots accumulator of a recent state. It holds no
// state beyond the injected proof source, so concurrent Prove calls are
// independent.
type AncestryProver struct {
	source ports.ProofSource
}

// NewAncestryProver constructs an AncestryProver with its backend injected.
func NewAncestryProver(source ports.ProofSource) *AncestryProver {
	return &AncestryProver{source: source}
}

// Prove builds an ancestry proof for targetSlot against the state named by
// recentStateID (the hash tree root of the recent block, or "latest").
//
// The target cannot be more than SlotsPerHistoricalRoot slots behind the
// recent block; older ancestry needs historical-summary proofs, which this
// prover does not produce, so such requests fail with ErrUnsupportedRange.
func (p *AncestryProver) Prove(
	ctx context.Context,
	targetSlot domain.Slot,
	recentSlot domain.Slot,
	recentStateID string,
) (*domain.Proof, error) {
	if targetSlot > recentSlot {
		return nil, errors.Wrapf(domain.ErrInput,
			"target slot %d is ahead of recent slot %d", targetSlot, recentSlot)
	}
	if recentSlot-targetSlot >= domain.SlotsPerHistoricalRoot {
		return nil, errors.Wrapf(domain.ErrUnsupportedRange,
			"distance %d, window %d", recentSlot-targetSlot, domain.SlotsPerHistoricalRoot)
	}

	gindex := domain.BlockRootsGIndex(targetSlot)
	logger.Debug("Proving slot %d against %s (gindex %d)", targetSlot, recentStateID, gindex)

	proof, err := p.source.GetStateProof(ctx, recentStateID, gindex)
	if err != nil {
		return nil, err
	}
	return proof, nil
}

// ProveHeaders is a convenience over Prove for callers holding the two
// block headers, e.g. from a light client update. The recent header's hash
// tree root names the state to prove against.
func (p *AncestryProver) ProveHeaders(
	ctx context.Context,
	target *phase0.BeaconBlockHeader,
	recent *phase0.BeaconBlockHeader,
) (*domain.Proof, error) {
	if target == nil || recent == nil {
		return nil, errors.Wrap(domain.ErrInput, "nil block header")
	}

	recentRoot, err := recent.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(domain.ErrInput, "hashing recent header")
	}
	stateID := fmt.Sprintf("%#x", recentRoot)

	return p.Prove(ctx, domain.Slot(target.Slot), domain.Slot(recent.Slot), stateID)
}
