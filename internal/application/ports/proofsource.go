package ports

import (
	"context"

	"github.com/attestantio/go-eth2-client/spec/phase0"

	"github.com/Marketen/ancestry-prover/internal/application/domain"
)

// ProofSource is the hexagonal port for fetching Merkle witness data from
// an external prover. The ancestry prover depends only on this interface,
// not on any concrete backend.
//
// Implementations hold immutable configuration only (base URL, network
// name), perform idempotent GETs, and are safe for concurrent use.
type ProofSource interface {
	// GetStateProof fetches a proof for a generalized index inside the
	// beacon state identified by stateID (a hex root or "latest").
	GetStateProof(
		ctx context.Context,
		stateID string,
		gindex domain.GeneralizedIndex,
	) (*domain.Proof, error)
}

// HeaderSource is the port for resolving slots to beacon block headers.
type HeaderSource interface {
	// BlockHeader returns the canonical header at the given slot.
	BlockHeader(ctx context.Context, slot domain.Slot) (*phase0.BeaconBlockHeader, error)
}
