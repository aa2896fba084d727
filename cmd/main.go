package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Marketen/ancestry-prover/internal/adapters"
	"github.com/Marketen/ancestry-prover/internal/application/domain"
	"github.com/Marketen/ancestry-prover/internal/application/ports"
	"github.com/Marketen/ancestry-prover/internal/application/services"
	"github.com/Marketen/ancestry-prover/internal/config"
	"github.com/Marketen/ancestry-prover/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	logger.Info("Starting ancestry-prover")
	logger.Info("Prover backend: %s (%s)", cfg.Backend, cfg.ProverURL)
	logger.Info("Proving slot %d against slot %d", cfg.TargetSlot, cfg.RecentSlot)

	var source ports.ProofSource
	switch cfg.Backend {
	case config.BackendLodestar:
		source = adapters.NewLodestarAdapter(cfg.ProverURL)
	default:
		source = adapters.NewStateProverAdapter(cfg.ProverURL, cfg.Network)
	}

	prover := services.NewAncestryProver(source)
	ctx := context.Background()

	result, err := prove(ctx, cfg, prover)
	if err != nil {
		logger.Error("Failed to build ancestry proof: %v", err)
		os.Exit(1)
	}

	if result.stateRoot != nil {
		if domain.VerifyProof(result.proof, result.targetRoot, *result.stateRoot) {
			logger.Info("Proof verified: block root %s is in state %s",
				result.targetRoot, result.stateRoot)
		} else {
			logger.Error("Proof did NOT verify against state root %s", result.stateRoot)
			os.Exit(1)
		}
	}

	out, err := json.MarshalIndent(result.proof, "", "  ")
	if err != nil {
		logger.Error("Failed to encode proof: %v", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

type proveResult struct {
	proof      *domain.Proof
	targetRoot domain.Node
	stateRoot  *domain.Node // set only when a beacon node supplied the headers
}

// prove builds the proof, going through the beacon node for headers when
// one is configured. With headers in hand the recent state root is known
// locally, so the proof can be checked before it is emitted.
func prove(
	ctx context.Context,
	cfg *config.Config,
	prover *services.AncestryProver,
) (*proveResult, error) {
	if cfg.BeaconNodeURL == "" {
		proof, err := prover.Prove(ctx, cfg.TargetSlot, cfg.RecentSlot, cfg.RecentStateID)
		if err != nil {
			return nil, err
		}
		return &proveResult{proof: proof}, nil
	}

	headers, err := adapters.NewBeaconHTTPAdapter(cfg.BeaconNodeURL)
	if err != nil {
		return nil, err
	}

	target, err := headers.BlockHeader(ctx, cfg.TargetSlot)
	if err != nil {
		return nil, err
	}
	recent, err := headers.BlockHeader(ctx, cfg.RecentSlot)
	if err != nil {
		return nil, err
	}

	proof, err := prover.ProveHeaders(ctx, target, recent)
	if err != nil {
		return nil, err
	}

	targetRoot, err := target.HashTreeRoot()
	if err != nil {
		return nil, err
	}

	stateRoot := domain.Node(recent.StateRoot)
	return &proveResult{
		proof:      proof,
		targetRoot: domain.Node(targetRoot),
		stateRoot:  &stateRoot,
	}, nil
}
