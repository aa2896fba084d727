package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Marketen/ancestry-prover/internal/application/domain"
)

// Backend selects which proof provider the prover talks to.
type Backend string

const (
	BackendStateProver Backend = "state_prover"
	BackendLodestar    Backend = "lodestar"
)

// Config holds runtime configuration for the ancestry-prover command. The
// library core takes all of this through constructors; env vars exist only
// at this outermost layer.
type Config struct {
	Backend       Backend
	ProverURL     string
	Network       string
	BeaconNodeURL string
	TargetSlot    domain.Slot
	RecentSlot    domain.Slot
	RecentStateID string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	proverURL := strings.TrimSpace(os.Getenv("PROVER_URL"))
	if proverURL == "" {
		return nil, fmt.Errorf("PROVER_URL is required")
	}

	backendStr := strings.TrimSpace(os.Getenv("PROVER_BACKEND"))
	if backendStr == "" {
		backendStr = string(BackendStateProver)
	}
	backend := Backend(backendStr)
	if backend != BackendStateProver && backend != BackendLodestar {
		return nil, fmt.Errorf("invalid PROVER_BACKEND: %q (want %q or %q)",
			backendStr, BackendStateProver, BackendLodestar)
	}

	network := strings.TrimSpace(os.Getenv("NETWORK"))
	if network == "" {
		network = "mainnet"
	}

	targetSlot, err := slotFromEnv("TARGET_SLOT")
	if err != nil {
		return nil, err
	}
	recentSlot, err := slotFromEnv("RECENT_SLOT")
	if err != nil {
		return nil, err
	}

	stateID := strings.TrimSpace(os.Getenv("RECENT_STATE_ID"))
	beaconURL := strings.TrimSpace(os.Getenv("BEACON_NODE_URL"))
	if stateID == "" && beaconURL == "" {
		return nil, fmt.Errorf("either RECENT_STATE_ID or BEACON_NODE_URL is required")
	}

	return &Config{
		Backend:       backend,
		ProverURL:     proverURL,
		Network:       network,
		BeaconNodeURL: beaconURL,
		TargetSlot:    targetSlot,
		RecentSlot:    recentSlot,
		RecentStateID: stateID,
	}, nil
}

func slotFromEnv(name string) (domain.Slot, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return domain.Slot(n), nil
}
