package adapters

import (
	"context"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/attestantio/go-eth2-client/api"
	eth2http "github.com/attestantio/go-eth2-client/http"
	"github.com/attestantio/go-eth2-client/spec/phase0"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Marketen/ancestry-prover/internal/application/domain"
	"github.com/Marketen/ancestry-prover/internal/application/ports"
)

// beaconHTTPClient implements ports.HeaderSource using go-eth2-client.
type beaconHTTPClient struct {
	client *eth2http.Service
}

// NewBeaconHTTPAdapter is the constructor used from main.go.
func NewBeaconHTTPAdapter(endpoint string) (ports.HeaderSource, error) {
	// Silence go-eth2-client logs unless they are warnings+.
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	customHTTPClient := &nethttp.Client{
		Timeout: 2000 * time.Second, // global upper bound; per-request timeout below
	}

	client, err := eth2http.New(
		context.Background(),
		eth2http.WithAddress(endpoint),
		eth2http.WithHTTPClient(customHTTPClient),
		// This is the per-request timeout used by go-eth2-client.
		eth2http.WithTimeout(20*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &beaconHTTPClient{client: client.(*eth2http.Service)}, nil
}

// BlockHeader returns the canonical block header at `slot`. A missed slot
// (404 from the node) surfaces as ErrNotFound so callers can pick a
// neighboring slot instead.
func (b *beaconHTTPClient) BlockHeader(
	ctx context.Context,
	slot domain.Slot,
) (*phase0.BeaconBlockHeader, error) {
	resp, err := b.client.BeaconBlockHeader(ctx, &api.BeaconBlockHeaderOpts{
		Block: fmt.Sprintf("%d", slot),
	})
	if err != nil {
		if apiErr, ok := err.(*api.Error); ok && apiErr.StatusCode == 404 {
			return nil, errors.Wrapf(domain.ErrNotFound, "no block at slot %d", slot)
		}
		return nil, errors.Wrap(domain.ErrNetwork, err.Error())
	}

	if resp == nil || resp.Data == nil || resp.Data.Header == nil || resp.Data.Header.Message == nil {
		return nil, errors.Wrapf(domain.ErrSerialization, "empty header response for slot %d", slot)
	}
	return resp.Data.Header.Message, nil
}
