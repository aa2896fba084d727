package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/Marketen/ancestry-prover/internal/application/domain"
	"github.com/Marketen/ancestry-prover/internal/application/ports"
)

// stateProverClient implements ports.ProofSource against a state-prover
// service, which serves single-branch proofs for arbitrary generalized
// indices of a beacon state.
type stateProverClient struct {
	network string
	baseURL string
	client  *nethttp.Client
}

// NewStateProverAdapter is the constructor used from main.go. The network
// name ("mainnet", "sepolia", ...) selects which chain the prover serves.
func NewStateProverAdapter(baseURL, network string) ports.ProofSource {
	return &stateProverClient{
		network: network,
		baseURL: baseURL,
		client: &nethttp.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// GetStateProof fetches a single-branch proof for gindex inside the state
// named by stateID.
func (s *stateProverClient) GetStateProof(
	ctx context.Context,
	stateID string,
	gindex domain.GeneralizedIndex,
) (*domain.Proof, error) {
	req := fmt.Sprintf("%s/state_proof?state_id=%s&gindex=%d&network=%s",
		s.baseURL, url.QueryEscape(stateID), gindex, url.QueryEscape(s.network))

	return s.get(ctx, req)
}

// GetBlockProof fetches a single-branch proof for gindex inside the block
// named by blockID, from the prover's block proof endpoint.
func (s *stateProverClient) GetBlockProof(
	ctx context.Context,
	blockID string,
	gindex domain.GeneralizedIndex,
) (*domain.Proof, error) {
	req := fmt.Sprintf("%s/block_proof/?block_id=%s&gindex=%d&network=%s",
		s.baseURL, url.QueryEscape(blockID), gindex, url.QueryEscape(s.network))

	return s.get(ctx, req)
}

func (s *stateProverClient) get(ctx context.Context, rawURL string) (*domain.Proof, error) {
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(domain.ErrInput, err.Error())
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(domain.ErrNetwork, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == nethttp.StatusNotFound {
		return nil, errors.Wrap(domain.ErrNotFound, rawURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Wrapf(domain.ErrNetwork, "unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(domain.ErrNetwork, err.Error())
	}

	var proof domain.Proof
	if err := json.Unmarshal(body, &proof); err != nil {
		return nil, errors.Wrap(domain.ErrSerialization, err.Error())
	}
	return &proof, nil
}
