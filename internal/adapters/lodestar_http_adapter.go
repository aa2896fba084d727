package adapters

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Marketen/ancestry-prover/internal/application/domain"
	"github.com/Marketen/ancestry-prover/internal/application/ports"
)

// lodestarClient implements ports.ProofSource against a Lodestar node's
// native proof endpoint, e.g. https://lodestar-mainnet.chainsafe.io. The
// endpoint takes a proof descriptor and returns a compact multiproof.
type lodestarClient struct {
	baseURL string
	client  *nethttp.Client
}

// NewLodestarAdapter is the constructor used from main.go.
func NewLodestarAdapter(baseURL string) ports.ProofSource {
	return &lodestarClient{
		baseURL: baseURL,
		client: &nethttp.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// proofEnvelope is the versioned response shape newer Lodestar releases
// serve instead of the raw node stream.
type proofEnvelope struct {
	Data struct {
		Leaves     []domain.Node     `json:"leaves"`
		Descriptor domain.Descriptor `json:"descriptor"`
	} `json:"data"`
	Version string `json:"version"`
}

// GetStateProof fetches a compact multiproof for gindex inside the state
// named by stateID.
func (l *lodestarClient) GetStateProof(
	ctx context.Context,
	stateID string,
	gindex domain.GeneralizedIndex,
) (*domain.Proof, error) {
	descriptor, err := domain.ComputeProofDescriptor([]domain.GeneralizedIndex{gindex})
	if err != nil {
		return nil, errors.WithMessage(err, "computing proof descriptor")
	}

	rawURL := fmt.Sprintf("%s/eth/v0/beacon/proof/state/%s?format=%s",
		l.baseURL, url.PathEscape(stateID), hex.EncodeToString(descriptor))

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(domain.ErrInput, err.Error())
	}

	resp, err := l.client.Do(req)
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

	if isJSONBody(resp.Header.Get("Content-Type"), body) {
		return decodeEnvelope(body)
	}
	return decodeNodeStream(descriptor, body)
}

// decodeNodeStream splits a raw response into 32-byte nodes in traversal
// order. The descriptor is the one we asked for, so it travels with the
// proof for the verifier's benefit.
func decodeNodeStream(descriptor domain.Descriptor, body []byte) (*domain.Proof, error) {
	if len(body)%32 != 0 {
		return nil, errors.Wrapf(domain.ErrInvalidProof,
			"witness blob of %d bytes is not 32-byte aligned", len(body))
	}

	nodes := make([]domain.Node, 0, len(body)/32)
	for off := 0; off < len(body); off += 32 {
		var n domain.Node
		copy(n[:], body[off:off+32])
		nodes = append(nodes, n)
	}
	return domain.NewCompactProof(descriptor, nodes), nil
}

func decodeEnvelope(body []byte) (*domain.Proof, error) {
	var env proofEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrap(domain.ErrSerialization, err.Error())
	}
	if len(env.Data.Descriptor) == 0 || len(env.Data.Leaves) == 0 {
		return nil, errors.Wrap(domain.ErrSerialization, "envelope missing proof data")
	}
	return domain.NewCompactProof(env.Data.Descriptor, env.Data.Leaves), nil
}

func isJSONBody(contentType string, body []byte) bool {
	if strings.Contains(contentType, "application/json") {
		return true
	}
	// Older nodes omit the content type; a node stream is raw 32-byte
	// chunks, so a brace-led body is the envelope.
	return contentType == "" && bytes.HasPrefix(bytes.TrimSpace(body), []byte("{"))
}
