package adapters

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marketen/ancestry-prover/internal/application/domain"
)

func nodeChunk(fill byte) []byte {
	chunk := make([]byte, 32)
	chunk[0] = fill
	return chunk
}

func TestLodestarGetStateProofRawStream(t *testing.T) {
	var gotPath, gotFormat string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFormat = r.URL.Query().Get("format")
		w.Header().Set("Content-Type", "application/octet-stream")
		body := bytes.Join([][]byte{nodeChunk(4), nodeChunk(5), nodeChunk(3)}, nil)
		_, _ = w.Write(body)
	}))
	defer server.Close()

	source := NewLodestarAdapter(server.URL)
	proof, err := source.GetStateProof(context.Background(), "latest", 4)
	require.NoError(t, err)

	assert.Equal(t, "/eth/v0/beacon/proof/state/latest", gotPath)
	// Descriptor for lone gindex 4, hex encoded without a prefix.
	assert.Equal(t, "38", gotFormat)

	require.NotNil(t, proof.Compact)
	assert.Equal(t, domain.Descriptor{0x38}, proof.Compact.Descriptor)
	require.Len(t, proof.Compact.Nodes, 3)
	assert.Equal(t, byte(4), proof.Compact.Nodes[0][0])
	assert.Equal(t, byte(3), proof.Compact.Nodes[2][0])
}

func TestLodestarRejectsMisalignedStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(make([]byte, 33))
	}))
	defer server.Close()

	source := NewLodestarAdapter(server.URL)
	_, err := source.GetStateProof(context.Background(), "latest", 4)
	require.ErrorIs(t, err, domain.ErrInvalidProof)
}

func TestLodestarGetStateProofEnvelope(t *testing.T) {
	body := `{
		"data": {
			"leaves": [
				"0x0400000000000000000000000000000000000000000000000000000000000000",
				"0x0500000000000000000000000000000000000000000000000000000000000000",
				"0x0300000000000000000000000000000000000000000000000000000000000000"
			],
			"descriptor": "0x38"
		},
		"version": "electra"
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	source := NewLodestarAdapter(server.URL)
	proof, err := source.GetStateProof(context.Background(), "latest", 4)
	require.NoError(t, err)

	require.NotNil(t, proof.Compact)
	assert.Equal(t, domain.Descriptor{0x38}, proof.Compact.Descriptor)
	require.Len(t, proof.Compact.Nodes, 3)
	assert.Equal(t, byte(5), proof.Compact.Nodes[1][0])
}

func TestLodestarRejectsEmptyEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {}, "version": "electra"}`))
	}))
	defer server.Close()

	source := NewLodestarAdapter(server.URL)
	_, err := source.GetStateProof(context.Background(), "latest", 4)
	require.ErrorIs(t, err, domain.ErrSerialization)
}

func TestLodestarNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source := NewLodestarAdapter(server.URL)
	_, err := source.GetStateProof(context.Background(), "0x7903bc7cc62f3677c5c0e38562a122638a3627dd945d1f7992e4d32f1d4ef11e", 42)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLodestarServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewLodestarAdapter(server.URL)
	_, err := source.GetStateProof(context.Background(), "latest", 42)
	require.ErrorIs(t, err, domain.ErrNetwork)
}

func TestLodestarRejectsInvalidGIndex(t *testing.T) {
	source := NewLodestarAdapter("http://unused.invalid")
	_, err := source.GetStateProof(context.Background(), "latest", 0)
	require.ErrorIs(t, err, domain.ErrInput)
}
