package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marketen/ancestry-prover/internal/application/domain"
)

const singleProofBody = `{
	"gindex": 309908,
	"witnesses": [
		"0x0000000000000000000000000000000000000000000000000000000000000001",
		"0x0000000000000000000000000000000000000000000000000000000000000002"
	],
	"leaf": "0x00000000000000000000000000000000000000000000000000000000000000aa"
}`

func TestStateProverGetStateProof(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"state_id": r.URL.Query().Get("state_id"),
			"gindex":   r.URL.Query().Get("gindex"),
			"network":  r.URL.Query().Get("network"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(singleProofBody))
	}))
	defer server.Close()

	source := NewStateProverAdapter(server.URL, "mainnet")
	proof, err := source.GetStateProof(context.Background(),
		"0x8187c32a9a82f6666b5d70ad9d0a3a63fa35f3c8e42ce3fc9546d59a3c9abbd1", 309908)
	require.NoError(t, err)

	assert.Equal(t, "/state_proof", gotPath)
	assert.Equal(t, "0x8187c32a9a82f6666b5d70ad9d0a3a63fa35f3c8e42ce3fc9546d59a3c9abbd1", gotQuery["state_id"])
	assert.Equal(t, "309908", gotQuery["gindex"])
	assert.Equal(t, "mainnet", gotQuery["network"])

	require.NotNil(t, proof.Single)
	assert.Equal(t, domain.GeneralizedIndex(309908), proof.Single.GIndex)
	assert.Len(t, proof.Single.Witnesses, 2)
	assert.Equal(t, byte(0xaa), proof.Single.Leaf[31])
}

func TestStateProverGetBlockProof(t *testing.T) {
	var gotPath string
	var gotBlockID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBlockID = r.URL.Query().Get("block_id")
		_, _ = w.Write([]byte(singleProofBody))
	}))
	defer server.Close()

	source := NewStateProverAdapter(server.URL, "sepolia").(*stateProverClient)
	proof, err := source.GetBlockProof(context.Background(), "head", 42)
	require.NoError(t, err)

	assert.Equal(t, "/block_proof/", gotPath)
	assert.Equal(t, "head", gotBlockID)
	require.NotNil(t, proof.Single)
}

func TestStateProverNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source := NewStateProverAdapter(server.URL, "mainnet")
	_, err := source.GetStateProof(context.Background(), "latest", 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStateProverServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Error"))
	}))
	defer server.Close()

	source := NewStateProverAdapter(server.URL, "mainnet")
	_, err := source.GetStateProof(context.Background(), "latest", 1)
	require.ErrorIs(t, err, domain.ErrNetwork)
}

func TestStateProverTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // refuse connections

	source := NewStateProverAdapter(server.URL, "mainnet")
	_, err := source.GetStateProof(context.Background(), "latest", 1)
	require.ErrorIs(t, err, domain.ErrNetwork)
}

func TestStateProverUnparsableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected": true}`))
	}))
	defer server.Close()

	source := NewStateProverAdapter(server.URL, "mainnet")
	_, err := source.GetStateProof(context.Background(), "latest", 1)
	require.ErrorIs(t, err, domain.ErrSerialization)
}
