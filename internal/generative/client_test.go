package generative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftContract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/contract-draft", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "contrato de aluguel", req["prompt"])

		_ = json.NewEncoder(w).Encode(Draft{Titulo: "Contrato de Aluguel", Texto: "Cláusula 1..."})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	draft, err := c.DraftContract(context.Background(), "contrato de aluguel")
	require.NoError(t, err)
	assert.Equal(t, "Contrato de Aluguel", draft.Titulo)
	assert.Equal(t, "Cláusula 1...", draft.Texto)
}

func TestDraftContractUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.DraftContract(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestDraftContractEmptyDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Draft{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.DraftContract(context.Background(), "x")
	require.Error(t, err)
}
