package calls

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nucypher/condition-lingo-go/pkg/lingo/value"
	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

func TestJsonApiCall_SimpleGET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode(map[string]any{"balance": 42})
	}))
	defer srv.Close()

	call := JsonApiCall{Endpoint: srv.URL, Query: "$.balance"}
	got, err := call.Execute(context.Background())
	require.NoError(t, err)
	i, ok := got.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(42), i)
}

func TestJsonApiCall_AuthorizationHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	call := JsonApiCall{Endpoint: srv.URL, AuthorizationToken: "secret-token"}
	_, err := call.Execute(context.Background())
	require.NoError(t, err)
}

func TestJsonApiCall_NonTwoXX(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	call := JsonApiCall{Endpoint: srv.URL}
	_, err := call.Execute(context.Background())
	require.Error(t, err)
	kind, ok := lingoerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, lingoerr.KindJsonRequestException, kind)
}

func TestJsonApiCall_AmbiguousJSONPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"items": []int{1, 2, 3}})
	}))
	defer srv.Close()

	call := JsonApiCall{Endpoint: srv.URL, Query: "$.items[*]"}
	_, err := call.Execute(context.Background())
	require.Error(t, err)
	kind, ok := lingoerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, lingoerr.KindJsonRequestException, kind)
}

func TestJsonRpcCall_ExtractsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2.0", body["jsonrpc"])
		assert.Equal(t, "eth_blockNumber", body["method"])
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": 1, "result": "0x10"})
	}))
	defer srv.Close()

	call := JsonRpcCall{Endpoint: srv.URL, Method: "eth_blockNumber", Params: value.List(nil)}
	got, err := call.Execute(context.Background())
	require.NoError(t, err)
	s, ok := got.AsString()
	require.True(t, ok)
	assert.Equal(t, "0x10", s)
}

func TestJsonRpcCall_ErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0", "id": 1,
			"error": map[string]any{"code": -32601, "message": "method not found"},
		})
	}))
	defer srv.Close()

	call := JsonRpcCall{Endpoint: srv.URL, Method: "nope", Params: value.List(nil)}
	_, err := call.Execute(context.Background())
	require.Error(t, err)
	kind, ok := lingoerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, lingoerr.KindJsonRequestException, kind)
}

func TestJsonRpcCall_MissingResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": 1})
	}))
	defer srv.Close()

	call := JsonRpcCall{Endpoint: srv.URL, Method: "eth_blockNumber", Params: value.List(nil)}
	_, err := call.Execute(context.Background())
	require.Error(t, err)
	kind, ok := lingoerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, lingoerr.KindJsonRequestException, kind)
}
