package calls

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/nucypher/condition-lingo-go/pkg/lingo/value"
	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

// DefaultHTTPTimeout bounds a JSON API/RPC request absent explicit
// configuration.
const DefaultHTTPTimeout = 5 * time.Second

// JsonApiCall performs an HTTPS GET against Endpoint, optionally attaching a
// bearer token resolved from AuthorizationToken, and applies an optional
// JSONPath Query to the decoded response body.
type JsonApiCall struct {
	Endpoint            string
	Parameters          map[string]value.Value
	AuthorizationToken  string
	Query               string
	Timeout             time.Duration
}

// JsonRpcCall performs an HTTPS POST with a {"jsonrpc":"2.0", ...} envelope
// and extracts the "result" field.
type JsonRpcCall struct {
	Endpoint           string
	Method             string
	Params             value.Value
	AuthorizationToken string
	Query              string
	Timeout            time.Duration
}

func httpClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

func applyAuthorization(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeJSONBody(resp *http.Response) (map[string]any, error) {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, lingoerr.Newf(lingoerr.KindJsonRequestException, nil,
			"Failed to fetch response: status %d, body=%s", resp.StatusCode, string(body))
	}
	var data map[string]any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, lingoerr.New(lingoerr.KindJsonRequestException,
			"Failed to extract JSON response", err)
	}
	return data, nil
}

// applyJSONPath runs query against data, enforcing the single-match
// requirement: a query that matches more than one value is ambiguous and
// rejected rather than silently picking one.
func applyJSONPath(query string, data any) (value.Value, error) {
	if query == "" {
		return value.FromGo(data), nil
	}
	result, err := jsonpath.Get(query, data)
	if err != nil {
		return value.Value{}, lingoerr.Newf(lingoerr.KindJsonRequestException, err,
			"JSONPath query %q failed", query)
	}
	if matches, ok := result.([]any); ok {
		if len(matches) != 1 {
			return value.Value{}, lingoerr.Newf(lingoerr.KindJsonRequestException, nil,
				"Ambiguous JSONPath query %q: matched %d values", query, len(matches))
		}
		return value.FromGo(matches[0]), nil
	}
	return value.FromGo(result), nil
}

// Execute performs the GET request and returns the (possibly
// JSONPath-selected) result.
func (c JsonApiCall) Execute(ctx context.Context) (value.Value, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return value.Value{}, lingoerr.New(lingoerr.KindInvalidCondition, "invalid JSON API endpoint", err)
	}
	if len(c.Parameters) > 0 {
		q := req.URL.Query()
		for k, v := range c.Parameters {
			q.Set(k, v.String())
		}
		req.URL.RawQuery = q.Encode()
	}
	applyAuthorization(req, c.AuthorizationToken)

	resp, err := httpClient(c.Timeout).Do(req)
	if err != nil {
		return value.Value{}, lingoerr.New(lingoerr.KindJsonRequestException, "Failed to fetch response", err)
	}
	data, err := decodeJSONBody(resp)
	if err != nil {
		return value.Value{}, err
	}
	return applyJSONPath(c.Query, data)
}

// jsonRPCEnvelope mirrors the {"jsonrpc":"2.0", method, params, id} body
// every JsonRpcCall sends, grounded on
// original_source/nucypher/policy/conditions/json/rpc.py's
// BaseJsonRPCCall.__init__.
type jsonRPCEnvelope struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int    `json:"id"`
}

// Execute performs the POST request, unwraps the JSON-RPC "error"/"result"
// envelope, and applies an optional JSONPath query to "result".
func (c JsonRpcCall) Execute(ctx context.Context) (value.Value, error) {
	envelope := jsonRPCEnvelope{JSONRPC: "2.0", Method: c.Method, Params: c.Params.ToGo(), ID: 1}
	body, err := json.Marshal(envelope)
	if err != nil {
		return value.Value{}, lingoerr.New(lingoerr.KindInvalidCondition, "could not encode JSON-RPC request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return value.Value{}, lingoerr.New(lingoerr.KindInvalidCondition, "invalid JSON RPC endpoint", err)
	}
	req.Header.Set("Content-Type", "application/json")
	applyAuthorization(req, c.AuthorizationToken)

	resp, err := httpClient(c.Timeout).Do(req)
	if err != nil {
		return value.Value{}, lingoerr.New(lingoerr.KindJsonRequestException, "Failed to fetch response", err)
	}
	data, err := decodeJSONBody(resp)
	if err != nil {
		return value.Value{}, err
	}

	if rpcErr, ok := data["error"]; ok && rpcErr != nil {
		errMap, _ := rpcErr.(map[string]any)
		return value.Value{}, lingoerr.Newf(lingoerr.KindJsonRequestException, nil,
			"JSON RPC Request failed with error in response: code=%v, msg=%v",
			errMap["code"], errMap["message"])
	}

	result, ok := data["result"]
	if !ok || result == nil {
		return value.Value{}, lingoerr.Newf(lingoerr.KindJsonRequestException, nil,
			"Malformed JSON RPC response, no 'result' field - data=%v", data)
	}

	return applyJSONPath(c.Query, result)
}
