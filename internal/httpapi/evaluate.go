package httpapi

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nucypher/condition-lingo-go/internal/interfaces/http/response"
	"github.com/nucypher/condition-lingo-go/pkg/lingo"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/condition"
	lctx "github.com/nucypher/condition-lingo-go/pkg/lingo/context"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/providers"
	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

// evaluateRequest is the wire shape of a POST /v1/conditions/evaluate
// body: a versioned condition document plus the caller-supplied context
// bindings it resolves ":name" tokens against.
type evaluateRequest struct {
	Lingo   json.RawMessage `json:"lingo"`
	Context lctx.Context    `json:"context"`
}

type evaluateResponse struct {
	Satisfied bool          `json:"satisfied"`
	Values    []interface{} `json:"values,omitempty"`
}

// Handler groups the dependencies the condition-evaluation endpoints
// need: the provider manager shared across requests.
type Handler struct {
	Manager *providers.Manager
}

// NewHandler builds a Handler.
func NewHandler(mgr *providers.Manager) *Handler {
	return &Handler{Manager: mgr}
}

// Evaluate handles POST /v1/conditions/evaluate: decodes a condition
// document, resolves it against the supplied context, and reports
// whether the tree is satisfied.
func (h *Handler) Evaluate(c *gin.Context) {
	start := time.Now()

	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		evaluationsTotal.WithLabelValues("bad_request").Inc()
		response.Error(c, lingoerr.New(lingoerr.KindInvalidConditionLingo, "malformed request body", err))
		return
	}

	doc, err := lingo.Decode(req.Lingo)
	if err != nil {
		evaluationsTotal.WithLabelValues("bad_request").Inc()
		response.Error(c, err)
		return
	}

	result, err := doc.Evaluate(c.Request.Context(), h.Manager, req.Context, condition.EvalOptions{})
	evaluationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		evaluationsTotal.WithLabelValues("error").Inc()
		response.Error(c, err)
		return
	}

	outcome := "unsatisfied"
	if result.Satisfied {
		outcome = "satisfied"
	}
	evaluationsTotal.WithLabelValues(outcome).Inc()

	values := make([]interface{}, len(result.Values))
	for i, v := range result.Values {
		values[i] = v.ToGo()
	}
	response.Success(c, 200, evaluateResponse{Satisfied: result.Satisfied, Values: values})
}

// Healthz handles GET /healthz: a liveness probe with no external calls.
func Healthz(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
