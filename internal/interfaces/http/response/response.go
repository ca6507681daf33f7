package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// kindStatus maps each lingoerr.Kind to the HTTP status a host surfacing
// it over the API should return.
var kindStatus = map[lingoerr.Kind]int{
	lingoerr.KindInvalidCondition:                 http.StatusBadRequest,
	lingoerr.KindInvalidConditionLingo:            http.StatusBadRequest,
	lingoerr.KindMissingContextVariable:           http.StatusBadRequest,
	lingoerr.KindInvalidContextVariableData:       http.StatusBadRequest,
	lingoerr.KindContextVariableVerificationFailed: http.StatusForbidden,
	lingoerr.KindUnexpectedScheme:                 http.StatusBadRequest,
	lingoerr.KindNoConnectionToChain:              http.StatusBadGateway,
	lingoerr.KindRPCExecutionFailed:               http.StatusBadGateway,
	lingoerr.KindJsonRequestException:             http.StatusBadGateway,
}

// Error sends an error response, translating a *lingoerr.Error's Kind into
// an HTTP status. A plain Go error not wrapping a *lingoerr.Error is
// treated as an internal failure.
func Error(c *gin.Context, err error) {
	kind, ok := lingoerr.KindOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "InternalError",
			"message": err.Error(),
		})
		return
	}

	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{
		"code":    string(kind),
		"message": err.Error(),
	})
}

// ErrorWithError sends an error response with a specific status and message.
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
