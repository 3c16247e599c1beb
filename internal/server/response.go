package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"personality_insights/internal/report"
	"personality_insights/internal/results"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message:   msg,
			Code:      code,
			RequestID: c.GetString(requestIDKey),
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondFailure maps domain errors onto statuses. Anything unrecognised came
// from the result service and is reported as a bad gateway.
func respondFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, results.ErrInvalidID):
		RespondError(c, http.StatusBadRequest, "invalid_participant", err)
	case errors.Is(err, report.ErrUnknownSection):
		RespondError(c, http.StatusNotFound, "unknown_section", err)
	case errors.Is(err, results.ErrNotFound):
		RespondError(c, http.StatusNotFound, "participant_not_found", err)
	default:
		RespondError(c, http.StatusBadGateway, "upstream_unavailable", err)
	}
}
