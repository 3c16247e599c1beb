// Package results fetches participant narratives and scores from the
// assessment result service, or from any other Source such as the local store.
package results

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const DefaultMissingMessage = "No justification found."

var (
	ErrInvalidID = errors.New("participant id is required")
	ErrNotFound  = errors.New("participant not found")
)

type Justification struct {
	ParticipantID string `json:"participant_id"`
	Found         bool   `json:"found"`
	Text          string `json:"justification,omitempty"`
	Message       string `json:"message,omitempty"`
}

type Result struct {
	ParticipantID string             `json:"participant_id"`
	Found         bool               `json:"found"`
	Scores        map[string]string  `json:"scores,omitempty"`
	Performance   map[string]float64 `json:"performance,omitempty"`
	Analysis      string             `json:"analysis,omitempty"`
	Message       string             `json:"message,omitempty"`
}

// Source yields the stored narratives for a participant. A participant the
// source does not know is reported with Found=false, not an error.
type Source interface {
	Justification(ctx context.Context, id string) (Justification, error)
	Result(ctx context.Context, id string) (Result, error)
}

// StatusError is an unexpected response from the result service.
type StatusError struct {
	Op      string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, msg)
}

func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

func NormalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrInvalidID
	}
	if strings.ContainsAny(id, "/?#\\") || strings.ContainsFunc(id, isControl) {
		return "", fmt.Errorf("%w: invalid character in %q", ErrInvalidID, id)
	}
	return id, nil
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

func missingMessage(msg string) string {
	if msg = strings.TrimSpace(msg); msg != "" {
		return msg
	}
	return DefaultMissingMessage
}
