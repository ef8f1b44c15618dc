// Package clients talks to the prediction and chat api from the web app.
package clients

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"alfredoptarigan/resume-predictor/internal/models"
)

// APIError is a non-2xx answer from the api. Detail is the server's message, if it sent one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api status %d", e.StatusCode)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	// zero keeps the transport default, i.e. no client-side deadline
	return &http.Client{Timeout: timeout}
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var parsed models.ErrorResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Detail = strings.TrimSpace(parsed.Detail)
	}
	return apiErr
}
