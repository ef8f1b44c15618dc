package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-predictor/internal/models"
	"alfredoptarigan/resume-predictor/internal/repositories"
	"alfredoptarigan/resume-predictor/internal/services"
)

type stubPredictor struct {
	result *models.AnalysisResult
	err    error
	calls  int
}

func (s *stubPredictor) Predict(_ context.Context, _ string, _ []byte) (*models.AnalysisResult, error) {
	s.calls++
	return s.result, s.err
}

type stubChat struct {
	reply       string
	err         error
	overrideKey string
	req         models.ChatRequest
}

func (s *stubChat) Reply(_ context.Context, req models.ChatRequest, overrideKey string) (string, error) {
	s.req = req
	s.overrideKey = overrideKey
	return s.reply, s.err
}

func newTestApp(predictor services.PredictorService, chat services.ChatService, repo repositories.PredictionRepository) *fiber.App {
	app := fiber.New()
	app.Get("/health", HandleHealth)
	app.Post("/predict", NewPredictHandler(predictor, 1<<20, zap.NewNop()).HandlePredict)
	app.Post("/chat", NewChatHandler(chat).HandleChat)
	app.Get("/predictions", NewPredictionsHandler(repo).HandleListPredictions)
	return app
}

func multipartRequest(t *testing.T, filename, contentType string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	_, _ = part.Write(content)
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/predict", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeDetail(t *testing.T, r io.Reader) string {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp.Detail
}

func TestHandlePredictSuccess(t *testing.T) {
	predictor := &stubPredictor{result: &models.AnalysisResult{
		Category:   "Data Science",
		Confidence: 0.87,
		Skills:     []string{"Python"},
	}}
	app := newTestApp(predictor, &stubChat{}, repositories.NewMemoryPredictionRepository(1))

	resp, err := app.Test(multipartRequest(t, "resume.pdf", "application/pdf", []byte("%PDF")))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var got models.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Category != "Data Science" || got.Confidence != 0.87 || len(got.Skills) != 1 {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestHandlePredictAcceptsOctetStream(t *testing.T) {
	predictor := &stubPredictor{result: &models.AnalysisResult{Category: "General", Confidence: 0.5}}
	app := newTestApp(predictor, &stubChat{}, repositories.NewMemoryPredictionRepository(1))

	resp, _ := app.Test(multipartRequest(t, "resume.pdf", "application/octet-stream", []byte("%PDF")))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestHandlePredictRejectsNonPDF(t *testing.T) {
	predictor := &stubPredictor{}
	app := newTestApp(predictor, &stubChat{}, repositories.NewMemoryPredictionRepository(1))

	docx := "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	resp, _ := app.Test(multipartRequest(t, "resume.docx", docx, []byte("PK")))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := decodeDetail(t, resp.Body); got != "Only PDF files are supported" {
		t.Fatalf("detail = %q", got)
	}
	if predictor.calls != 0 {
		t.Fatalf("predictor must not be called for rejected uploads")
	}
}

func TestHandlePredictErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		detail string
	}{
		{services.ErrEmptyFile, fiber.StatusBadRequest, "Empty file"},
		{&services.ParseError{Err: errors.New("malformed")}, fiber.StatusInternalServerError, "Failed to parse PDF: malformed"},
		{errors.New("boom"), fiber.StatusInternalServerError, "Prediction failed"},
	}

	for _, tt := range tests {
		app := newTestApp(&stubPredictor{err: tt.err}, &stubChat{}, repositories.NewMemoryPredictionRepository(1))
		resp, _ := app.Test(multipartRequest(t, "resume.pdf", "application/pdf", []byte("x")))
		if resp.StatusCode != tt.status {
			t.Fatalf("%v: status = %d, want %d", tt.err, resp.StatusCode, tt.status)
		}
		if got := decodeDetail(t, resp.Body); got != tt.detail {
			t.Fatalf("%v: detail = %q, want %q", tt.err, got, tt.detail)
		}
	}
}

func TestHandleChatSuccess(t *testing.T) {
	chat := &stubChat{reply: "Add metrics to your bullets."}
	app := newTestApp(&stubPredictor{}, chat, repositories.NewMemoryPredictionRepository(1))

	body := `{"model":"gpt-4o-mini","messages":[{"role":"user","content":"How do I improve?"}]}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(APIKeyHeader, "sk-user")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var got models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Content != chat.reply || got.Reply() != chat.reply {
		t.Fatalf("unexpected body: %+v", got)
	}
	if chat.overrideKey != "sk-user" {
		t.Fatalf("override key = %q", chat.overrideKey)
	}
	if len(chat.req.Messages) != 1 || chat.req.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected request: %+v", chat.req)
	}
}

func TestHandleChatErrors(t *testing.T) {
	tests := []struct {
		err    error
		detail string
	}{
		{services.ErrMissingAPIKey, "Server missing OPENAI_API_KEY"},
		{&services.CompletionError{Err: errors.New("quota")}, "OpenAI error: quota"},
	}

	for _, tt := range tests {
		app := newTestApp(&stubPredictor{}, &stubChat{err: tt.err}, repositories.NewMemoryPredictionRepository(1))
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"messages":[]}`))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if got := decodeDetail(t, resp.Body); got != tt.detail {
			t.Fatalf("detail = %q, want %q", got, tt.detail)
		}
	}
}

func TestHandleChatRequiresMessages(t *testing.T) {
	app := newTestApp(&stubPredictor{}, &stubChat{}, repositories.NewMemoryPredictionRepository(1))
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"model":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := app.Test(req)
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestHandleListPredictions(t *testing.T) {
	repo := repositories.NewMemoryPredictionRepository(10)
	_ = repo.Create(&models.Prediction{Category: "Cybersecurity", Skills: []string{"Siem"}})
	app := newTestApp(&stubPredictor{}, &stubChat{}, repo)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/predictions?limit=500", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Predictions []models.Prediction `json:"predictions"`
		Count       int                 `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 || body.Predictions[0].Category != "Cybersecurity" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHandleHealth(t *testing.T) {
	app := newTestApp(&stubPredictor{}, &stubChat{}, repositories.NewMemoryPredictionRepository(1))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
