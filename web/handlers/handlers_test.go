package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/AnubhawM/roi-calculator/errors"
	"github.com/AnubhawM/roi-calculator/web/format"
	"github.com/AnubhawM/roi-calculator/web/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubCompleter struct {
	response string
	err      error
}

func (s *stubCompleter) Complete(context.Context, string, string) (string, error) {
	return s.response, s.err
}

func newTestRouter(t *testing.T, llm services.Completer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, _ := zap.NewDevelopment()
	formatter := format.NewDefaultCurrencyFormatter()

	sessions, err := services.NewSessionService(16, logger)
	if err != nil {
		t.Fatalf("NewSessionService() error = %v", err)
	}

	roiHandler := NewROIHandler(services.NewROIService(llm, formatter, logger), logger)
	chatHandler := NewChatHandler(services.NewChatService(llm, sessions, formatter, logger), logger)
	uploadHandler := NewUploadHandler(services.NewDocumentService(t.TempDir(), logger), 16, logger)

	router := gin.New()
	router.POST("/calculate_roi", roiHandler.CalculateROI)
	router.POST("/generate", roiHandler.Generate)
	router.POST("/ask", chatHandler.Ask)
	router.POST("/upload_documents", uploadHandler.UploadDocuments)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCalculateROIEndpoint(t *testing.T) {
	llm := &stubCompleter{response: "The ROI is 25%. Total cost: $10000. Total benefits: $15000."}
	router := newTestRouter(t, llm)

	w := postJSON(t, router, "/calculate_roi",
		`{"budget":"10000","employees":"50","duration":"12"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Response  string `json:"response"`
		Rendered  string `json:"rendered"`
		ChartData struct {
			ROI          float64 `json:"roi"`
			TotalCost    float64 `json:"totalCost"`
			TotalBenefit float64 `json:"totalBenefit"`
		} `json:"chart_data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.Contains(resp.Response, "$10,000") {
		t.Errorf("response missing grouped currency: %s", resp.Response)
	}
	if resp.Rendered == "" {
		t.Error("rendered HTML is empty")
	}
	if resp.ChartData.ROI != 25 || resp.ChartData.TotalCost != 10000 || resp.ChartData.TotalBenefit != 15000 {
		t.Errorf("chart_data = %+v", resp.ChartData)
	}
}

func TestCalculateROIValidation(t *testing.T) {
	router := newTestRouter(t, &stubCompleter{response: "unused"})

	w := postJSON(t, router, "/calculate_roi", `{"budget":"10000"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCalculateROIUpstreamFailureIsBadGateway(t *testing.T) {
	llm := &stubCompleter{err: apperrors.WrapError(apperrors.ErrUpstreamUnavailable, "connection refused")}
	router := newTestRouter(t, llm)

	w := postJSON(t, router, "/calculate_roi",
		`{"budget":"10000","employees":"50","duration":"12"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestCalculateROIUnknownErrorIsInternal(t *testing.T) {
	llm := &stubCompleter{err: errors.New("boom")}
	router := newTestRouter(t, llm)

	w := postJSON(t, router, "/calculate_roi",
		`{"budget":"10000","employees":"50","duration":"12"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestAskEndpointReturnsSessionID(t *testing.T) {
	router := newTestRouter(t, &stubCompleter{response: "Sure, here is how."})

	w := postJSON(t, router, "/ask", `{"question":"How is ROI computed?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Answer    string `json:"answer"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("session_id is empty")
	}
	if resp.Answer == "" {
		t.Error("answer is empty")
	}

	// Follow-up on the same session keeps the id.
	w = postJSON(t, router, "/ask",
		`{"question":"And payback?","session_id":"`+resp.SessionID+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var followup struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &followup); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if followup.SessionID != resp.SessionID {
		t.Errorf("session_id rotated: %s != %s", followup.SessionID, resp.SessionID)
	}
}

func TestGenerateEndpointRequiresPrompt(t *testing.T) {
	router := newTestRouter(t, &stubCompleter{response: "unused"})

	w := postJSON(t, router, "/generate", `{"prompt":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUploadDocumentsEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubCompleter{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("files", "notes.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte("a,b\n1,2\n"))
	fw, err = mw.CreateFormFile("files", "malware.exe")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte("MZ"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload_documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		SessionID string `json:"session_id"`
		Files     []struct {
			FileName string `json:"file_name"`
			Error    string `json:"error"`
		} `json:"files"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("session_id is empty")
	}
	if len(resp.Files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(resp.Files))
	}
	if resp.Files[0].Error != "" {
		t.Errorf("csv upload rejected: %s", resp.Files[0].Error)
	}
	if resp.Files[1].Error == "" {
		t.Error("exe upload accepted")
	}
}

func TestUploadDocumentsRejectsNonUUIDSessionID(t *testing.T) {
	router := newTestRouter(t, &stubCompleter{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("session_id", "../escaped")
	fw, err := mw.CreateFormFile("files", "notes.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte("a,b\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload_documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUploadDocumentsRequiresFiles(t *testing.T) {
	router := newTestRouter(t, &stubCompleter{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("session_id", "abc")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload_documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
