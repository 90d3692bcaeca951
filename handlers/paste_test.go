package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rbinhq/rbin/config"
	"github.com/rbinhq/rbin/services"
	"github.com/rbinhq/rbin/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Host:            "0.0.0.0",
		Port:            3000,
		PasteDir:        t.TempDir(),
		IDLength:        6,
		MaxBodySize:     1024 * 1024,
		LogLevel:        "info",
		RequestLogLevel: "debug",
		Storage:         config.BackendFilesystem,
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, store storage.PasteStore) *gin.Engine {
	t.Helper()
	service := services.NewPasteService(store, cfg)
	pasteHandler := NewPasteHandler(service, cfg)
	usageHandler := NewUsageHandler(cfg)
	systemHandler := NewSystemHandler()

	router := gin.New()
	router.GET("/", usageHandler.Usage)
	router.POST("/", pasteHandler.Submit)
	router.GET("/:id", pasteHandler.Retrieve)
	router.GET("/health", systemHandler.Health)
	return router
}

func newFilesystemRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := testConfig(t)
	store, err := storage.NewFilesystemStore(cfg.PasteDir)
	if err != nil {
		t.Fatalf("NewFilesystemStore failed: %v", err)
	}
	return newTestRouter(t, cfg, store)
}

func postMultipart(t *testing.T, router *gin.Engine, field, value string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField(field, value); err != nil {
		t.Fatalf("WriteField failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("multipart close failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmit_MultipartRoundTrip(t *testing.T) {
	router := newFilesystemRouter(t)

	w := postMultipart(t, router, "rbin", "hello world")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Response is "<scheme>://<host>/<id>"
	resultURL := strings.TrimSpace(w.Body.String())
	idx := strings.LastIndex(resultURL, "/")
	if idx < 0 {
		t.Fatalf("unexpected response body: %q", resultURL)
	}
	id := resultURL[idx+1:]
	if len(id) != 6 {
		t.Errorf("expected 6-char id in %q, got %q", resultURL, id)
	}
	if !strings.HasPrefix(resultURL, "http://") {
		t.Errorf("expected http scheme in %q", resultURL)
	}

	req := httptest.NewRequest(http.MethodGet, "/"+id, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "hello world" {
		t.Errorf("expected body %q, got %q", "hello world", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("expected text/plain content type, got %q", ct)
	}
}

func TestSubmit_URLEncodedForm(t *testing.T) {
	router := newFilesystemRouter(t)

	form := url.Values{}
	form.Set("rbin", "form encoded paste")
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSubmit_MissingField(t *testing.T) {
	router := newFilesystemRouter(t)

	w := postMultipart(t, router, "other", "some text")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Missing 'rbin' form field") {
		t.Errorf("unexpected body: %q", w.Body.String())
	}
}

func TestSubmit_EmptyContent(t *testing.T) {
	cfg := testConfig(t)
	store, err := storage.NewFilesystemStore(cfg.PasteDir)
	if err != nil {
		t.Fatalf("NewFilesystemStore failed: %v", err)
	}
	router := newTestRouter(t, cfg, store)

	w := postMultipart(t, router, "rbin", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Paste content cannot be empty") {
		t.Errorf("unexpected body: %q", w.Body.String())
	}

	// No file may be created for a rejected submission
	entries, err := os.ReadDir(cfg.PasteDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("empty submission must not create a paste, found %d files", len(entries))
	}
}

func TestSubmit_TooLarge(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxBodySize = 16
	store, err := storage.NewFilesystemStore(cfg.PasteDir)
	if err != nil {
		t.Fatalf("NewFilesystemStore failed: %v", err)
	}
	router := newTestRouter(t, cfg, store)

	w := postMultipart(t, router, "rbin", strings.Repeat("x", 1024))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func TestSubmit_ForwardedProto(t *testing.T) {
	router := newFilesystemRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("rbin", "secure paste")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "https://") {
		t.Errorf("expected https paste URL, got %q", w.Body.String())
	}
}

func TestSubmit_ConfiguredBaseURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.URL = "https://paste.example.com/"
	store, err := storage.NewFilesystemStore(cfg.PasteDir)
	if err != nil {
		t.Fatalf("NewFilesystemStore failed: %v", err)
	}
	router := newTestRouter(t, cfg, store)

	w := postMultipart(t, router, "rbin", "paste with base url")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "https://paste.example.com/") {
		t.Errorf("expected configured base URL, got %q", w.Body.String())
	}
}

func TestRetrieve_InvalidID(t *testing.T) {
	router := newFilesystemRouter(t)

	for _, id := range []string{"aZ3kq9X", "abc", "ab%20d!"} {
		req := httptest.NewRequest(http.MethodGet, "/"+id, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("GET /%s: expected 400, got %d", id, w.Code)
		}
	}
}

func TestRetrieve_NotFound(t *testing.T) {
	router := newFilesystemRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/000000", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not found") {
		t.Errorf("unexpected body: %q", w.Body.String())
	}
}

// failStore returns an IO failure from every operation.
type failStore struct{}

func (failStore) Put(context.Context, string, []byte) error { return errors.New("io failure") }
func (failStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("io failure")
}
func (failStore) Exists(context.Context, string) (bool, error) {
	return false, errors.New("io failure")
}
func (failStore) Delete(context.Context, string) error { return errors.New("io failure") }
func (failStore) Close() error                         { return nil }

func TestRetrieve_IOFailure(t *testing.T) {
	router := newTestRouter(t, testConfig(t), failStore{})

	req := httptest.NewRequest(http.MethodGet, "/aZ3kq9", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestSubmit_IOFailure(t *testing.T) {
	router := newTestRouter(t, testConfig(t), failStore{})

	w := postMultipart(t, router, "rbin", "doomed paste")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestUsage(t *testing.T) {
	router := newFilesystemRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"rbin", "RBIN_HOST", "RBIN_PASTE_DIR", "curl -F"} {
		if !strings.Contains(body, want) {
			t.Errorf("usage page missing %q", want)
		}
	}
}

func TestHealth(t *testing.T) {
	router := newFilesystemRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body: %q", w.Body.String())
	}
}
