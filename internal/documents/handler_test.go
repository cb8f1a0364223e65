package documents_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"letters-backend/internal/bootstrap"
	"letters-backend/internal/shared/config"
)

const testFirmID = "11111111-1111-1111-1111-111111111111"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func addFirmHeader(req *http.Request) {
	req.Header.Set("X-Firm-Id", testFirmID)
}

func uploadTestFile(t *testing.T, router *gin.Engine, name, content string) string {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/firms/"+testFirmID+"/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addFirmHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.DocumentID == "" {
		t.Fatalf("expected documentId, got empty")
	}
	return created.DocumentID
}

func TestDocumentsUploadAndGet(t *testing.T) {
	router := newTestRouter(t)

	docID := uploadTestFile(t, router, "police_report.txt", "report text")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/firms/"+testFirmID+"/documents/"+docID, nil)
	addFirmHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var doc struct {
		DocumentID string `json:"documentId"`
		FileName   string `json:"fileName"`
		SizeBytes  int64  `json:"sizeBytes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if doc.FileName != "police_report.txt" {
		t.Fatalf("expected fileName police_report.txt, got %s", doc.FileName)
	}
	if doc.SizeBytes != int64(len("report text")) {
		t.Fatalf("expected size %d, got %d", len("report text"), doc.SizeBytes)
	}
}

func TestDocumentsList(t *testing.T) {
	router := newTestRouter(t)

	uploadTestFile(t, router, "a.txt", "aaa")
	uploadTestFile(t, router, "b.txt", "bbb")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/firms/"+testFirmID+"/documents", nil)
	addFirmHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var docs []struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
}

func TestDocumentsDownloadPresign(t *testing.T) {
	router := newTestRouter(t)

	docID := uploadTestFile(t, router, "medical.txt", "records")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/firms/"+testFirmID+"/documents/"+docID+"/download", nil)
	addFirmHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var out struct {
		DownloadURL string `json:"downloadUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode download response: %v", err)
	}
	if out.DownloadURL == "" {
		t.Fatalf("expected a download URL")
	}
}

func TestDocumentsDelete(t *testing.T) {
	router := newTestRouter(t)

	docID := uploadTestFile(t, router, "gone.txt", "bye")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/firms/"+testFirmID+"/documents/"+docID, nil)
	addFirmHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/firms/"+testFirmID+"/documents/"+docID, nil)
	addFirmHeader(reqGet)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", respGet.Code)
	}
}

func TestDocumentsFirmScopeMismatch(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/firms/22222222-2222-2222-2222-222222222222/documents", nil)
	addFirmHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for other firm's path, got %d", resp.Code)
	}
}
