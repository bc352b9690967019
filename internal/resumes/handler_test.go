package resumes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/shared/auth"
	"jobmatch-backend/internal/shared/server/middleware"
)

type principalVerifier map[string]auth.Principal

func (v principalVerifier) Verify(token string) (auth.Principal, error) {
	p, ok := v[token]
	if !ok {
		return auth.Principal{}, auth.ErrInvalidToken
	}
	return p, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Auth(principalVerifier{"alice": alice, "bob": bob}))
	NewHandler(f.svc).RegisterRoutes(api)
	return r
}

func TestHandlerCreateGetAndForeignAccess(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(gin.H{"title": "Go developer", "salary": 5000})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer alice")
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		Resume Resume `json:"resume"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+created.Resume.ID, nil)
	req.Header.Set("Authorization", "Bearer bob")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign resume, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/resumes?page=1", nil)
	req.Header.Set("Authorization", "Bearer alice")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var listed map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(listed["pagination"]) != `{"page":1,"nextPage":null}` {
		t.Fatalf("unexpected pagination %s", listed["pagination"])
	}
}

func TestHandlerImportMultipart(t *testing.T) {
	r := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "cv.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = fw.Write([]byte("Kubernetes operator author"))
	_ = mw.WriteField("title", "Platform engineer")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/import", &buf)
	req.Header.Set("Authorization", "Bearer alice")
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		Resume Resume `json:"resume"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Resume.Title != "Platform engineer" || created.Resume.Description != "Kubernetes operator author" {
		t.Fatalf("unexpected resume %+v", created.Resume)
	}
}

func TestHandlerImportRequiresFile(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/import", nil)
	req.Header.Set("Authorization", "Bearer alice")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
