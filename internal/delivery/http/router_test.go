package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lifesaver-qr/internal/delivery/dto"
	"lifesaver-qr/internal/delivery/http/handler"
	"lifesaver-qr/internal/delivery/http/middleware"
	"lifesaver-qr/internal/usecase"
	"lifesaver-qr/pkg/validator"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// stubUsecase knows a single record, "abc".
type stubUsecase struct{}

func (stubUsecase) Create(_ context.Context, req *dto.CreateEmergencyRecordRequest) (*dto.EmergencyRecordResponse, error) {
	return &dto.EmergencyRecordResponse{ID: "abc", Name: req.Name}, nil
}

func (stubUsecase) GetRecord(_ context.Context, id string) (*dto.EmergencyRecordResponse, error) {
	if id != "abc" {
		return nil, usecase.ErrRecordNotFound
	}
	return &dto.EmergencyRecordResponse{ID: id}, nil
}

func (stubUsecase) GetPublicProfile(_ context.Context, id string) (*dto.PublicProfileResponse, error) {
	if id != "abc" {
		return nil, usecase.ErrRecordNotFound
	}
	return &dto.PublicProfileResponse{Name: "Asha Rao"}, nil
}

func (stubUsecase) GetQRCode(_ context.Context, id string) (*dto.Artifact, error) {
	if id != "abc" {
		return nil, usecase.ErrRecordNotFound
	}
	return &dto.Artifact{Data: []byte("png"), ContentType: usecase.ContentTypePNG, Filename: id + "-qr.png"}, nil
}

func (stubUsecase) GetDocument(_ context.Context, id string) (*dto.Artifact, error) {
	if id != "abc" {
		return nil, usecase.ErrRecordNotFound
	}
	return &dto.Artifact{Data: []byte("%PDF"), ContentType: usecase.ContentTypePDF, Filename: "Asha-LifeSaver.pdf"}, nil
}

func newTestRouter(origins []string) http.Handler {
	log := logrus.New()
	log.SetOutput(io.Discard)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("# metrics"))
	})

	return NewRouter(
		handler.NewEmergencyRecordHandler(stubUsecase{}, validator.NewValidator(), log),
		middleware.NewCORSMiddleware(origins),
		middleware.NewLoggingMiddleware(log),
		metrics,
	).Setup()
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(nil)
	body := `{"name":"Asha Rao","phone":"1","blood_group":"O+","guardian_name":"R","guardian_phone":"2","address":"A","national_id_number":"3"}`

	cases := []struct {
		method, target, body string
		status               int
		contentType          string
	}{
		{http.MethodGet, "/api/", "", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/health", "", http.StatusOK, "application/json"},
		{http.MethodPost, "/api/details", body, http.StatusCreated, "application/json"},
		{http.MethodGet, "/api/details/abc", "", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/details/nope", "", http.StatusNotFound, "application/json"},
		{http.MethodGet, "/api/profile/abc", "", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/profile/nope", "", http.StatusNotFound, "application/json"},
		{http.MethodGet, "/api/qr-code/abc", "", http.StatusOK, "image/png"},
		{http.MethodGet, "/api/qr-code/nope", "", http.StatusNotFound, "application/json"},
		{http.MethodGet, "/api/generate-pdf/abc", "", http.StatusOK, "application/pdf"},
		{http.MethodGet, "/api/generate-pdf/nope", "", http.StatusNotFound, "application/json"},
		{http.MethodGet, "/metrics", "", http.StatusOK, ""},
	}
	for _, tc := range cases {
		rec := do(r, tc.method, tc.target, tc.body)
		assert.Equal(t, tc.status, rec.Code, tc.method+" "+tc.target)
		if tc.contentType != "" {
			assert.Equal(t, tc.contentType, rec.Header().Get("Content-Type"), tc.method+" "+tc.target)
		}
	}
}

func TestRouter_Banner(t *testing.T) {
	rec := do(newTestRouter(nil), http.MethodGet, "/api/", "")
	assert.JSONEq(t, `{"message":"Life Saver QR API"}`, rec.Body.String())
}

func TestRouter_WrongMethod(t *testing.T) {
	rec := do(newTestRouter(nil), http.MethodDelete, "/api/details/abc", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_CORS(t *testing.T) {
	r := newTestRouter([]string{"https://app.example"})

	req := httptest.NewRequest(http.MethodOptions, "/api/details", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/profile/abc", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_CORSAllowAll(t *testing.T) {
	rec := do(newTestRouter([]string{"*"}), http.MethodGet, "/api/health", "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
