package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/csvclean/internal/config"
	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "Nombre;Edad\nJosé;30\nAña;25;extra\n"

func newTestServer(t *testing.T, mutate ...func(*config.Config)) (*Server, *core.Service) {
	t.Helper()

	cfg, err := config.LoadFrom(map[string]string{"RATE_LIMIT_ENABLED": "false"})
	require.NoError(t, err)
	for _, m := range mutate {
		m(cfg)
	}

	svc, err := core.NewService(cfg)
	require.NoError(t, err)
	return NewServer(svc, cfg), svc
}

func uploadRequest(t *testing.T, target, fileName, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func withSession(req *http.Request, id string) *http.Request {
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: id})
	return req
}

func responseCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	return nil
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

// ============================================================================
// Pages
// ============================================================================

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestIndex_EmptyForm(t *testing.T) {
	s, _ := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/upload"`)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "script-src 'none'")
}

func TestBrowserFlow(t *testing.T) {
	s, _ := newTestServer(t)

	rec := serve(s, uploadRequest(t, "/upload", "clientes.csv", sampleCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, "clientes.csv")
	assert.Contains(t, body, "<strong>Valid rows:</strong> 1")
	assert.Contains(t, body, "Line 3:")

	cookie := responseCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	id := cookie.Value

	rec = serve(s, withSession(httptest.NewRequest(http.MethodGet, "/", nil), id))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "clientes.csv", "index should show the live session")

	rec = serve(s, withSession(httptest.NewRequest(http.MethodPost, "/process", nil), id))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "1 values normalized")
	assert.Contains(t, rec.Body.String(), `<td title="Jose">Jose</td>`)

	rec = serve(s, withSession(httptest.NewRequest(http.MethodGet, "/download", nil), id))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Nombre;Edad\r\nJose;30\r\n", rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "clientes_procesado.csv")
}

func TestUpload_InvalidFileType(t *testing.T) {
	s, _ := newTestServer(t)

	rec := serve(s, uploadRequest(t, "/upload", "clientes.xlsx", sampleCSV))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "FILE001")

	cookie := responseCookie(rec)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}

func TestUpload_NoFile(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("file=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "FILE004")
}

func TestUpload_TooLarge(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) { c.Upload.MaxFileSize = 16 })

	rec := serve(s, uploadRequest(t, "/upload", "a.csv", sampleCSV+sampleCSV))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "FILE002")
}

func TestUpload_ReplacesPreviousSession(t *testing.T) {
	s, svc := newTestServer(t)

	rec := serve(s, uploadRequest(t, "/upload", "a.csv", sampleCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	first := responseCookie(rec).Value

	rec = serve(s, withSession(uploadRequest(t, "/upload", "b.csv", "x;y\n1;2\n"), first))
	require.Equal(t, http.StatusOK, rec.Code)
	second := responseCookie(rec).Value

	assert.NotEqual(t, first, second)
	_, err := svc.Session(first)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	_, err = svc.Session(second)
	assert.NoError(t, err)
}

func TestDownload_BeforeProcess(t *testing.T) {
	s, _ := newTestServer(t)

	rec := serve(s, uploadRequest(t, "/upload", "a.csv", sampleCSV))
	id := responseCookie(rec).Value

	rec = serve(s, withSession(httptest.NewRequest(http.MethodGet, "/download", nil), id))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "SES002")
}

func TestProcess_NoSession(t *testing.T) {
	s, _ := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodPost, "/process", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "SES001")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestReset(t *testing.T) {
	s, svc := newTestServer(t)

	rec := serve(s, uploadRequest(t, "/upload", "a.csv", sampleCSV))
	id := responseCookie(rec).Value

	rec = serve(s, withSession(httptest.NewRequest(http.MethodPost, "/reset", nil), id))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Negative(t, responseCookie(rec).MaxAge)

	_, err := svc.Session(id)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

// ============================================================================
// JSON API
// ============================================================================

func TestAPIFlow(t *testing.T) {
	s, _ := newTestServer(t)

	rec := serve(s, uploadRequest(t, "/api/files", "clientes.csv", sampleCSV))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var file FileResponse
	decodeJSON(t, rec, &file)
	require.NotEmpty(t, file.SessionID)
	assert.Equal(t, "/api/files/"+file.SessionID, rec.Header().Get("Location"))
	assert.Equal(t, core.EncodingUTF8, file.Encoding)
	assert.Equal(t, 2, file.Summary.TotalRows)
	assert.Equal(t, []string{"Nombre", "Edad"}, file.Summary.Headers)
	require.Len(t, file.RowErrors, 1)
	assert.Equal(t, 3, file.RowErrors[0].Line)
	assert.Equal(t, "Aña;25;extra", file.RowErrors[0].Data)
	require.Len(t, file.ColumnStats, 2)
	assert.Equal(t, 100.0, file.ColumnStats[0].FillPercent)

	base := "/api/files/" + file.SessionID

	rec = serve(s, httptest.NewRequest(http.MethodPost, base+"/process", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var processed ProcessResponse
	decodeJSON(t, rec, &processed)
	assert.Equal(t, 1, processed.Changed)
	require.Len(t, processed.Preview.Rows, 1)
	assert.Equal(t, "Jose", processed.Preview.Rows[0][0].Text)

	rec = serve(s, httptest.NewRequest(http.MethodGet, base, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var after FileResponse
	decodeJSON(t, rec, &after)
	assert.True(t, after.Processed)

	rec = serve(s, httptest.NewRequest(http.MethodGet, base+"/download", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Nombre;Edad\r\nJose;30\r\n", rec.Body.String())

	rec = serve(s, httptest.NewRequest(http.MethodDelete, base, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodPost, base+"/process", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errResp ErrorResponse
	decodeJSON(t, rec, &errResp)
	assert.Equal(t, "SES001", errResp.Code)
}

func TestAPIUpload_Errors(t *testing.T) {
	tests := []struct {
		name       string
		fileName   string
		content    string
		wantStatus int
		wantCode   string
	}{
		{"blank file", "a.csv", " \n\n", http.StatusUnprocessableEntity, "FILE003"},
		{"wrong extension", "a.txt", sampleCSV, http.StatusBadRequest, "FILE001"},
		{"image renamed", "a.csv", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR", http.StatusBadRequest, "FILE001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)

			rec := serve(s, uploadRequest(t, "/api/files", tt.fileName, tt.content))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ErrorResponse
			decodeJSON(t, rec, &resp)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Message)
			assert.NotEmpty(t, resp.Action)
		})
	}
}

func TestAPI_JSONErrorOnPageWithAccept(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/download", nil)
	req.Header.Set("Accept", "application/json")

	rec := serve(s, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestAPIStatus(t *testing.T) {
	s, _ := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status StatusResponse
	decodeJSON(t, rec, &status)
	assert.Equal(t, 5, status.Runs.MaxConcurrent)
	assert.Equal(t, 5, status.Runs.Available)
}

// ============================================================================
// Rate limiting and metrics
// ============================================================================

func TestRateLimit_Uploads(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) {
		c.Rate.Enabled = true
		c.Rate.RequestsPerMinute = 100
		c.Rate.UploadLimit = 1
	})

	rec := serve(s, uploadRequest(t, "/api/files", "a.csv", sampleCSV))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(s, uploadRequest(t, "/api/files", "a.csv", sampleCSV))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "RATE001", resp.Code)

	// Other routes still have budget.
	rec = serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := serve(s, uploadRequest(t, "/api/files", "a.csv", sampleCSV))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "csvclean_pipeline_files_total")
}

func TestMetricsDisabled(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) { c.Metrics.Enabled = false })

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
