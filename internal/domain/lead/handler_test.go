package lead

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadintake/internal/domain/upload"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type testEnv struct {
	router *gin.Engine
	store  *MemoryStore
	hub    *Hub
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := NewMemoryStore()
	hub := NewHub(nil)
	t.Cleanup(hub.Close)

	resumes := upload.NewService(upload.NewMemoryRepository(), t.TempDir(), 0)
	svc := NewService(store, resumes, hub, nil, nil, false)
	h := NewHandler(svc, hub, nil, nil)

	r := gin.New()
	api := r.Group("/api")
	RegisterPublicRoutes(api, h)
	RegisterAdminRoutes(api, h)

	return &testEnv{router: r, store: store, hub: hub}
}

type formInput struct {
	fields map[string][]string
	file   []byte
	name   string
}

func defaultForm() formInput {
	return formInput{
		fields: map[string][]string{
			"firstName":      {"Ada"},
			"lastName":       {"Lovelace"},
			"email":          {"ada@example.com"},
			"citizenship":    {"United Kingdom"},
			"website":        {"https://example.com"},
			"visaCategories": {`["O1","EB1A"]`},
			"helpText":       {"Please help"},
		},
		file: samplePDF,
		name: "cv.pdf",
	}
}

func multipartRequest(t *testing.T, in formInput) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, values := range in.fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(key, v))
		}
	}
	if in.file != nil {
		part, err := w.CreateFormFile("resume", in.name)
		require.NoError(t, err)
		_, err = part.Write(in.file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/leads", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func doJSONRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var out errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestHandler_SubmitLead(t *testing.T) {
	env := setupTestRouter(t)

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, multipartRequest(t, defaultForm()))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var got Lead
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, StatePending, got.State)
	assert.Equal(t, []string{VisaO1, VisaEB1A}, got.VisaCategories)
	assert.Equal(t, "cv.pdf", got.Resume.Name)
	assert.Equal(t, "application/pdf", got.Resume.MimeType)
	assert.True(t, strings.HasPrefix(got.Resume.URL, "/api/resumes/"))
	assert.Equal(t, int64(1), env.hub.Seq())
}

func TestHandler_SubmitLeadRepeatedVisaValues(t *testing.T) {
	env := setupTestRouter(t)

	in := defaultForm()
	in.fields["visaCategories"] = []string{VisaEB2NIW, VisaUnsure}

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, multipartRequest(t, in))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var got Lead
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, []string{VisaEB2NIW, VisaUnsure}, got.VisaCategories)
}

func TestHandler_SubmitLeadValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *formInput)
		fields []string
	}{
		{
			name:   "missing names",
			mutate: func(in *formInput) { delete(in.fields, "firstName"); delete(in.fields, "lastName") },
			fields: []string{"firstName", "lastName"},
		},
		{
			name:   "no visa category",
			mutate: func(in *formInput) { in.fields["visaCategories"] = []string{"[]"} },
			fields: []string{"visaCategories"},
		},
		{
			name:   "malformed visa list",
			mutate: func(in *formInput) { in.fields["visaCategories"] = []string{`["O1"`} },
			fields: []string{"visaCategories"},
		},
		{
			name:   "missing resume",
			mutate: func(in *formInput) { in.file = nil },
			fields: []string{"resume"},
		},
		{
			name:   "image instead of resume",
			mutate: func(in *formInput) { in.file = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"); in.name = "me.png" },
			fields: []string{"resume"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestRouter(t)
			in := defaultForm()
			tt.mutate(&in)

			rr := httptest.NewRecorder()
			env.router.ServeHTTP(rr, multipartRequest(t, in))
			require.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())

			body := decodeError(t, rr)
			assert.False(t, body.Success)
			assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
			for _, f := range tt.fields {
				assert.Contains(t, body.Error.Details, f)
			}

			leads, _ := env.store.ListAll(t.Context())
			assert.Empty(t, leads)
		})
	}
}

func TestHandler_ListAndPatch(t *testing.T) {
	env := setupTestRouter(t)

	rr := doJSONRequest(env.router, http.MethodGet, "/api/leads", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	for range 2 {
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, multipartRequest(t, defaultForm()))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rr = doJSONRequest(env.router, http.MethodGet, "/api/leads", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var leads []Lead
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &leads))
	require.Len(t, leads, 2)
	assert.Equal(t, int64(1), leads[0].ID)

	rr = doJSONRequest(env.router, http.MethodPatch, "/api/leads", map[string]any{"id": 2, "state": "Reached Out"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated Lead
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, int64(2), updated.ID)
	assert.Equal(t, StateReachedOut, updated.State)

	rr = doJSONRequest(env.router, http.MethodPatch, "/api/leads", map[string]any{"id": 2, "state": "Pending"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSONRequest(env.router, http.MethodPatch, "/api/leads", map[string]any{"id": 1, "state": "Closed"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_STATE", decodeError(t, rr).Error.Code)

	rr = doJSONRequest(env.router, http.MethodPatch, "/api/leads", map[string]any{"id": 77, "state": "Reached Out"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSONRequest(env.router, http.MethodPatch, "/api/leads", map[string]any{"state": "Reached Out"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_ReachOutStatsAndGet(t *testing.T) {
	env := setupTestRouter(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, multipartRequest(t, defaultForm()))
	require.Equal(t, http.StatusCreated, rec.Code)

	rr := doJSONRequest(env.router, http.MethodPost, "/api/leads/1/reach-out", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"state":"Reached Out"`)

	rr = doJSONRequest(env.router, http.MethodPost, "/api/leads/abc/reach-out", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSONRequest(env.router, http.MethodGet, "/api/leads/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"firstName":"Ada"`)

	rr = doJSONRequest(env.router, http.MethodGet, "/api/leads/5", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSONRequest(env.router, http.MethodGet, "/api/leads/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var stats struct {
		Data StatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Data.Total)
	assert.Equal(t, 1, stats.Data.States[StateReachedOut])
}

func TestHandler_GetForm(t *testing.T) {
	env := setupTestRouter(t)

	rr := doJSONRequest(env.router, http.MethodGet, "/api/form", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data struct {
			Sections []FormSection `json:"sections"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data.Sections, 3)
	assert.Equal(t, VisaCategories, body.Data.Sections[1].Fields[0].Options)
}

func TestHandler_EventsStream(t *testing.T) {
	env := setupTestRouter(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/leads/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, multipartRequest(t, defaultForm()))
	require.Equal(t, http.StatusCreated, rec.Code)

	rr := doJSONRequest(env.router, http.MethodPatch, "/api/leads", map[string]any{"id": 1, "state": "Reached Out"})
	require.Equal(t, http.StatusOK, rr.Code)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var created, updated Event
	require.NoError(t, conn.ReadJSON(&created))
	require.NoError(t, conn.ReadJSON(&updated))

	assert.Equal(t, EventLeadCreated, created.Type)
	assert.Equal(t, int64(1), created.Seq)
	assert.Equal(t, EventLeadUpdated, updated.Type)
	assert.Equal(t, int64(2), updated.Seq)
	assert.Equal(t, StateReachedOut, updated.Lead.State)
}

func TestHub_ConcurrentPublishKeepsSeqOrder(t *testing.T) {
	env := setupTestRouter(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/leads/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	const n = 500
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env.hub.Publish(EventLeadUpdated, Lead{ID: int64(i + 1), State: StateReachedOut})
		}()
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for want := int64(1); want <= n; want++ {
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		require.Equal(t, want, ev.Seq)
	}

	wg.Wait()
	assert.Equal(t, int64(n), env.hub.Seq())
}
