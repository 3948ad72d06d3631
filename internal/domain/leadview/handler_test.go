package leadview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadintake/internal/domain/lead"
)

type staticLister struct {
	leads []lead.Lead
	err   error
}

func (s staticLister) ListAll(context.Context) ([]lead.Lead, error) {
	return s.leads, s.err
}

type fixedSeq int64

func (f fixedSeq) Seq() int64 { return int64(f) }

func setupTestRouter(lister LeadLister, pageSize int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api"), NewHandler(lister, fixedSeq(41), pageSize))
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

type viewBody struct {
	Success bool `json:"success"`
	Data    Page `json:"data"`
}

func TestGetView(t *testing.T) {
	r := setupTestRouter(staticLister{leads: generated(20)}, 5)

	rr := get(r, "/api/leads/view?status=Pending&sort=submittedAt&dir=desc&page=2&seq=7")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body viewBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(7), body.Data.Seq)
	assert.Equal(t, int64(41), body.Data.EventSeq)
	assert.Equal(t, 7, body.Data.TotalCount)
	assert.Equal(t, 2, body.Data.TotalPages)
	assert.Equal(t, 5, body.Data.PageSize)
	assert.Equal(t, []int64{4, 1}, ids(body.Data.Rows))
	assert.Equal(t, StatusPending, body.Data.Params.Status)
}

func TestGetView_Defaults(t *testing.T) {
	r := setupTestRouter(staticLister{leads: generated(10)}, 0)

	rr := get(r, "/api/leads/view")
	require.Equal(t, http.StatusOK, rr.Code)

	var body viewBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, DefaultPageSize, body.Data.PageSize)
	assert.Len(t, body.Data.Rows, DefaultPageSize)
	assert.Equal(t, 1, body.Data.Page)
	assert.Equal(t, []int{1, 2}, body.Data.Window)
	assert.Equal(t, int64(0), body.Data.Seq)
}

func TestGetView_StatusWithSpace(t *testing.T) {
	r := setupTestRouter(staticLister{leads: generated(6)}, 8)

	rr := get(r, "/api/leads/view?status=Reached%20Out")
	require.Equal(t, http.StatusOK, rr.Code)

	var body viewBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, []int64{2, 3, 5, 6}, ids(body.Data.Rows))
}

func TestGetView_BadQuery(t *testing.T) {
	r := setupTestRouter(staticLister{}, 8)

	for _, q := range []string{"status=Closed", "sort=email", "dir=up", "page=x", "page=-2"} {
		rr := get(r, "/api/leads/view?"+q)
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}

func TestGetView_StoreError(t *testing.T) {
	r := setupTestRouter(staticLister{err: errors.New("db down")}, 8)

	rr := get(r, "/api/leads/view")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "db down")
}
