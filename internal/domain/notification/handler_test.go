package notification

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(f.svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Create(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)

	w := doJSON(t, r, http.MethodPost, "/api/v1/notifications",
		`{"user_id":"u1","type":"offer_accepted","data":{"amount":50,"event_name":"Summer Fest"}}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "Offer accepted", resp.Data.Title)
}

func TestHandler_Create_UnknownTypeIsBadRequest(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)

	w := doJSON(t, r, http.MethodPost, "/api/v1/notifications",
		`{"user_id":"u1","type":"carrier_pigeon_alert"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestHandler_Create_BlockedReturnsNullData(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)

	// Marketing is off by default, so a promotion is silently blocked.
	w := doJSON(t, r, http.MethodPost, "/api/v1/notifications",
		`{"user_id":"u1","type":"promotion"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    any  `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Data)
}

func TestHandler_CreateBulk(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)

	w := doJSON(t, r, http.MethodPost, "/api/v1/notifications/bulk",
		`{"requests":[
			{"user_id":"u1","type":"event_reminder"},
			{"user_id":"u2","type":"event_reminder"}
		]}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data BulkResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Successful)
	assert.Zero(t, resp.Data.Failed)
}

func TestHandler_ReadStateEndpoints(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)

	w := doJSON(t, r, http.MethodPost, "/api/v1/notifications",
		`{"user_id":"u1","type":"offer_accepted"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodGet, "/api/v1/notifications/unread-count?user_id=u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unread":1`)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/notifications/%s/read?user_id=u1", created.Data.ID), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/notifications/unread-count?user_id=u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unread":0`)
}

func TestHandler_UnreadCountRequiresUser(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)

	w := doJSON(t, r, http.MethodGet, "/api/v1/notifications/unread-count", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
