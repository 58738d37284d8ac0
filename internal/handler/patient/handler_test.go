package patient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/ledger-api/internal/repository/sqlite"
	"github.com/jwalitptl/ledger-api/internal/service/ledger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "clinic.db"))
	require.NoError(t, err)
	repo := sqlite.NewPatientRepository(db)
	t.Cleanup(func() { repo.Close() })

	svc := ledger.NewService(repo)
	require.NoError(t, svc.Load(context.Background()))

	engine := gin.New()
	NewHandler(svc).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

type response struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func makeRequest(t *testing.T, engine *gin.Engine, method, path string, body interface{}) (int, *response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	resp := &response{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), resp))
	}
	return w.Code, resp
}

func createTestPatient(t *testing.T, engine *gin.Engine) int64 {
	t.Helper()
	code, resp := makeRequest(t, engine, "POST", "/api/v1/patients", map[string]interface{}{
		"name":   "Asha Rao",
		"age":    41,
		"gender": "Female",
		"phone":  "9876543210",
		"charge": 500,
	})
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "success", resp.Status)
	id, ok := resp.Data["id"].(float64)
	require.True(t, ok)
	return int64(id)
}

func TestPatientFlow(t *testing.T) {
	engine := setupRouter(t)
	id := createTestPatient(t, engine)

	code, resp := makeRequest(t, engine, "GET", fmt.Sprintf("/api/v1/patients/%d", id), nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Asha Rao", resp.Data["name"])
	assert.Equal(t, "Female", resp.Data["gender"])
	assert.Equal(t, 500.0, resp.Data["charge"])

	code, resp = makeRequest(t, engine, "PUT", fmt.Sprintf("/api/v1/patients/%d", id), map[string]interface{}{
		"name":   "Asha R.",
		"charge": 600,
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Asha R.", resp.Data["name"])
	assert.Equal(t, "Male", resp.Data["gender"], "unset gender falls back to the default")

	code, _ = makeRequest(t, engine, "DELETE", fmt.Sprintf("/api/v1/patients/%d", id), nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = makeRequest(t, engine, "DELETE", fmt.Sprintf("/api/v1/patients/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, code, "repeat delete reports NotFound")
}

func TestVisitAndPaymentFlow(t *testing.T) {
	engine := setupRouter(t)
	id := createTestPatient(t, engine)

	code, resp := makeRequest(t, engine, "POST", fmt.Sprintf("/api/v1/patients/%d/visits", id), map[string]interface{}{
		"date": "2024-01-05",
	})
	require.Equal(t, http.StatusCreated, code)
	visits := resp.Data["visits"].([]interface{})
	require.Len(t, visits, 1)
	visit := visits[0].(map[string]interface{})
	assert.Equal(t, 500.0, visit["charge"], "charge defaults to fee times count")
	assert.Equal(t, 1.0, visit["count"])

	code, resp = makeRequest(t, engine, "POST", fmt.Sprintf("/api/v1/patients/%d/payments", id), map[string]interface{}{
		"date":   "2024-01-10",
		"amount": 200,
	})
	require.Equal(t, http.StatusCreated, code)
	payments := resp.Data["payments"].([]interface{})
	require.Len(t, payments, 1)
	assert.Equal(t, "Cash", payments[0].(map[string]interface{})["mode"])

	code, resp = makeRequest(t, engine, "POST", fmt.Sprintf("/api/v1/patients/%d/payments", id), map[string]interface{}{
		"amount": -5,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "error", resp.Status)

	code, resp = makeRequest(t, engine, "DELETE", fmt.Sprintf("/api/v1/patients/%d/visits/0", id), nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp.Data["visits"])

	code, _ = makeRequest(t, engine, "DELETE", fmt.Sprintf("/api/v1/patients/%d/visits/5", id), nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPatientSummary(t *testing.T) {
	engine := setupRouter(t)
	id := createTestPatient(t, engine)

	code, _ := makeRequest(t, engine, "POST", fmt.Sprintf("/api/v1/patients/%d/visits", id), map[string]interface{}{
		"date": "2024-01-05",
	})
	require.Equal(t, http.StatusCreated, code)
	code, _ = makeRequest(t, engine, "POST", fmt.Sprintf("/api/v1/patients/%d/payments", id), map[string]interface{}{
		"date": "2024-01-10", "amount": 200,
	})
	require.Equal(t, http.StatusCreated, code)

	code, resp := makeRequest(t, engine, "GET", fmt.Sprintf("/api/v1/patients/%d/summary", id), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 500.0, resp.Data["total_charges"])
	assert.Equal(t, 200.0, resp.Data["total_payments"])
	assert.Equal(t, 300.0, resp.Data["balance"])
	assert.Equal(t, false, resp.Data["visited_today"])

	display := resp.Data["display"].(map[string]interface{})
	assert.Equal(t, "₹300.00", display["balance"])

	code, _ = makeRequest(t, engine, "GET", fmt.Sprintf("/api/v1/patients/%d/summary?from=bad", id), nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSetActiveFlow(t *testing.T) {
	engine := setupRouter(t)
	id := createTestPatient(t, engine)

	code, resp := makeRequest(t, engine, "PATCH", fmt.Sprintf("/api/v1/patients/%d/active", id), map[string]interface{}{
		"active": true,
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp.Data["isActive"])
}

func TestListAndSearch(t *testing.T) {
	engine := setupRouter(t)
	createTestPatient(t, engine)

	req := httptest.NewRequest("GET", "/api/v1/patients?q=asha", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Asha Rao")

	req = httptest.NewRequest("GET", "/api/v1/patients?q=nobody", nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Asha Rao")
}

func TestInvalidPatientID(t *testing.T) {
	engine := setupRouter(t)

	code, _ := makeRequest(t, engine, "GET", "/api/v1/patients/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = makeRequest(t, engine, "GET", "/api/v1/patients/999", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
