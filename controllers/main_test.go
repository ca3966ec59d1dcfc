package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avolkov/surveyhub/config"
	"github.com/avolkov/surveyhub/routes"
)

// testEnv wires a fresh in-memory database and router. Every test gets its
// own client IP so the shared per-IP rate limiters don't couple tests.
type testEnv struct {
	r  *gin.Engine
	ip string
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.DB = db

	r := gin.New()
	routes.SetupRoutes(r)

	ip := fmt.Sprintf("10.%d.%d.%d", rand.Intn(256), rand.Intn(256), rand.Intn(256))
	return &testEnv{r: r, ip: ip}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = e.ip + ":12345"
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func decodeJSONList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func (e *testEnv) register(t *testing.T, username, email, password string) uint {
	t.Helper()
	w := e.do(t, "POST", "/api/account/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	})
	if w.Code != 200 {
		t.Fatalf("register %s: status %d, body %s", username, w.Code, w.Body.String())
	}
	resp := decodeJSON(t, w)
	return uint(resp["id"].(float64))
}

func (e *testEnv) login(t *testing.T, usernameOrEmail, password string) string {
	t.Helper()
	w := e.do(t, "POST", "/api/account/login", "", gin.H{
		"username_or_email": usernameOrEmail,
		"password":          password,
	})
	if w.Code != 200 {
		t.Fatalf("login %s: status %d, body %s", usernameOrEmail, w.Code, w.Body.String())
	}
	return decodeJSON(t, w)["token"].(string)
}

func (e *testEnv) createSurvey(t *testing.T, token, name, description string, questions []string) uint {
	t.Helper()
	w := e.do(t, "POST", "/api/surveys/create", token, gin.H{
		"name":        name,
		"description": description,
		"questions":   questions,
	})
	if w.Code != 200 {
		t.Fatalf("create survey %s: status %d, body %s", name, w.Code, w.Body.String())
	}
	return uint(decodeJSON(t, w)["survey_id"].(float64))
}

func surveyPath(surveyID uint, suffix string) string {
	return "/api/surveys/" + strconv.FormatUint(uint64(surveyID), 10) + suffix
}
