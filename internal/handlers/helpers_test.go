package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"mosquefund/internal/middleware"
	"mosquefund/internal/models"
	"mosquefund/internal/policy"
	"mosquefund/internal/validator"
)

const (
	adminID     = "0190a1b2-0000-7000-8000-000000000001"
	treasurerID = "0190a1b2-0000-7000-8000-000000000002"
	viewerID    = "0190a1b2-0000-7000-8000-000000000003"
	pocketID    = "0190a1b2-0000-7000-8000-0000000000a1"
	categoryID  = "0190a1b2-0000-7000-8000-0000000000c1"
	recordID    = "0190a1b2-0000-7000-8000-0000000000d1"
)

// --- mock audit service ---

type auditEntry struct {
	actorID, action, resourceType, resourceID string
}

type mockAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (m *mockAuditService) Log(actorID, action, resourceType, resourceID, _ string, _ map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, auditEntry{actorID, action, resourceType, resourceID})
}

func (m *mockAuditService) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.action
	}
	return out
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func actorFor(id string, role models.UserRole) *policy.Actor {
	return &policy.Actor{ID: id, Email: string(role) + "@example.org", Role: role, IsActive: true}
}

func injectActor(actor *policy.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetActor(c, actor)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// errorDetails returns the details map of a failure envelope.
func errorDetails(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	details, ok := errObj["details"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error details, got: %v", errObj)
	}
	return details
}

func dataObject(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got: %v", result)
	}
	return data
}
