// internal/app/features/account/handler_test.go
package account_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/lorehub/internal/app/features/account"
	"github.com/dalemusser/lorehub/internal/app/system/auth"
	"github.com/dalemusser/lorehub/internal/app/system/indexes"
	"github.com/dalemusser/lorehub/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func postJSON(t *testing.T, h http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	req := httptest.NewRequest("POST", target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func setupSessions(t *testing.T) {
	t.Helper()
	if err := auth.InitSessionStore("test-session-key-0123456789ABCDEF", "", false, zap.NewNop()); err != nil {
		t.Fatalf("InitSessionStore: %v", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	setupSessions(t)
	h := account.NewHandler(db, zap.NewNop(), bcrypt.MinCost)

	// Username uniqueness is enforced by a unique index.
	if err := indexes.EnsureAll(testutil.TestContext(t), db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	rec := postJSON(t, h.HandleRegister, "/register", map[string]any{
		"username": "newplayer",
		"password": "correct horse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Same username again fails regardless of case.
	rec = postJSON(t, h.HandleRegister, "/register", map[string]any{
		"username": "NewPlayer",
		"password": "another pass",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate register: expected 400, got %d", rec.Code)
	}

	rec = postJSON(t, h.HandleLogin, "/login", map[string]any{
		"username": "newplayer",
		"password": "correct horse",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Wrong password and unknown user get the same answer.
	rec = postJSON(t, h.HandleLogin, "/login", map[string]any{
		"username": "newplayer",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password: expected 401, got %d", rec.Code)
	}
	rec = postJSON(t, h.HandleLogin, "/login", map[string]any{
		"username": "nobody",
		"password": "whatever",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown user: expected 401, got %d", rec.Code)
	}
}

func TestRegister_RejectsBadInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	setupSessions(t)
	h := account.NewHandler(db, zap.NewNop(), bcrypt.MinCost)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"short username", map[string]any{"username": "ab", "password": "long enough pass"}},
		{"bad characters", map[string]any{"username": "no spaces!", "password": "long enough pass"}},
		{"short password", map[string]any{"username": "validname", "password": "short"}},
	}
	for _, tc := range cases {
		rec := postJSON(t, h.HandleRegister, "/register", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}
