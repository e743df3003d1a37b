package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JeyadeepakUR/credresolve/internal/auth"
	"github.com/JeyadeepakUR/credresolve/internal/ledger"
	"github.com/JeyadeepakUR/credresolve/internal/models"
	"github.com/JeyadeepakUR/credresolve/internal/storage/sqlite"
)

type testAPI struct {
	t      *testing.T
	router http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	engine := ledger.NewEngine(store)
	tokens := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	return &testAPI{t: t, router: NewRouter(store, engine, authenticator, tokens)}
}

// do sends a request and decodes the JSON response into out (when non-nil).
func (a *testAPI) do(method, path, token string, body any, wantStatus int, out any) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		a.t.Fatalf("%s %s = %d, want %d (body: %s)", method, path, rec.Code, wantStatus, rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			a.t.Fatalf("Failed to decode response from %s %s: %v", method, path, err)
		}
	}
}

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (a *testAPI) register(name, email string) authResponse {
	a.t.Helper()
	var resp authResponse
	a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "correct-horse",
	}, http.StatusCreated, &resp)
	return resp
}

func findBalance(t *testing.T, balances []models.Balance, from, to string) decimal.Decimal {
	t.Helper()
	for _, b := range balances {
		if b.FromUserID == from && b.ToUserID == to {
			return b.Amount
		}
	}
	t.Fatalf("balance %s->%s not found in %v", from, to, balances)
	return decimal.Zero
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	alice := api.register("Alice", "alice@example.com")
	if alice.Token == "" || alice.User.ID == "" {
		t.Fatal("Expected token and user ID from register")
	}

	t.Run("duplicate email rejected", func(t *testing.T) {
		var resp errorResponse
		api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Alice2", "email": "alice@example.com", "password": "correct-horse",
		}, http.StatusConflict, &resp)
		if resp.Error.Code != "EMAIL_EXISTS" {
			t.Errorf("error code = %s, want EMAIL_EXISTS", resp.Error.Code)
		}
	})

	t.Run("weak password rejected", func(t *testing.T) {
		var resp errorResponse
		api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Bob", "email": "bob@example.com", "password": "short",
		}, http.StatusBadRequest, &resp)
		if resp.Error.Code != "WEAK_PASSWORD" {
			t.Errorf("error code = %s, want WEAK_PASSWORD", resp.Error.Code)
		}
	})

	t.Run("login returns token", func(t *testing.T) {
		var resp authResponse
		api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "correct-horse",
		}, http.StatusOK, &resp)
		if resp.Token == "" {
			t.Error("Expected token from login")
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		var resp errorResponse
		api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "wrong-password",
		}, http.StatusUnauthorized, &resp)
		if resp.Error.Code != "INVALID_CREDENTIALS" {
			t.Errorf("error code = %s, want INVALID_CREDENTIALS", resp.Error.Code)
		}
	})

	t.Run("me returns current user", func(t *testing.T) {
		var resp struct {
			User models.User `json:"user"`
		}
		api.do(http.MethodGet, "/api/auth/me", alice.Token, nil, http.StatusOK, &resp)
		if resp.User.ID != alice.User.ID {
			t.Errorf("me returned user %s, want %s", resp.User.ID, alice.User.ID)
		}
	})

	t.Run("protected route without token", func(t *testing.T) {
		api.do(http.MethodGet, "/api/groups", "", nil, http.StatusUnauthorized, nil)
	})

	t.Run("protected route with garbage token", func(t *testing.T) {
		api.do(http.MethodGet, "/api/groups", "not-a-jwt", nil, http.StatusUnauthorized, nil)
	})
}

func TestExpenseAndSettlementFlow(t *testing.T) {
	api := newTestAPI(t)

	alice := api.register("Alice", "alice@example.com")
	bob := api.register("Bob", "bob@example.com")
	token := alice.Token

	// Group with both members.
	var groupResp struct {
		Group models.Group `json:"group"`
	}
	api.do(http.MethodPost, "/api/groups", token, map[string]string{
		"name": "Trip", "createdBy": alice.User.ID,
	}, http.StatusCreated, &groupResp)
	groupID := groupResp.Group.ID

	api.do(http.MethodPost, "/api/groups/"+groupID+"/members", token, map[string]string{
		"userId": bob.User.ID,
	}, http.StatusOK, &groupResp)
	if len(groupResp.Group.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(groupResp.Group.Members))
	}

	t.Run("duplicate member rejected", func(t *testing.T) {
		var resp errorResponse
		api.do(http.MethodPost, "/api/groups/"+groupID+"/members", token, map[string]string{
			"userId": bob.User.ID,
		}, http.StatusBadRequest, &resp)
		if resp.Error.Code != "MEMBER_EXISTS" {
			t.Errorf("error code = %s, want MEMBER_EXISTS", resp.Error.Code)
		}
	})

	// Equal split expense: bob ends up owing alice 50.
	var expenseResp struct {
		Expense  models.Expense   `json:"expense"`
		Balances []models.Balance `json:"updatedBalances"`
	}
	api.do(http.MethodPost, "/api/expenses", token, map[string]any{
		"groupId":     groupID,
		"description": "dinner",
		"totalAmount": 100,
		"paidBy":      alice.User.ID,
		"splitType":   "EQUAL",
		"splits": []map[string]any{
			{"userId": alice.User.ID},
			{"userId": bob.User.ID},
		},
	}, http.StatusCreated, &expenseResp)

	if expenseResp.Expense.ID == "" {
		t.Fatal("Expected expense ID")
	}
	if got := findBalance(t, expenseResp.Balances, bob.User.ID, alice.User.ID); !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("balance = %s, want 50", got)
	}

	t.Run("group balances endpoint", func(t *testing.T) {
		var resp struct {
			Balances []models.Balance `json:"balances"`
		}
		api.do(http.MethodGet, "/api/groups/"+groupID+"/balances", token, nil, http.StatusOK, &resp)
		if got := findBalance(t, resp.Balances, bob.User.ID, alice.User.ID); !got.Equal(decimal.NewFromInt(50)) {
			t.Errorf("balance = %s, want 50", got)
		}
	})

	t.Run("simplified balances endpoint", func(t *testing.T) {
		var resp struct {
			Balances []models.Balance `json:"balances"`
		}
		api.do(http.MethodGet, "/api/groups/"+groupID+"/balances/simplified", token, nil, http.StatusOK, &resp)
		if len(resp.Balances) != 1 {
			t.Fatalf("got %d simplified payments, want 1", len(resp.Balances))
		}
	})

	t.Run("user balances endpoint", func(t *testing.T) {
		var resp models.UserBalances
		api.do(http.MethodGet, "/api/users/"+bob.User.ID+"/balances", token, nil, http.StatusOK, &resp)
		if !resp.NetBalance.Equal(decimal.NewFromInt(-50)) {
			t.Errorf("bob net balance = %s, want -50", resp.NetBalance)
		}
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		var resp errorResponse
		api.do(http.MethodPost, "/api/settlements", bob.Token, map[string]any{
			"groupId":  groupID,
			"toUserId": alice.User.ID,
			"amount":   60,
		}, http.StatusBadRequest, &resp)
		if resp.Error.Code != "SETTLEMENT_EXCEEDS_BALANCE" {
			t.Errorf("error code = %s, want SETTLEMENT_EXCEEDS_BALANCE", resp.Error.Code)
		}
	})

	// Settle in full. fromUserId defaults to the authenticated user.
	var settleResp struct {
		Settlement       models.Settlement `json:"settlement"`
		RemainingBalance decimal.Decimal   `json:"remainingBalance"`
	}
	api.do(http.MethodPost, "/api/settlements", bob.Token, map[string]any{
		"groupId":  groupID,
		"toUserId": alice.User.ID,
		"amount":   50,
	}, http.StatusCreated, &settleResp)

	if settleResp.Settlement.FromUserID != bob.User.ID {
		t.Errorf("settlement from = %s, want %s", settleResp.Settlement.FromUserID, bob.User.ID)
	}
	if !settleResp.RemainingBalance.IsZero() {
		t.Errorf("remaining balance = %s, want 0", settleResp.RemainingBalance)
	}

	t.Run("balances empty after settlement", func(t *testing.T) {
		var resp struct {
			Balances []models.Balance `json:"balances"`
		}
		api.do(http.MethodGet, "/api/groups/"+groupID+"/balances", token, nil, http.StatusOK, &resp)
		if len(resp.Balances) != 0 {
			t.Errorf("got %d balances, want 0", len(resp.Balances))
		}
	})

	t.Run("settlement history", func(t *testing.T) {
		var resp struct {
			Settlements []models.Settlement `json:"settlements"`
		}
		api.do(http.MethodGet, "/api/settlements/groups/"+groupID, token, nil, http.StatusOK, &resp)
		if len(resp.Settlements) != 1 {
			t.Fatalf("got %d settlements, want 1", len(resp.Settlements))
		}

		api.do(http.MethodGet, "/api/groups/"+groupID+"/settlements", token, nil, http.StatusOK, &resp)
		if len(resp.Settlements) != 1 {
			t.Fatalf("got %d settlements via group route, want 1", len(resp.Settlements))
		}
	})

	t.Run("delete expense recalculates", func(t *testing.T) {
		var resp struct {
			Message string `json:"message"`
			Success bool   `json:"success"`
		}
		api.do(http.MethodDelete, "/api/expenses/"+expenseResp.Expense.ID, token, nil, http.StatusOK, &resp)
		if !resp.Success {
			t.Error("Expected success=true")
		}

		var balancesResp struct {
			Balances []models.Balance `json:"balances"`
		}
		api.do(http.MethodGet, "/api/groups/"+groupID+"/balances", token, nil, http.StatusOK, &balancesResp)
		if len(balancesResp.Balances) != 0 {
			t.Errorf("got %d balances after delete, want 0", len(balancesResp.Balances))
		}
	})

	t.Run("unknown group is 404", func(t *testing.T) {
		var resp errorResponse
		api.do(http.MethodGet, "/api/groups/missing/balances", token, nil, http.StatusNotFound, &resp)
		if resp.Error.Code != "GROUP_NOT_FOUND" {
			t.Errorf("error code = %s, want GROUP_NOT_FOUND", resp.Error.Code)
		}
	})

	t.Run("unknown expense delete is 404", func(t *testing.T) {
		var resp errorResponse
		api.do(http.MethodDelete, "/api/expenses/missing", token, nil, http.StatusNotFound, &resp)
		if resp.Error.Code != "EXPENSE_NOT_FOUND" {
			t.Errorf("error code = %s, want EXPENSE_NOT_FOUND", resp.Error.Code)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	api := newTestAPI(t)

	var resp map[string]string
	api.do(http.MethodGet, "/health", "", nil, http.StatusOK, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %s, want ok", resp["status"])
	}
}
