package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dvloznov/fintrack/internal/store/memory"
)

func TestCreateAccount_Validation(t *testing.T) {
	h := NewAccountsHandler(memory.New(), zerolog.Nop())

	tests := []struct {
		name string
		body string
		want int
	}{
		{
			"valid",
			`{"name":"Everyday","bank_name":"First National","account_number_last4":"4821","type":"checking"}`,
			http.StatusCreated,
		},
		{
			"garbage body",
			`{not json`,
			http.StatusBadRequest,
		},
		{
			"missing name",
			`{"bank_name":"First National","type":"checking"}`,
			http.StatusBadRequest,
		},
		{
			"bad type",
			`{"name":"Everyday","type":"brokerage"}`,
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.CreateAccount(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCreateCreditCard_Validation(t *testing.T) {
	h := NewCreditCardsHandler(memory.New(), zerolog.Nop())

	tests := []struct {
		name string
		body string
		want int
	}{
		{
			"valid",
			`{"name":"Travel card","last4":"9310","bank":"First National","expiry_month":6,"expiry_year":2028,"statement_date":12,"due_date":5,"credit_limit":"5000"}`,
			http.StatusCreated,
		},
		{
			"optional fields omitted",
			`{"name":"Backup card"}`,
			http.StatusCreated,
		},
		{
			"missing name",
			`{"last4":"9310"}`,
			http.StatusBadRequest,
		},
		{
			"bad expiry month",
			`{"name":"Travel card","expiry_month":13}`,
			http.StatusBadRequest,
		},
		{
			"bad due date",
			`{"name":"Travel card","due_date":40}`,
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/credit-cards", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.CreateCreditCard(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCreateBudget_Validation(t *testing.T) {
	h := NewBudgetsHandler(memory.New(), zerolog.Nop())

	tests := []struct {
		name string
		body string
		want int
	}{
		{
			"valid",
			`{"category_id":"groceries","limit":"600","period":"monthly"}`,
			http.StatusCreated,
		},
		{
			"missing category",
			`{"limit":"600","period":"monthly"}`,
			http.StatusBadRequest,
		},
		{
			"zero limit",
			`{"category_id":"groceries","limit":"0","period":"monthly"}`,
			http.StatusBadRequest,
		},
		{
			"bad period",
			`{"category_id":"groceries","limit":"600","period":"weekly"}`,
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/budgets", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.CreateBudget(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCreateGoal_Validation(t *testing.T) {
	h := NewGoalsHandler(memory.New(), zerolog.Nop())

	tests := []struct {
		name string
		body string
		want int
	}{
		{
			"valid",
			`{"name":"House deposit","target_amount":"25000","saved_amount":"4000","target_date":"2027-06-01"}`,
			http.StatusCreated,
		},
		{
			"missing name",
			`{"target_amount":"25000","target_date":"2027-06-01"}`,
			http.StatusBadRequest,
		},
		{
			"zero target",
			`{"name":"House deposit","target_amount":"0","target_date":"2027-06-01"}`,
			http.StatusBadRequest,
		},
		{
			"missing target date",
			`{"name":"House deposit","target_amount":"25000"}`,
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.CreateGoal(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestAccounts_CreateListDelete(t *testing.T) {
	st := memory.New()
	h := NewAccountsHandler(st, zerolog.Nop())

	body := `{"name":"Everyday","bank_name":"First National","account_number_last4":"4821","type":"checking"}`
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(body))
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	h.CreateAccount(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	id := created["id"]
	if id == "" {
		t.Fatal("create response missing id")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set("X-User-ID", "alice")
	rec = httptest.NewRecorder()
	h.ListAccounts(rec, req)

	var listed struct {
		Count    int `json:"count"`
		Accounts []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"accounts"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if listed.Count != 1 {
		t.Fatalf("count = %d, want 1", listed.Count)
	}
	if listed.Accounts[0].ID != id || listed.Accounts[0].Name != "Everyday" || listed.Accounts[0].Type != "checking" {
		t.Errorf("listed account = %+v", listed.Accounts[0])
	}

	// Other users never see it.
	req = httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set("X-User-ID", "bob")
	rec = httptest.NewRecorder()
	h.ListAccounts(rec, req)
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if listed.Count != 0 {
		t.Errorf("cross-user count = %d, want 0", listed.Count)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/accounts/"+id, nil)
	req.Header.Set("X-User-ID", "alice")
	rec = httptest.NewRecorder()
	h.DeleteAccount(rec, req, id)
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/accounts/"+id, nil)
	req.Header.Set("X-User-ID", "alice")
	h.DeleteAccount(rec, req, id)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCreditCards_CreateListDelete(t *testing.T) {
	st := memory.New()
	h := NewCreditCardsHandler(st, zerolog.Nop())

	body := `{"name":"Travel card","last4":"9310","bank":"First National","expiry_month":6,"expiry_year":2028,"statement_date":12,"due_date":5,"credit_limit":"5000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/credit-cards", strings.NewReader(body))
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	h.CreateCreditCard(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	id := created["id"]

	req = httptest.NewRequest(http.MethodGet, "/api/credit-cards", nil)
	req.Header.Set("X-User-ID", "alice")
	rec = httptest.NewRecorder()
	h.ListCreditCards(rec, req)

	var listed struct {
		Count int `json:"count"`
		Cards []struct {
			Name        string `json:"name"`
			DueDate     int    `json:"due_date"`
			CreditLimit string `json:"credit_limit"`
		} `json:"credit_cards"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if listed.Count != 1 {
		t.Fatalf("count = %d, want 1", listed.Count)
	}
	if listed.Cards[0].Name != "Travel card" || listed.Cards[0].DueDate != 5 || listed.Cards[0].CreditLimit != "5000" {
		t.Errorf("listed card = %+v", listed.Cards[0])
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/credit-cards/"+id, nil)
	req.Header.Set("X-User-ID", "alice")
	rec = httptest.NewRecorder()
	h.DeleteCreditCard(rec, req, id)
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	h.DeleteCreditCard(rec, req, id)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestBudgets_CreateListDelete(t *testing.T) {
	st := memory.New()
	h := NewBudgetsHandler(st, zerolog.Nop())

	body := `{"category_id":"groceries","limit":"600","period":"monthly"}`
	req := httptest.NewRequest(http.MethodPost, "/api/budgets", strings.NewReader(body))
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	h.CreateBudget(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	id := created["id"]

	req = httptest.NewRequest(http.MethodGet, "/api/budgets", nil)
	req.Header.Set("X-User-ID", "alice")
	rec = httptest.NewRecorder()
	h.ListBudgets(rec, req)

	var listed struct {
		Count   int `json:"count"`
		Budgets []struct {
			CategoryID string `json:"category_id"`
			Limit      string `json:"limit"`
			Period     string `json:"period"`
		} `json:"budgets"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if listed.Count != 1 {
		t.Fatalf("count = %d, want 1", listed.Count)
	}
	if listed.Budgets[0].CategoryID != "groceries" || listed.Budgets[0].Limit != "600" || listed.Budgets[0].Period != "monthly" {
		t.Errorf("listed budget = %+v", listed.Budgets[0])
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/budgets/"+id, nil)
	req.Header.Set("X-User-ID", "alice")
	rec = httptest.NewRecorder()
	h.DeleteBudget(rec, req, id)
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	h.DeleteBudget(rec, req, id)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestGoals_CreateListDelete(t *testing.T) {
	st := memory.New()
	h := NewGoalsHandler(st, zerolog.Nop())

	body := `{"name":"House deposit","target_amount":"25000","saved_amount":"4000","target_date":"2027-06-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(body))
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	h.CreateGoal(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	id := created["id"]

	req = httptest.NewRequest(http.MethodGet, "/api/goals", nil)
	req.Header.Set("X-User-ID", "alice")
	rec = httptest.NewRecorder()
	h.ListGoals(rec, req)

	var listed struct {
		Count int `json:"count"`
		Goals []struct {
			Name        string `json:"name"`
			SavedAmount string `json:"saved_amount"`
			TargetDate  string `json:"target_date"`
		} `json:"goals"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if listed.Count != 1 {
		t.Fatalf("count = %d, want 1", listed.Count)
	}
	if listed.Goals[0].Name != "House deposit" || listed.Goals[0].SavedAmount != "4000" || listed.Goals[0].TargetDate != "2027-06-01" {
		t.Errorf("listed goal = %+v", listed.Goals[0])
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/goals/"+id, nil)
	req.Header.Set("X-User-ID", "alice")
	rec = httptest.NewRecorder()
	h.DeleteGoal(rec, req, id)
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	h.DeleteGoal(rec, req, id)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
