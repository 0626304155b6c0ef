package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/retoapp/socia-service/internal/calc"
	"github.com/retoapp/socia-service/internal/models"
	"github.com/retoapp/socia-service/internal/repository"
	"github.com/retoapp/socia-service/internal/service"
)

const dateLayout = "2006-01-02"

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// round2 rounds a derived figure for display. Internal values stay at full
// precision; rounding never feeds back into arithmetic.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.svc.Register(req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetProfile returns the user and their split preferences
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, prefs, err := h.svc.GetProfile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":        user,
		"preferences": prefs,
		"pct_gasto":   prefs.PctGasto(),
	})
}

// UpdateProfile stores the user's split preferences
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var prefs models.SplitPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.svc.UpdateSplitPreferences(r.Context(), &prefs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// CreateClient handles client creation
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	created, err := h.svc.CreateClient(r.Context(), &client)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListClients returns the user's clients
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.ListClients(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

// GetClient returns one client
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}

	client, err := h.svc.GetClient(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// UpdateClient updates a client
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}

	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	client.ID = id

	if err := h.svc.UpdateClient(r.Context(), &client); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// DeleteClient removes a client
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}

	if err := h.svc.DeleteClient(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListClientPurchases returns one client's purchases
func (h *Handler) ListClientPurchases(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}

	purchases, err := h.svc.ListClientPurchases(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}

// ClientCycle returns a client's purchase-cadence prediction. A client with
// fewer than two purchases yields a null cycle, not an error.
func (h *Handler) ClientCycle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}

	cycle, err := h.svc.ClientCycle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"cycle": cycle})
}

// DueSoonClients returns the clients expected to buy again soon
func (h *Handler) DueSoonClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.DueSoonClients(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

// CreatePurchase records a sale
func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID      int64    `json:"client_id"`
		ProductID     *int64   `json:"product_id"`
		Amount        float64  `json:"amount"`
		CostPrice     *float64 `json:"cost_price"`
		Category      string   `json:"category"`
		PurchaseDate  string   `json:"purchase_date"`
		IsCredit      bool     `json:"is_credit"`
		CreditDueDate string   `json:"credit_due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	purchaseDate, err := parseOptionalDate(req.PurchaseDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "purchase_date must be YYYY-MM-DD"})
		return
	}
	dueDate, err := parseOptionalDate(req.CreditDueDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "credit_due_date must be YYYY-MM-DD"})
		return
	}

	purchase := models.Purchase{
		ClientID:      req.ClientID,
		ProductID:     req.ProductID,
		Amount:        req.Amount,
		CostPrice:     req.CostPrice,
		Category:      req.Category,
		IsCredit:      req.IsCredit,
		CreditDueDate: dueDate,
	}
	if purchaseDate != nil {
		purchase.PurchaseDate = *purchaseDate
	}

	created, err := h.svc.CreatePurchase(r.Context(), &purchase)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListPurchases returns the user's purchases
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.svc.ListPurchases(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}

// RecordCreditPayment registers an abono against a credit purchase
func (h *Handler) RecordCreditPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid purchase id"})
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
		PaidAt string  `json:"paid_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	paidAt, err := parseOptionalDate(req.PaidAt)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "paid_at must be YYYY-MM-DD"})
		return
	}
	var paidAtValue time.Time
	if paidAt != nil {
		paidAtValue = *paidAt
	}

	entry, err := h.svc.RecordCreditPayment(r.Context(), id, req.Amount, paidAtValue)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ListCobranza returns the outstanding credit purchases
func (h *Handler) ListCobranza(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListCobranza(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// UpsertGoal saves the user's goal
func (h *Handler) UpsertGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetAmount float64 `json:"target_amount"`
		Deadline     string  `json:"deadline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	deadline, err := parseOptionalDate(req.Deadline)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "deadline must be YYYY-MM-DD"})
		return
	}

	goal, err := h.svc.UpsertGoal(r.Context(), req.TargetAmount, deadline)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// GoalProgress returns progress toward the active goal. With no goal
// configured the progress is null.
func (h *Handler) GoalProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.svc.GoalProgress(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if progress != nil {
		progress.CurrentAmount = round2(progress.CurrentAmount)
		progress.AmountRemaining = round2(progress.AmountRemaining)
		progress.PacePerDay = round2(progress.PacePerDay)
		progress.PacePerWeek = round2(progress.PacePerWeek)
		progress.PacePerMonth = round2(progress.PacePerMonth)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"progress": progress})
}

// Simulate runs the pricing simulator
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BasePrice           float64 `json:"base_price"`
		MarkupMode          string  `json:"markup_mode"`
		MarkupValue         float64 `json:"markup_value"`
		SaleMode            string  `json:"sale_mode"`
		CreditCommissionPct float64 `json:"credit_commission_pct"`
		InstallmentCount    int     `json:"installment_count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Simulate(r.Context(), calc.PricingConfig{
		BasePrice:           req.BasePrice,
		MarkupMode:          calc.MarkupMode(req.MarkupMode),
		MarkupValue:         req.MarkupValue,
		SaleMode:            calc.SaleMode(req.SaleMode),
		CreditCommissionPct: req.CreditCommissionPct,
		InstallmentCount:    req.InstallmentCount,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	// Rounded copy for display; the service result keeps full precision.
	rounded := *result
	rounded.Split.MarkupAmount = round2(result.Split.MarkupAmount)
	rounded.Split.PriceBeforeCommission = round2(result.Split.PriceBeforeCommission)
	rounded.Split.CommissionAmount = round2(result.Split.CommissionAmount)
	rounded.Split.ClientPrice = round2(result.Split.ClientPrice)
	rounded.Split.InstallmentAmount = round2(result.Split.InstallmentAmount)
	rounded.Split.ProductShare = round2(result.Split.ProductShare)
	rounded.Split.ProfitShare = round2(result.Split.ProfitShare)
	rounded.Split.ExpenseShare = round2(result.Split.ExpenseShare)
	rounded.Budget.Needs = round2(result.Budget.Needs)
	rounded.Budget.Wants = round2(result.Budget.Wants)
	rounded.Budget.Savings = round2(result.Budget.Savings)
	rounded.MarginPct = round2(result.MarginPct)
	writeJSON(w, http.StatusOK, rounded)
}

// CreateProduct adds an inventory item
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	created, err := h.svc.CreateProduct(r.Context(), &product)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListProducts returns the inventory
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// UpdateProduct updates an inventory item
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	product.ID = id

	if err := h.svc.UpdateProduct(r.Context(), &product); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct removes an inventory item
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportCatalog pulls the brand price feed into the inventory
func (h *Handler) ImportCatalog(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.ImportCatalog(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": count})
}

// SaveSnapshot stores the weekly finance snapshot
func (h *Handler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekStart    string  `json:"week_start"`
		SalesTotal   float64 `json:"sales_total"`
		ProfitTotal  float64 `json:"profit_total"`
		SavingsTotal float64 `json:"savings_total"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	weekStart, err := parseOptionalDate(req.WeekStart)
	if err != nil || weekStart == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week_start must be YYYY-MM-DD"})
		return
	}

	snapshot := models.WeeklySnapshot{
		WeekStart:    *weekStart,
		SalesTotal:   req.SalesTotal,
		ProfitTotal:  req.ProfitTotal,
		SavingsTotal: req.SavingsTotal,
	}
	saved, err := h.svc.SaveSnapshot(r.Context(), &snapshot)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// ListSnapshots returns the weekly snapshots
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.svc.ListSnapshots(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

// Dashboard returns the home-screen summary
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	summary.Stats.SalesTotal = round2(summary.Stats.SalesTotal)
	summary.Stats.ProfitTotal = round2(summary.Stats.ProfitTotal)
	summary.Stats.PendingCobranza = round2(summary.Stats.PendingCobranza)
	if summary.Goal != nil {
		summary.Goal.CurrentAmount = round2(summary.Goal.CurrentAmount)
		summary.Goal.AmountRemaining = round2(summary.Goal.AmountRemaining)
		summary.Goal.PacePerDay = round2(summary.Goal.PacePerDay)
		summary.Goal.PacePerWeek = round2(summary.Goal.PacePerWeek)
		summary.Goal.PacePerMonth = round2(summary.Goal.PacePerMonth)
	}
	writeJSON(w, http.StatusOK, summary)
}
