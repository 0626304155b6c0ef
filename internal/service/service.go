package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/retoapp/socia-service/internal/calc"
	"github.com/retoapp/socia-service/internal/config"
	"github.com/retoapp/socia-service/internal/integrations/catalog"
	"github.com/retoapp/socia-service/internal/models"
	"github.com/retoapp/socia-service/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidInput marks validation failures at the service boundary
var ErrInvalidInput = errors.New("invalid input")

// Service handles business logic
type Service struct {
	repo    *repository.Repository
	log     *logrus.Logger
	config  *config.Config
	catalog *catalog.Client
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config, catalogClient *catalog.Client) *Service {
	return &Service{repo: repo, log: log, config: cfg, catalog: catalogClient}
}

func userIDFromContext(ctx context.Context) (int64, error) {
	userIDStr, ok := ctx.Value("userID").(string)
	if !ok || userIDStr == "" {
		return 0, fmt.Errorf("user ID not found in context")
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID: %w", err)
	}
	return userID, nil
}

// Register creates a new user with hashed password
func (s *Service) Register(name, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// GetProfile returns the authenticated user and their split preferences
func (s *Service) GetProfile(ctx context.Context) (*models.User, *models.SplitPreferences, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		return nil, nil, err
	}
	prefs, err := s.repo.GetSplitPreferences(userID)
	if err != nil {
		return nil, nil, err
	}
	return user, prefs, nil
}

// UpdateSplitPreferences validates and stores the user's percentages
func (s *Service) UpdateSplitPreferences(ctx context.Context, prefs *models.SplitPreferences) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	for _, pct := range []float64{prefs.PctReposicion, prefs.PctGanancia, prefs.PctAhorro} {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("%w: percentages must be between 0 and 100", ErrInvalidInput)
		}
	}
	if prefs.PctReposicion+prefs.PctGanancia > 100 {
		return fmt.Errorf("%w: reposicion and ganancia must not exceed 100 combined", ErrInvalidInput)
	}

	if err := s.repo.UpdateSplitPreferences(userID, prefs); err != nil {
		return err
	}
	s.log.Infof("Split preferences updated for user %d", userID)
	return nil
}

// CreateClient creates a new client for the authenticated user
func (s *Service) CreateClient(ctx context.Context, client *models.Client) (*models.Client, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if client.Name == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}

	client.UserID = userID
	if err := s.repo.CreateClient(client); err != nil {
		return nil, err
	}
	s.log.Infof("Client created for user %d: %s", userID, client.Name)
	return client, nil
}

// ListClients returns the user's clients
func (s *Service) ListClients(ctx context.Context) ([]models.Client, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListClients(userID)
}

// GetClient returns one client
func (s *Service) GetClient(ctx context.Context, clientID int64) (*models.Client, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindClientByID(userID, clientID)
}

// UpdateClient updates a client's editable fields
func (s *Service) UpdateClient(ctx context.Context, client *models.Client) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	if client.Name == "" {
		return fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}
	client.UserID = userID
	return s.repo.UpdateClient(client)
}

// DeleteClient removes a client
func (s *Service) DeleteClient(ctx context.Context, clientID int64) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	return s.repo.DeleteClient(userID, clientID)
}

// CreatePurchase records a sale and, when the sale draws from inventory,
// decrements stock
func (s *Service) CreatePurchase(ctx context.Context, p *models.Purchase) (*models.Purchase, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if p.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if p.CostPrice != nil && *p.CostPrice < 0 {
		return nil, fmt.Errorf("%w: cost price must not be negative", ErrInvalidInput)
	}
	if p.IsCredit && p.CreditDueDate == nil {
		return nil, fmt.Errorf("%w: credit sales require a due date", ErrInvalidInput)
	}

	if _, err := s.repo.FindClientByID(userID, p.ClientID); err != nil {
		return nil, err
	}
	if p.PurchaseDate.IsZero() {
		p.PurchaseDate = time.Now()
	}

	p.UserID = userID
	p.CreditPaid = false
	if err := s.repo.CreatePurchase(p); err != nil {
		return nil, err
	}

	if p.ProductID != nil {
		if err := s.repo.DecrementStock(userID, *p.ProductID); err != nil {
			s.log.Warnf("Could not decrement stock for product %d: %v", *p.ProductID, err)
		}
	}

	s.log.Infof("Purchase recorded for user %d: client %d, %.2f", userID, p.ClientID, p.Amount)
	return p, nil
}

// ListPurchases returns the user's purchases
func (s *Service) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPurchases(userID)
}

// ListClientPurchases returns one client's purchases
func (s *Service) ListClientPurchases(ctx context.Context, clientID int64) ([]models.Purchase, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindClientByID(userID, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListPurchasesByClient(userID, clientID)
}

// RecordCreditPayment registers an abono and marks the purchase collected
// once the payments cover the amount
func (s *Service) RecordCreditPayment(ctx context.Context, purchaseID int64, amount float64, paidAt time.Time) (*models.CobranzaEntry, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}

	purchase, err := s.repo.FindPurchaseByID(userID, purchaseID)
	if err != nil {
		return nil, err
	}
	if !purchase.IsCredit {
		return nil, fmt.Errorf("%w: purchase is not a credit sale", ErrInvalidInput)
	}
	if purchase.CreditPaid {
		return nil, fmt.Errorf("%w: credit is already settled", ErrInvalidInput)
	}

	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	payment := &models.CreditPayment{PurchaseID: purchaseID, Amount: amount, PaidAt: paidAt}
	if err := s.repo.CreateCreditPayment(payment); err != nil {
		return nil, err
	}

	paid, err := s.repo.SumCreditPayments(purchaseID)
	if err != nil {
		return nil, err
	}
	if paid >= purchase.Amount {
		if err := s.repo.MarkCreditPaid(userID, purchaseID); err != nil {
			return nil, err
		}
		purchase.CreditPaid = true
		s.log.Infof("Credit settled for user %d: purchase %d", userID, purchaseID)
	}

	balance := purchase.Amount - paid
	if balance < 0 {
		balance = 0
	}
	return &models.CobranzaEntry{
		Purchase:   *purchase,
		PaidAmount: paid,
		Balance:    balance,
	}, nil
}

// ListCobranza returns the user's outstanding credit purchases with balances
func (s *Service) ListCobranza(ctx context.Context) ([]models.CobranzaEntry, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListOutstandingCredits(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range entries {
		e := &entries[i]
		e.Balance = e.Purchase.Amount - e.PaidAmount
		if e.Balance < 0 {
			e.Balance = 0
		}
		e.Overdue = e.Purchase.CreditDueDate != nil && e.Purchase.CreditDueDate.Before(now)
	}
	return entries, nil
}

// UpsertGoal creates or replaces the user's goal
func (s *Service) UpsertGoal(ctx context.Context, targetAmount float64, deadline *time.Time) (*models.Goal, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if targetAmount <= 0 {
		return nil, fmt.Errorf("%w: target amount must be positive", ErrInvalidInput)
	}

	goal := &models.Goal{UserID: userID, TargetAmount: targetAmount, Deadline: deadline}
	if err := s.repo.UpsertGoal(goal); err != nil {
		return nil, err
	}
	s.log.Infof("Goal saved for user %d: %.2f", userID, targetAmount)
	return goal, nil
}

// GoalProgress derives completion, remaining amount and the pace required to
// arrive on time. The amount counted toward the goal is the savings share of
// the accumulated profit. Returns nil when no goal is configured.
func (s *Service) GoalProgress(ctx context.Context) (*models.GoalProgressView, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	goal, err := s.repo.FindGoalByUser(userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	prefs, err := s.repo.GetSplitPreferences(userID)
	if err != nil {
		return nil, err
	}
	purchases, err := s.repo.ListPurchases(userID)
	if err != nil {
		return nil, err
	}

	stats := aggregateStats(purchases)
	current := calc.ComputeBudgetSplit(stats.ProfitTotal, prefs.PctAhorro).Savings

	return buildGoalView(goal, current, time.Now()), nil
}

func buildGoalView(goal *models.Goal, current float64, now time.Time) *models.GoalProgressView {
	progress := calc.ComputeProgress(current, goal.TargetAmount, goal.Deadline, now)

	days := progress.DaysRemaining
	view := &models.GoalProgressView{
		TargetAmount:    goal.TargetAmount,
		CurrentAmount:   current,
		Percentage:      progress.Percentage,
		AmountRemaining: progress.AmountRemaining,
		DaysRemaining:   days,
		Status:          progress.Status,
		PacePerDay:      calc.RequiredPace(progress.AmountRemaining, days),
		PacePerWeek:     calc.RequiredPace(progress.AmountRemaining, days) * 7,
		PacePerMonth:    calc.RequiredPace(progress.AmountRemaining, days) * 30,
	}
	return view
}

// aggregateStats totals sales and profit across purchases. Profit falls back
// to the default cost ratio when a purchase has no recorded cost price.
func aggregateStats(purchases []models.Purchase) models.SalesStats {
	stats := models.SalesStats{PurchaseCount: len(purchases)}
	for _, p := range purchases {
		stats.SalesTotal += p.Amount
		cost := p.Amount * calc.DefaultCostRatio
		if p.CostPrice != nil {
			cost = *p.CostPrice
		}
		stats.ProfitTotal += p.Amount - cost
	}
	return stats
}

// SimulationResult bundles the pricing split with the budget allocation of
// its profit share.
type SimulationResult struct {
	Split           calc.Split       `json:"split"`
	Budget          calc.BudgetSplit `json:"budget"`
	MarginPct       float64          `json:"margin_pct"`
	ExcellentMargin bool             `json:"excellent_margin"`
}

// Simulate runs the pricing simulator with the user's savings percentage
// applied to the profit share. Nothing is persisted.
func (s *Service) Simulate(ctx context.Context, cfg calc.PricingConfig) (*SimulationResult, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.BasePrice < 0 || cfg.MarkupValue < 0 || cfg.CreditCommissionPct < 0 {
		return nil, fmt.Errorf("%w: prices and percentages must not be negative", ErrInvalidInput)
	}
	if cfg.MarkupMode != calc.MarkupPercent && cfg.MarkupMode != calc.MarkupAmount {
		return nil, fmt.Errorf("%w: markup mode must be percent or amount", ErrInvalidInput)
	}
	if cfg.SaleMode != calc.SaleCash && cfg.SaleMode != calc.SaleCredit {
		return nil, fmt.Errorf("%w: sale mode must be cash or credit", ErrInvalidInput)
	}

	prefs, err := s.repo.GetSplitPreferences(userID)
	if err != nil {
		return nil, err
	}

	split := calc.ComputeSplit(cfg)
	margin := split.MarginPct(cfg.BasePrice)
	return &SimulationResult{
		Split:           split,
		Budget:          calc.ComputeBudgetSplit(split.ProfitShare, prefs.PctAhorro),
		MarginPct:       margin,
		ExcellentMargin: margin >= calc.ExcellentMarginPct,
	}, nil
}

// ClientCycle derives one client's purchase cadence and cross-sell
// suggestion. Returns nil with no error when the client has fewer than two
// purchases, which is a normal state.
func (s *Service) ClientCycle(ctx context.Context, clientID int64) (*models.ClientCycleView, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	client, err := s.repo.FindClientByID(userID, clientID)
	if err != nil {
		return nil, err
	}

	dates, err := s.repo.ListPurchaseDates(userID, clientID)
	if err != nil {
		return nil, err
	}
	profile := calc.ComputeCycle(dates, time.Now())
	if profile == nil {
		return nil, nil
	}

	purchases, err := s.repo.ListPurchasesByClient(userID, clientID)
	if err != nil {
		return nil, err
	}
	lastCategory := ""
	if len(purchases) > 0 {
		lastCategory = purchases[0].Category
	}

	return &models.ClientCycleView{
		ClientID:       client.ID,
		ClientName:     client.Name,
		AverageGapDays: profile.AverageGapDays,
		DaysSinceLast:  profile.DaysSinceLast,
		DaysUntilNext:  profile.DaysUntilNext,
		DueSoon:        profile.DueSoon(),
		LastCategory:   lastCategory,
		Suggestion:     calc.SuggestComplement(lastCategory),
	}, nil
}

// DueSoonClients returns the clients whose expected next purchase falls
// inside the actionable window
func (s *Service) DueSoonClients(ctx context.Context) ([]models.ClientCycleView, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	clients, err := s.repo.ListClients(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dueSoon := []models.ClientCycleView{}
	for _, client := range clients {
		dates, err := s.repo.ListPurchaseDates(userID, client.ID)
		if err != nil {
			return nil, err
		}
		profile := calc.ComputeCycle(dates, now)
		if !profile.DueSoon() {
			continue
		}
		dueSoon = append(dueSoon, models.ClientCycleView{
			ClientID:       client.ID,
			ClientName:     client.Name,
			AverageGapDays: profile.AverageGapDays,
			DaysSinceLast:  profile.DaysSinceLast,
			DaysUntilNext:  profile.DaysUntilNext,
			DueSoon:        true,
		})
	}
	return dueSoon, nil
}

// Dashboard assembles the home-screen summary
func (s *Service) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	purchases, err := s.repo.ListPurchases(userID)
	if err != nil {
		return nil, err
	}
	stats := aggregateStats(purchases)

	cobranza, err := s.ListCobranza(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range cobranza {
		stats.PendingCobranza += e.Balance
	}

	summary := &models.DashboardSummary{Stats: stats}

	goal, err := s.repo.FindGoalByUser(userID)
	if err == nil {
		prefs, err := s.repo.GetSplitPreferences(userID)
		if err != nil {
			return nil, err
		}
		current := calc.ComputeBudgetSplit(stats.ProfitTotal, prefs.PctAhorro).Savings
		summary.Goal = buildGoalView(goal, current, time.Now())
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	dueSoon, err := s.DueSoonClients(ctx)
	if err != nil {
		return nil, err
	}
	summary.DueSoonClients = dueSoon

	last, err := s.repo.LastPurchaseDate(userID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		days := int(time.Since(*last).Hours() / 24)
		summary.DaysSinceLastSale = &days
		summary.NeedsSalesNudge = days >= calc.IdleNudgeDays
	}

	return summary, nil
}

// CreateProduct adds an inventory item
func (s *Service) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if product.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if product.BasePrice < 0 || product.Stock < 0 {
		return nil, fmt.Errorf("%w: price and stock must not be negative", ErrInvalidInput)
	}

	product.UserID = userID
	if err := s.repo.CreateProduct(product); err != nil {
		return nil, err
	}
	s.log.Infof("Product created for user %d: %s", userID, product.Name)
	return product, nil
}

// ListProducts returns the user's inventory
func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListProducts(userID)
}

// UpdateProduct updates an inventory item
func (s *Service) UpdateProduct(ctx context.Context, product *models.Product) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	if product.BasePrice < 0 || product.Stock < 0 {
		return fmt.Errorf("%w: price and stock must not be negative", ErrInvalidInput)
	}
	product.UserID = userID
	return s.repo.UpdateProduct(product)
}

// DeleteProduct removes an inventory item
func (s *Service) DeleteProduct(ctx context.Context, productID int64) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	return s.repo.DeleteProduct(userID, productID)
}

// ImportCatalog fetches the brand's XML price feed and upserts every item
// into the user's inventory. Returns the number of items imported.
func (s *Service) ImportCatalog(ctx context.Context) (int, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return 0, err
	}
	if s.catalog == nil {
		return 0, fmt.Errorf("catalog feed is not configured")
	}

	items, err := s.catalog.FetchCatalog()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	for _, item := range items {
		product := &models.Product{
			UserID:    userID,
			Name:      item.Name,
			Category:  item.Category,
			BasePrice: item.BasePrice,
		}
		if err := s.repo.UpsertProductByName(product); err != nil {
			return 0, err
		}
	}

	s.log.Infof("Catalog imported for user %d: %d products", userID, len(items))
	return len(items), nil
}

// SaveSnapshot creates or replaces the weekly finance snapshot
func (s *Service) SaveSnapshot(ctx context.Context, snapshot *models.WeeklySnapshot) (*models.WeeklySnapshot, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot.WeekStart.IsZero() {
		return nil, fmt.Errorf("%w: week start date is required", ErrInvalidInput)
	}
	if snapshot.SalesTotal < 0 || snapshot.ProfitTotal < 0 || snapshot.SavingsTotal < 0 {
		return nil, fmt.Errorf("%w: totals must not be negative", ErrInvalidInput)
	}

	snapshot.UserID = userID
	if err := s.repo.UpsertSnapshot(snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ListSnapshots returns the user's weekly snapshots
func (s *Service) ListSnapshots(ctx context.Context) ([]models.WeeklySnapshot, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSnapshots(userID)
}
