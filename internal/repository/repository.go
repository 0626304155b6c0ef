package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/retoapp/socia-service/internal/models"
)

// ErrNotFound is returned when a row does not exist or belongs to another
// user. Callers treat it as a normal state, not a fault.
var ErrNotFound = errors.New("not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user with default split preferences
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO reto.users (email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, user.Email, user.Name, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, name, password_hash, created_at
		FROM reto.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, name, password_hash, created_at
		FROM reto.users
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetSplitPreferences retrieves the per-user split percentages
func (r *Repository) GetSplitPreferences(userID int64) (*models.SplitPreferences, error) {
	prefs := &models.SplitPreferences{}
	query := `
		SELECT pct_reposicion, pct_ganancia, pct_ahorro
		FROM reto.users
		WHERE id = $1`
	err := r.db.QueryRow(query, userID).
		Scan(&prefs.PctReposicion, &prefs.PctGanancia, &prefs.PctAhorro)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split preferences: %w", err)
	}
	return prefs, nil
}

// UpdateSplitPreferences stores the per-user split percentages
func (r *Repository) UpdateSplitPreferences(userID int64, prefs *models.SplitPreferences) error {
	query := `
		UPDATE reto.users
		SET pct_reposicion = $2, pct_ganancia = $3, pct_ahorro = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	res, err := r.db.Exec(query, userID, prefs.PctReposicion, prefs.PctGanancia, prefs.PctAhorro)
	if err != nil {
		return fmt.Errorf("failed to update split preferences: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateClient creates a new client for a user
func (r *Repository) CreateClient(client *models.Client) error {
	query := `
		INSERT INTO reto.clients (user_id, name, phone, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, client.UserID, client.Name, client.Phone, client.Notes).
		Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// ListClients retrieves all clients of a user
func (r *Repository) ListClients(userID int64) ([]models.Client, error) {
	query := `
		SELECT id, user_id, name, phone, notes, created_at, updated_at
		FROM reto.clients
		WHERE user_id = $1
		ORDER BY name`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// FindClientByID retrieves one client, scoped to the owning user
func (r *Repository) FindClientByID(userID, clientID int64) (*models.Client, error) {
	client := &models.Client{}
	query := `
		SELECT id, user_id, name, phone, notes, created_at, updated_at
		FROM reto.clients
		WHERE id = $1 AND user_id = $2`
	err := r.db.QueryRow(query, clientID, userID).
		Scan(&client.ID, &client.UserID, &client.Name, &client.Phone, &client.Notes, &client.CreatedAt, &client.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return client, nil
}

// UpdateClient updates a client's editable fields
func (r *Repository) UpdateClient(client *models.Client) error {
	query := `
		UPDATE reto.clients
		SET name = $3, phone = $4, notes = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2`
	res, err := r.db.Exec(query, client.ID, client.UserID, client.Name, client.Phone, client.Notes)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClient removes a client and its purchases
func (r *Repository) DeleteClient(userID, clientID int64) error {
	res, err := r.db.Exec(`DELETE FROM reto.clients WHERE id = $1 AND user_id = $2`, clientID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreatePurchase records a sale
func (r *Repository) CreatePurchase(p *models.Purchase) error {
	query := `
		INSERT INTO reto.purchases
			(user_id, client_id, product_id, amount, cost_price, category,
			 purchase_date, is_credit, credit_paid, credit_due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		p.UserID, p.ClientID, p.ProductID, p.Amount, p.CostPrice, p.Category,
		p.PurchaseDate, p.IsCredit, p.CreditPaid, p.CreditDueDate).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}
	return nil
}

// ListPurchases retrieves all purchases of a user, newest first
func (r *Repository) ListPurchases(userID int64) ([]models.Purchase, error) {
	query := `
		SELECT id, user_id, client_id, product_id, amount, cost_price, category,
		       purchase_date, is_credit, credit_paid, credit_due_date, created_at, updated_at
		FROM reto.purchases
		WHERE user_id = $1
		ORDER BY purchase_date DESC`
	return r.queryPurchases(query, userID)
}

// ListPurchasesByClient retrieves one client's purchases, newest first
func (r *Repository) ListPurchasesByClient(userID, clientID int64) ([]models.Purchase, error) {
	query := `
		SELECT id, user_id, client_id, product_id, amount, cost_price, category,
		       purchase_date, is_credit, credit_paid, credit_due_date, created_at, updated_at
		FROM reto.purchases
		WHERE user_id = $1 AND client_id = $2
		ORDER BY purchase_date DESC`
	return r.queryPurchases(query, userID, clientID)
}

func (r *Repository) queryPurchases(query string, args ...interface{}) ([]models.Purchase, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	purchases := []models.Purchase{}
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.ClientID, &p.ProductID, &p.Amount, &p.CostPrice,
			&p.Category, &p.PurchaseDate, &p.IsCredit, &p.CreditPaid, &p.CreditDueDate,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// FindPurchaseByID retrieves one purchase, scoped to the owning user
func (r *Repository) FindPurchaseByID(userID, purchaseID int64) (*models.Purchase, error) {
	p := &models.Purchase{}
	query := `
		SELECT id, user_id, client_id, product_id, amount, cost_price, category,
		       purchase_date, is_credit, credit_paid, credit_due_date, created_at, updated_at
		FROM reto.purchases
		WHERE id = $1 AND user_id = $2`
	err := r.db.QueryRow(query, purchaseID, userID).
		Scan(&p.ID, &p.UserID, &p.ClientID, &p.ProductID, &p.Amount, &p.CostPrice,
			&p.Category, &p.PurchaseDate, &p.IsCredit, &p.CreditPaid, &p.CreditDueDate,
			&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find purchase: %w", err)
	}
	return p, nil
}

// ListPurchaseDates retrieves one client's purchase dates sorted ascending
func (r *Repository) ListPurchaseDates(userID, clientID int64) ([]time.Time, error) {
	query := `
		SELECT purchase_date
		FROM reto.purchases
		WHERE user_id = $1 AND client_id = $2
		ORDER BY purchase_date ASC`
	rows, err := r.db.Query(query, userID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase dates: %w", err)
	}
	defer rows.Close()

	dates := []time.Time{}
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan purchase date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// ListOutstandingCredits retrieves a user's unpaid credit purchases with the
// client name, oldest due date first
func (r *Repository) ListOutstandingCredits(userID int64) ([]models.CobranzaEntry, error) {
	query := `
		SELECT p.id, p.user_id, p.client_id, p.product_id, p.amount, p.cost_price, p.category,
		       p.purchase_date, p.is_credit, p.credit_paid, p.credit_due_date,
		       p.created_at, p.updated_at, c.name,
		       COALESCE((SELECT SUM(cp.amount) FROM reto.credit_payments cp WHERE cp.purchase_id = p.id), 0)
		FROM reto.purchases p
		JOIN reto.clients c ON c.id = p.client_id
		WHERE p.user_id = $1 AND p.is_credit = TRUE AND p.credit_paid = FALSE
		ORDER BY p.credit_due_date ASC NULLS LAST`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding credits: %w", err)
	}
	defer rows.Close()

	entries := []models.CobranzaEntry{}
	for rows.Next() {
		var e models.CobranzaEntry
		p := &e.Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.ClientID, &p.ProductID, &p.Amount, &p.CostPrice,
			&p.Category, &p.PurchaseDate, &p.IsCredit, &p.CreditPaid, &p.CreditDueDate,
			&p.CreatedAt, &p.UpdatedAt, &e.ClientName, &e.PaidAmount); err != nil {
			return nil, fmt.Errorf("failed to scan outstanding credit: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateCreditPayment records an abono against a credit purchase
func (r *Repository) CreateCreditPayment(payment *models.CreditPayment) error {
	query := `
		INSERT INTO reto.credit_payments (purchase_id, amount, paid_at, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, payment.PurchaseID, payment.Amount, payment.PaidAt).
		Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create credit payment: %w", err)
	}
	return nil
}

// SumCreditPayments returns the total paid against a credit purchase
func (r *Repository) SumCreditPayments(purchaseID int64) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM reto.credit_payments WHERE purchase_id = $1`
	if err := r.db.QueryRow(query, purchaseID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum credit payments: %w", err)
	}
	return total, nil
}

// MarkCreditPaid flags a credit purchase as fully collected
func (r *Repository) MarkCreditPaid(userID, purchaseID int64) error {
	query := `
		UPDATE reto.purchases
		SET credit_paid = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2`
	res, err := r.db.Exec(query, purchaseID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark credit paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertGoal creates or replaces a user's goal, last writer wins
func (r *Repository) UpsertGoal(goal *models.Goal) error {
	query := `
		INSERT INTO reto.goals (user_id, target_amount, deadline, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET target_amount = EXCLUDED.target_amount,
		    deadline = EXCLUDED.deadline,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, goal.UserID, goal.TargetAmount, goal.Deadline).
		Scan(&goal.ID, &goal.CreatedAt, &goal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert goal: %w", err)
	}
	return nil
}

// FindGoalByUser retrieves the user's active goal
func (r *Repository) FindGoalByUser(userID int64) (*models.Goal, error) {
	goal := &models.Goal{}
	query := `
		SELECT id, user_id, target_amount, deadline, created_at, updated_at
		FROM reto.goals
		WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).
		Scan(&goal.ID, &goal.UserID, &goal.TargetAmount, &goal.Deadline, &goal.CreatedAt, &goal.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find goal: %w", err)
	}
	return goal, nil
}

// CreateProduct adds an inventory item
func (r *Repository) CreateProduct(product *models.Product) error {
	query := `
		INSERT INTO reto.products (user_id, name, category, base_price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, product.UserID, product.Name, product.Category, product.BasePrice, product.Stock).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// ListProducts retrieves a user's inventory
func (r *Repository) ListProducts(userID int64) ([]models.Product, error) {
	query := `
		SELECT id, user_id, name, category, base_price, stock, created_at, updated_at
		FROM reto.products
		WHERE user_id = $1
		ORDER BY name`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Category, &p.BasePrice, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct updates an inventory item
func (r *Repository) UpdateProduct(product *models.Product) error {
	query := `
		UPDATE reto.products
		SET name = $3, category = $4, base_price = $5, stock = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2`
	res, err := r.db.Exec(query, product.ID, product.UserID, product.Name, product.Category, product.BasePrice, product.Stock)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct removes an inventory item
func (r *Repository) DeleteProduct(userID, productID int64) error {
	res, err := r.db.Exec(`DELETE FROM reto.products WHERE id = $1 AND user_id = $2`, productID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock reduces a product's stock by one, never below zero
func (r *Repository) DecrementStock(userID, productID int64) error {
	query := `
		UPDATE reto.products
		SET stock = stock - 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2 AND stock > 0`
	res, err := r.db.Exec(query, productID, userID)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertProductByName creates or refreshes a catalog product, keyed by
// (user, name), last writer wins
func (r *Repository) UpsertProductByName(product *models.Product) error {
	query := `
		INSERT INTO reto.products (user_id, name, category, base_price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, name) DO UPDATE
		SET category = EXCLUDED.category,
		    base_price = EXCLUDED.base_price,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, product.UserID, product.Name, product.Category, product.BasePrice, product.Stock).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

// UpsertSnapshot creates or replaces a weekly snapshot, keyed by
// (user, week_start), last writer wins
func (r *Repository) UpsertSnapshot(s *models.WeeklySnapshot) error {
	query := `
		INSERT INTO reto.weekly_snapshots (user_id, week_start, sales_total, profit_total, savings_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, week_start) DO UPDATE
		SET sales_total = EXCLUDED.sales_total,
		    profit_total = EXCLUDED.profit_total,
		    savings_total = EXCLUDED.savings_total,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, s.UserID, s.WeekStart, s.SalesTotal, s.ProfitTotal, s.SavingsTotal).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

// ListSnapshots retrieves a user's weekly snapshots, newest week first
func (r *Repository) ListSnapshots(userID int64) ([]models.WeeklySnapshot, error) {
	query := `
		SELECT id, user_id, week_start, sales_total, profit_total, savings_total, created_at, updated_at
		FROM reto.weekly_snapshots
		WHERE user_id = $1
		ORDER BY week_start DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []models.WeeklySnapshot{}
	for rows.Next() {
		var s models.WeeklySnapshot
		if err := rows.Scan(&s.ID, &s.UserID, &s.WeekStart, &s.SalesTotal, &s.ProfitTotal, &s.SavingsTotal, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// LastPurchaseDate returns the date of the user's most recent sale
func (r *Repository) LastPurchaseDate(userID int64) (*time.Time, error) {
	var d *time.Time
	query := `SELECT MAX(purchase_date) FROM reto.purchases WHERE user_id = $1`
	if err := r.db.QueryRow(query, userID).Scan(&d); err != nil {
		return nil, fmt.Errorf("failed to get last purchase date: %w", err)
	}
	return d, nil
}

// ListUsersWithDueCredits retrieves, for every user, the credit purchases due
// within the given number of days or already overdue. Used by the reminder job.
func (r *Repository) ListUsersWithDueCredits(windowDays int) (map[int64][]models.CobranzaEntry, error) {
	query := `
		SELECT p.user_id, p.id, p.client_id, p.amount, p.purchase_date, p.credit_due_date, c.name,
		       COALESCE((SELECT SUM(cp.amount) FROM reto.credit_payments cp WHERE cp.purchase_id = p.id), 0)
		FROM reto.purchases p
		JOIN reto.clients c ON c.id = p.client_id
		WHERE p.is_credit = TRUE AND p.credit_paid = FALSE
		  AND p.credit_due_date IS NOT NULL
		  AND p.credit_due_date <= CURRENT_DATE + $1 * INTERVAL '1 day'
		ORDER BY p.user_id, p.credit_due_date`
	rows, err := r.db.Query(query, windowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to list due credits: %w", err)
	}
	defer rows.Close()

	byUser := map[int64][]models.CobranzaEntry{}
	for rows.Next() {
		var e models.CobranzaEntry
		p := &e.Purchase
		if err := rows.Scan(&p.UserID, &p.ID, &p.ClientID, &p.Amount, &p.PurchaseDate,
			&p.CreditDueDate, &e.ClientName, &e.PaidAmount); err != nil {
			return nil, fmt.Errorf("failed to scan due credit: %w", err)
		}
		p.IsCredit = true
		e.Balance = p.Amount - e.PaidAmount
		byUser[p.UserID] = append(byUser[p.UserID], e)
	}
	return byUser, rows.Err()
}
