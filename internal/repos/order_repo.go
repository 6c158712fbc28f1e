package repos

import "github.com/jmoiron/sqlx"

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// ---------- Admin list summary ----------
type OrderSummary struct {
	ID            string `db:"id"`
	SessionID     string `db:"session_id"`
	CustomerName  string `db:"customer_name"`
	CustomerEmail string `db:"customer_email"`
	PaymentMethod string `db:"payment_method"`
	Total         int64  `db:"total"`
	Status        string `db:"status"`
	CreatedAt     string `db:"created_at"`
}

// ---------- Order detail (used by /order/:id) ----------
type OrderRow struct {
	ID            string `db:"id"`
	SessionID     string `db:"session_id"`
	UserID        string `db:"user_id"`
	Customer      string `db:"customer_name"`
	Email         string `db:"customer_email"`
	Phone         string `db:"customer_phone"`
	Address       string `db:"address"`
	PaymentMethod string `db:"payment_method"`
	PromoCode     string `db:"promo_code"`
	Subtotal      int64  `db:"subtotal"`
	Discount      int64  `db:"discount"`
	ShippingFee   int64  `db:"shipping_fee"`
	Total         int64  `db:"total"`
	Status        string `db:"status"`
	ShippingCode  string `db:"shipping_code"`
	CreatedAt     string `db:"created_at"`
}

type OrderItemRow struct {
	ProductID int64  `db:"product_id"`
	Name      string `db:"name"`
	Color     string `db:"color"`
	Size      string `db:"size"`
	Qty       int    `db:"qty"`
	Price     int64  `db:"price"`
	Subtotal  int64  `db:"subtotal"`
}

// NewOrder is the insert payload for one placed order.
type NewOrder struct {
	ID            string
	SessionID     string
	Customer      string
	Email         string
	Phone         string
	Address       string
	PaymentMethod string
	PromoCode     string
	Subtotal      int64
	Discount      int64
	ShippingFee   int64
	Total         int64
	Status        string
}

func (r *OrderRepo) Create(o NewOrder) error {
	_, err := r.db.Exec(`
	  INSERT INTO orders
	    (id, session_id, customer_name, customer_email, customer_phone, address,
	     payment_method, promo_code, subtotal, discount, shipping_fee, total, status, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, o.ID, o.SessionID, o.Customer, o.Email, o.Phone, o.Address,
		o.PaymentMethod, o.PromoCode, o.Subtotal, o.Discount, o.ShippingFee, o.Total, o.Status)
	return err
}

// InsertItem records one line with the price snapshot taken at add-time.
func (r *OrderRepo) InsertItem(orderID string, productID int64, name string, qty int, price int64, color, size string) error {
	_, err := r.db.Exec(`
	  INSERT INTO order_items(order_id, product_id, name, qty, price, color, size)
	  VALUES(?, ?, ?, ?, ?, ?, ?)
	`, orderID, productID, name, qty, price, color, size)
	return err
}

func (r *OrderRepo) Get(orderID string) (OrderRow, []OrderItemRow, error) {
	var o OrderRow
	if err := r.db.Get(&o, `
		SELECT o.id, o.session_id, COALESCE(s.user_id,'') AS user_id,
		       o.customer_name, o.customer_email, o.customer_phone, o.address,
		       o.payment_method, COALESCE(o.promo_code,'') AS promo_code,
		       o.subtotal, o.discount, o.shipping_fee, o.total, o.status,
		       COALESCE(o.shipping_code,'') AS shipping_code, o.created_at
		FROM orders o
		LEFT JOIN sessions s ON s.id = o.session_id
		WHERE o.id = ?
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	var items []OrderItemRow
	if err := r.db.Select(&items, `
		SELECT product_id, name, COALESCE(color,'') AS color, COALESCE(size,'') AS size,
		       qty, price, (qty * price) AS subtotal
		FROM order_items
		WHERE order_id = ?
		ORDER BY name
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	return o, items, nil
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT id, session_id, customer_name, customer_email, payment_method, total, status, created_at
		FROM orders
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

// ListByUser returns orders for a given user via session linkage.
func (r *OrderRepo) ListByUser(userID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT o.id, o.session_id, o.customer_name, o.customer_email, o.payment_method, o.total, o.status, o.created_at
		FROM orders o
		JOIN sessions s ON s.id = o.session_id
		WHERE s.user_id = ?
		ORDER BY datetime(o.created_at) DESC
	`, userID)
	return out, err
}

// ListBySession returns orders tied to one session id (anon or pre-login).
func (r *OrderRepo) ListBySession(sessionID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT id, session_id, customer_name, customer_email, payment_method, total, status, created_at
		FROM orders
		WHERE session_id = ?
		ORDER BY datetime(created_at) DESC
	`, sessionID)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r *OrderRepo) SetShippingCode(id, code string) error {
	_, err := r.db.Exec(`UPDATE orders SET shipping_code = ? WHERE id = ?`, code, id)
	return err
}
