package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog if the DB is empty, then make sure the demo
	// accounts exist (both idempotent; safe to run every start).
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  description TEXT,
  price INTEGER NOT NULL CHECK (price >= 0),
  image TEXT,
  available INTEGER NOT NULL DEFAULT 1,
  color TEXT,
  size TEXT,
  variant_id INTEGER,
  weight INTEGER,     -- grams per unit
  length INTEGER,     -- cm per unit
  width INTEGER,
  height INTEGER,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name       ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Variant attribute lookups
CREATE TABLE IF NOT EXISTS colors(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  code TEXT
);
CREATE TABLE IF NOT EXISTS sizes(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  label TEXT NOT NULL UNIQUE
);

-- Promotions
CREATE TABLE IF NOT EXISTS promotions(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  code TEXT NOT NULL UNIQUE,
  percent INTEGER NOT NULL DEFAULT 0 CHECK (percent BETWEEN 0 AND 100),
  amount INTEGER NOT NULL DEFAULT 0 CHECK (amount >= 0),
  starts_at TEXT,
  ends_at TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Cart snapshots: one durable slot per session
CREATE TABLE IF NOT EXISTS cart_slots(
  session_id TEXT PRIMARY KEY,
  snapshot TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  session_id TEXT,
  customer_name TEXT,
  customer_email TEXT,
  customer_phone TEXT,
  address TEXT,
  payment_method TEXT NOT NULL DEFAULT 'cod',
  promo_code TEXT,
  subtotal INTEGER NOT NULL,
  discount INTEGER NOT NULL DEFAULT 0,
  shipping_fee INTEGER NOT NULL DEFAULT 0,
  total INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'PLACED',
  shipping_code TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
CREATE INDEX IF NOT EXISTS idx_orders_session    ON orders(session_id);

CREATE TABLE IF NOT EXISTS order_items(
  order_id  TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price INTEGER NOT NULL,
  color TEXT,
  size TEXT,
  PRIMARY KEY (order_id, product_id)
);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone TEXT DEFAULT '',
  address TEXT DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/products/attributes/promotions")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name) VALUES
	  (1,'Bàn'),
	  (2,'Ghế'),
	  (3,'Tủ'),
	  (4,'Sofa')`)

	tx.MustExec(`INSERT INTO products(id,category_id,name,description,price,image,available,color,size,weight,length,width,height) VALUES
	  (1,1,'Bàn trà gỗ sồi','Bàn trà phòng khách, gỗ sồi tự nhiên',1590000,'products/1/main.jpg',1,'Nâu','100x50',8000,100,50,45),
	  (2,2,'Ghế ăn Eames','Ghế ăn chân gỗ, lưng nhựa đúc',450000,'products/2/main.jpg',1,'Trắng',NULL,3500,46,42,82),
	  (3,3,'Tủ quần áo 3 cánh','Tủ gỗ MDF phủ melamine',4290000,'products/3/main.jpg',1,'Vân gỗ','120x200',0,120,55,150),
	  (4,4,'Sofa băng 2m','Sofa nỉ khung gỗ dầu',6990000,'products/4/main.jpg',1,'Xám','200x85',0,150,85,75),
	  (5,2,'Ghế làm việc lưới','Ghế xoay văn phòng có tựa đầu',1190000,'products/5/main.jpg',0,'Đen',NULL,9000,60,60,110)`)

	tx.MustExec(`INSERT INTO colors(name,code) VALUES
	  ('Nâu','#8B5A2B'),
	  ('Trắng','#FFFFFF'),
	  ('Xám','#808080'),
	  ('Đen','#000000'),
	  ('Vân gỗ','#C19A6B')`)

	tx.MustExec(`INSERT INTO sizes(label) VALUES
	  ('100x50'),('120x200'),('200x85'),('46x42')`)

	tx.MustExec(`INSERT INTO promotions(code,percent,amount,starts_at,ends_at,active) VALUES
	  ('TET2026',10,0,'2026-01-01T00:00:00Z','2026-03-01T00:00:00Z',1),
	  ('FREESHIP',0,30000,NULL,NULL,1),
	  ('EXPIRED5',5,0,'2025-01-01T00:00:00Z','2025-02-01T00:00:00Z',1)`)

	return tx.Commit()
}

// seedUsers ensures demo USERs and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-lan", "lan@noithat.test", "Lan", "USER", "Passw0rd!"),
		mk("u-minh", "minh@noithat.test", "Minh", "USER", "Passw0rd!"),
		mk("u-admin", "admin@noithat.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
