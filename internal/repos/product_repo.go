package repos

import (
	"noithat/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  p.id, p.category_id, c.name AS category, p.name, COALESCE(p.description,'') AS description,
  p.price, COALESCE(p.image,'') AS image, p.available,
  COALESCE(p.color,'') AS color, COALESCE(p.size,'') AS size, COALESCE(p.variant_id,0) AS variant_id,
  COALESCE(p.weight,0) AS weight, COALESCE(p.length,0) AS length,
  COALESCE(p.width,0) AS width, COALESCE(p.height,0) AS height,
  p.created_at, COALESCE(p.updated_at,'') AS updated_at`

func (r *ProductRepo) ListLatest(limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 8
	}
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products p JOIN categories c ON c.id = p.category_id
	  WHERE p.available = 1
	  ORDER BY p.created_at DESC
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *ProductRepo) ListByCategory(catID int64, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products p JOIN categories c ON c.id = p.category_id
	  WHERE p.category_id = ? AND p.available = 1
	  ORDER BY p.created_at DESC
	  LIMIT ? OFFSET ?
	`, catID, limit, offset)
	return out, err
}

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT `+productCols+`
	  FROM products p JOIN categories c ON c.id = p.category_id
	  WHERE p.id = ?
	`, id)
	return p, err
}

func (r *ProductRepo) Search(q string, catID int64, minPrice, maxPrice int64, limit, offset int) ([]domain.Product, error) {
	where := `p.available = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if catID > 0 {
		where += ` AND p.category_id = ?`
		args = append(args, catID)
	}
	if minPrice > 0 {
		where += ` AND p.price >= ?`
		args = append(args, minPrice)
	}
	if maxPrice > 0 {
		where += ` AND p.price <= ?`
		args = append(args, maxPrice)
	}

	query := `
	  SELECT ` + productCols + `
	  FROM products p JOIN categories c ON c.id = p.category_id
	  WHERE ` + where + `
	  ORDER BY p.created_at DESC
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, query, args...)
	return out, err
}

// ---------- Admin CRUD ----------

func (r *ProductRepo) ListAll(limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products p JOIN categories c ON c.id = p.category_id
	  ORDER BY p.created_at DESC
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) (int64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO products(category_id,name,description,price,image,available,color,size,variant_id,weight,length,width,height,created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, p.CategoryID, p.Name, p.Description, p.Price, p.Image, p.Available,
		p.Color, p.Size, p.VariantID, p.Weight, p.Length, p.Width, p.Height)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET category_id=?, name=?, description=?, price=?, image=?, available=?,
	      color=?, size=?, variant_id=?, weight=?, length=?, width=?, height=?,
	      updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, p.CategoryID, p.Name, p.Description, p.Price, p.Image, p.Available,
		p.Color, p.Size, p.VariantID, p.Weight, p.Length, p.Width, p.Height, p.ID)
	return err
}

func (r *ProductRepo) SetAvailability(id int64, available bool) error {
	_, err := r.db.Exec(`UPDATE products SET available=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, available, id)
	return err
}

func (r *ProductRepo) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	return err
}
