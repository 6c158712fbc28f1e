package domain

type User struct {
	ID      string `db:"id"`
	Email   string `db:"email"`
	Name    string `db:"name"`
	Phone   string `db:"phone"`
	Address string `db:"address"`
	Hash    string `db:"password_hash"`
	Role    string `db:"role"`
}
