package domain

import (
	"database/sql/driver"
	"fmt"
)

// Role tags what a user may do. Stored as "buyer" / "seller".
type Role uint8

const (
	RoleBuyer Role = iota + 1
	RoleSeller
)

func (r Role) String() string {
	switch r {
	case RoleBuyer:
		return "buyer"
	case RoleSeller:
		return "seller"
	}
	return "unknown"
}

// ParseRole maps a form/database value to a Role. Anything unrecognised is
// reported as not ok.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "buyer":
		return RoleBuyer, true
	case "seller":
		return RoleSeller, true
	}
	return 0, false
}

func (r Role) Value() (driver.Value, error) {
	if r != RoleBuyer && r != RoleSeller {
		return nil, fmt.Errorf("invalid role %d", r)
	}
	return r.String(), nil
}

func (r *Role) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
	role, ok := ParseRole(s)
	if !ok {
		return fmt.Errorf("unknown role %q", s)
	}
	*r = role
	return nil
}

type User struct {
	ID        int64  `db:"id"`
	Username  string `db:"username"`
	Email     string `db:"email"`
	Hash      string `db:"password_hash"`
	Role      Role   `db:"role"`
	Phone     string `db:"phone"`
	Address   string `db:"address"`
	CreatedAt string `db:"created_at"`
}

func (u *User) IsSeller() bool { return u != nil && u.Role == RoleSeller }

type SellerProfile struct {
	ID        int64  `db:"id"`
	UserID    int64  `db:"user_id"`
	StoreName string `db:"store_name"`
	Bio       string `db:"bio"`
	Approved  bool   `db:"approved"`
}
