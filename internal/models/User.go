package models

// Role is one of the four account kinds known to the roster.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleCompany   Role = "company"
	RoleCollector Role = "collector"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleAdmin, RoleUser, RoleCompany, RoleCollector}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleCompany, RoleCollector:
		return true
	default:
		return false
	}
}

// User is a roster entry. The JSON shape is the persisted one, so Password
// is included; HTTP responses go through a separate view.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IDType    string `json:"idType"`
	IDNumber  string `json:"idNumber"`
	Address   string `json:"address"`
	PhoneCode string `json:"phoneCode"`
	Phone     string `json:"phone"`
	Points    int    `json:"points"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      Role   `json:"role"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Profile is what a caller supplies at registration. Role and Points are
// accepted so they can be bound from a request body, but registration
// always overrides them.
type Profile struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	IDType    string `json:"idType"`
	IDNumber  string `json:"idNumber"`
	Address   string `json:"address"`
	PhoneCode string `json:"phoneCode"`
	Phone     string `json:"phone"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,max=72"`
	Role      Role   `json:"role"`
	Points    int    `json:"points"`
}
