package models

// User represents a registered customer or admin account.
//
// The password is stored bcrypt-hashed; the security question/answer pair
// drives the forgot-password flow, so the answer is returned to the client
// by the recovery endpoint.
type User struct {
	BaseModel
	Username     string `gorm:"uniqueIndex" json:"username"`
	PasswordHash string `json:"-"`
	FullName     string `json:"fullname"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
}

// RoleUser is assigned to every account created through registration.
const RoleUser = "user"
