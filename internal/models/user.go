package models

// UserRole is the sole authorization axis.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleTreasurer UserRole = "treasurer"
	RoleViewer    UserRole = "viewer"
)

// User is the profile of an identity managed by the external identity
// provider. ID equals the provider's subject; credentials never live here.
type User struct {
	Base
	Email    string   `gorm:"size:255;uniqueIndex" json:"email"`
	FullName string   `gorm:"size:100;not null" json:"full_name"`
	Role     UserRole `gorm:"size:20;not null;default:viewer" json:"role"`
	Phone    string   `gorm:"size:20" json:"phone"`
	IsActive bool     `gorm:"not null;default:true" json:"is_active"`
}
