package model

import "time"

type UserRole string

const (
	Admin  UserRole = "admin"
	Member UserRole = "user"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"not null"`
	Role      UserRole  `json:"role" gorm:"size:16;not null;default:user"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "user" }

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == Admin
}

type RegisterForm struct {
	Username       string `json:"username" form:"username" binding:"required,max=100"`
	Email          string `json:"email" form:"email" binding:"required,email"`
	Password       string `json:"password" form:"password" binding:"required"`
	PasswordRepeat string `json:"password_repeat" form:"password_repeat" binding:"required"`
}

type LoginForm struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}
