package model

import "time"

// CafeFields is the mutable part of a cafe entry. The same tags drive form
// binding in the handlers and validation in the repository.
type CafeFields struct {
	Name             string  `json:"name" form:"name" gorm:"not null;uniqueIndex" binding:"required,max=250"`
	ShortDescription string  `json:"short_description" form:"short_description"`
	MapURL           string  `json:"map_url" form:"map_url" gorm:"not null" binding:"required,http_url"`
	ImgURL           string  `json:"img_url" form:"img_url" gorm:"not null" binding:"required,http_url"`
	Location         string  `json:"location" form:"location" gorm:"size:100;not null" binding:"required,max=100"`
	HasSockets       bool    `json:"has_sockets" form:"-" gorm:"not null"`
	HasToilet        bool    `json:"has_toilet" form:"-" gorm:"not null"`
	HasWifi          bool    `json:"has_wifi" form:"-" gorm:"not null"`
	CanTakeCalls     bool    `json:"can_take_calls" form:"-" gorm:"not null"`
	Seats            int     `json:"seats" form:"seats" gorm:"not null" binding:"required"`
	CoffeePrice      float64 `json:"coffee_price" form:"coffee_price" gorm:"not null" binding:"required,finite"`
}

type Cafe struct {
	ID uint `json:"id" gorm:"primaryKey;autoIncrement"`
	CafeFields
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Cafe) TableName() string { return "cafe" }

// CafeRequest is a visitor's proposal for a new or changed entry. It is
// mailed to the administrator and never stored.
type CafeRequest struct {
	CafeFields
	ContactEmail string `json:"contact_email" form:"contact_email" binding:"omitempty,email"`
	ExtraInfo    string `json:"extra_info" form:"extra_info" binding:"max=2000"`
}
