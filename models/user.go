package models

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User belongs to one company, except platform admins whose CompanyID is nil.
type User struct {
	Id        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CompanyID *string `json:"company_id" gorm:"type:varchar(36);index"`
	FirstName string  `json:"first_name" gorm:"not null"`
	LastName  string  `json:"last_name"`
	Password  []byte  `json:"-" gorm:"not null"`
	Email     string  `json:"email" gorm:"unique;not null"`
	Role      Role    `json:"role" gorm:"type:varchar(16);not null"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.Id == "" {
		user.Id = uuid.NewString()
	}
	return
}

func (user *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	user.Password = hashedPassword
	return nil
}

func (user *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(user.Password, []byte(password))
}

// TenantID returns the user's company id, or "" for platform admins.
func (user *User) TenantID() string {
	if user.CompanyID == nil {
		return ""
	}
	return *user.CompanyID
}
