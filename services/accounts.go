package services

import (
	"errors"
	"fmt"
	"strings"

	"gst-billing-backend/models"
	"gst-billing-backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

type OwnerInput struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// CompanyInput provisions a tenant together with its first owner account.
type CompanyInput struct {
	CompanyName      string                `json:"company_name" validate:"required,max=200"`
	Address          string                `json:"address" validate:"max=500"`
	City             string                `json:"city" validate:"max=100"`
	State            string                `json:"state" validate:"max=100"`
	Pincode          string                `json:"pincode" validate:"omitempty,numeric,len=6"`
	Email            string                `json:"email" validate:"omitempty,email"`
	Mobile           string                `json:"mobile" validate:"max=20"`
	GSTNumber        string                `json:"gst_number" validate:"omitempty,gstin"`
	SubscriptionType string                `json:"subscription_type" validate:"required,oneof=invoice bill"`
	BillingDetails   models.BillingDetails `json:"billing_details"`
	Owner            OwnerInput            `json:"owner"`
}

// ProvisionCompany creates the company and its owner user in one transaction.
func ProvisionCompany(db *gorm.DB, in *CompanyInput, phoneRegion string) (*models.Company, *models.User, error) {
	const op = "ProvisionCompany"
	password := in.Owner.Password
	utils.NormalizeDTO(in)
	in.Owner.Password = password
	in.GSTNumber = strings.ToUpper(in.GSTNumber)
	in.SubscriptionType = strings.ToLower(in.SubscriptionType)
	in.Owner.Email = strings.ToLower(in.Owner.Email)
	if err := utils.ValidateStruct(in); err != nil {
		return nil, nil, validationError(op, "invalid company payload", err)
	}
	mobile, err := utils.NormalizePhone(in.Mobile, phoneRegion)
	if err != nil {
		return nil, nil, validationError(op, "company mobile is not a valid phone number", err)
	}

	company := models.Company{
		CompanyName:      in.CompanyName,
		Address:          in.Address,
		City:             in.City,
		State:            in.State,
		Pincode:          in.Pincode,
		Email:            in.Email,
		Mobile:           mobile,
		GSTNumber:        in.GSTNumber,
		SubscriptionType: models.SubscriptionType(in.SubscriptionType),
		BillingDetails:   datatypes.NewJSONType(in.BillingDetails),
	}
	var owner models.User

	err = db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Company{}).Where("company_name = ?", company.CompanyName).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &Error{Kind: ErrBusinessRule, Op: op, Message: "company name already exists"}
		}
		if err := tx.Model(&models.User{}).Where("email = ?", in.Owner.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &Error{Kind: ErrBusinessRule, Op: op, Message: "email already exists"}
		}

		if err := tx.Create(&company).Error; err != nil {
			return fmt.Errorf("create company: %w", err)
		}
		owner = models.User{
			CompanyID: &company.Id,
			FirstName: in.Owner.FirstName,
			LastName:  in.Owner.LastName,
			Email:     in.Owner.Email,
			Role:      models.RoleOwner,
		}
		if err := owner.SetPassword(in.Owner.Password); err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if err := tx.Create(&owner).Error; err != nil {
			return fmt.Errorf("create owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &company, &owner, nil
}

// Authenticate returns the user for a matching email and password.
func Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := user.ComparePassword(password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// EnsureAdmin creates a platform admin, or resets the password of an existing one.
func EnsureAdmin(db *gorm.DB, email, password, name string) (*models.User, error) {
	const op = "EnsureAdmin"
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, validationError(op, "admin email and a password of at least 8 characters are required", nil)
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{FirstName: name, Email: email, Role: models.RoleAdmin}
		if err := user.SetPassword(password); err != nil {
			return nil, err
		}
		return &user, db.Create(&user).Error
	case err != nil:
		return nil, err
	}
	if user.Role != models.RoleAdmin {
		return nil, &Error{Kind: ErrBusinessRule, Op: op, Message: "email belongs to a tenant user"}
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return &user, db.Model(&user).Update("password", user.Password).Error
}
