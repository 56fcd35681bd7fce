package services

import (
	"testing"

	"gst-billing-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func cleanupCompany(t *testing.T, db *gorm.DB, companyID string) {
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE company_id = ?", companyID)
		db.Exec("DELETE FROM companies WHERE id = ?", companyID)
	})
}

func TestProvisionCompanyAndAuthenticate(t *testing.T) {
	db := openTestDB(t)
	suffix := uuid.NewString()[:8]
	in := &CompanyInput{
		CompanyName:      "  Sharma Hardware " + suffix + " ",
		SubscriptionType: "Invoice",
		Mobile:           "98765 43210",
		GSTNumber:        "27aapfu0939f1zv",
		BillingDetails:   models.BillingDetails{BankName: "SBI", IFSC: "SBIN0000001"},
		Owner: OwnerInput{
			FirstName: "Ravi",
			Email:     "Owner-" + suffix + "@Example.com",
			Password:  " secret-pass ",
		},
	}

	company, owner, err := ProvisionCompany(db, in, "IN")
	require.NoError(t, err)
	cleanupCompany(t, db, company.Id)

	assert.Equal(t, "Sharma Hardware "+suffix, company.CompanyName)
	assert.Equal(t, models.SubscriptionType("invoice"), company.SubscriptionType)
	assert.Equal(t, "+919876543210", company.Mobile)
	assert.Equal(t, "27AAPFU0939F1ZV", company.GSTNumber)
	assert.Equal(t, "SBI", company.BillingDetails.Data().BankName)
	require.NotNil(t, owner.CompanyID)
	assert.Equal(t, company.Id, *owner.CompanyID)
	assert.Equal(t, models.RoleOwner, owner.Role)

	// The password is used exactly as submitted, surrounding spaces included.
	user, err := Authenticate(db, "  owner-"+suffix+"@example.com", " secret-pass ")
	require.NoError(t, err)
	assert.Equal(t, owner.Id, user.Id)

	_, err = Authenticate(db, "owner-"+suffix+"@example.com", "secret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = Authenticate(db, "nobody-"+suffix+"@example.com", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = ProvisionCompany(db, &CompanyInput{
		CompanyName:      "Sharma Hardware " + suffix,
		SubscriptionType: "bill",
		Owner:            OwnerInput{FirstName: "X", Email: "other-" + suffix + "@example.com", Password: "password1"},
	}, "IN")
	assert.ErrorIs(t, err, ErrBusinessRule)

	_, _, err = ProvisionCompany(db, &CompanyInput{
		CompanyName:      "Other " + suffix,
		SubscriptionType: "bill",
		Owner:            OwnerInput{FirstName: "X", Email: "owner-" + suffix + "@example.com", Password: "password1"},
	}, "IN")
	assert.ErrorIs(t, err, ErrBusinessRule)
}

func TestProvisionCompanyRejectsInvalidInput(t *testing.T) {
	db := openTestDB(t)
	_, _, err := ProvisionCompany(db, &CompanyInput{
		CompanyName:      "Bad " + uuid.NewString()[:8],
		SubscriptionType: "quotes",
		Owner:            OwnerInput{FirstName: "X", Email: "x@example.com", Password: "password1"},
	}, "IN")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEnsureAdmin(t *testing.T) {
	db := openTestDB(t)
	email := "admin-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = ?", email) })

	_, err := EnsureAdmin(db, email, "short", "Admin")
	assert.ErrorIs(t, err, ErrValidation)

	admin, err := EnsureAdmin(db, email, "first-password", "Admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Nil(t, admin.CompanyID)

	again, err := EnsureAdmin(db, email, "second-password", "Admin")
	require.NoError(t, err)
	assert.Equal(t, admin.Id, again.Id)

	_, err = Authenticate(db, email, "second-password")
	require.NoError(t, err)
	_, err = Authenticate(db, email, "first-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
