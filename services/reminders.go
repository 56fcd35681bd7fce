package services

import (
	"context"
	"time"

	"gst-billing-backend/database"
	"gst-billing-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultReminderWindowDays is how many days ahead of the due date a reminder is raised.
const DefaultReminderWindowDays = 2

// ReminderEntry is one document in a reminder or overdue bucket.
type ReminderEntry struct {
	DocumentID     uint                `json:"document_id"`
	CompanyID      string              `json:"company_id"`
	Kind           models.DocumentKind `json:"kind"`
	DocumentNumber string              `json:"document_number"`
	CustomerName   string              `json:"customer_name"`
	CustomerMobile string              `json:"customer_mobile"`
	CustomerEmail  string              `json:"customer_email"`
	DueDate        Date                `json:"due_date"`
	DaysUntilDue   int                 `json:"days_until_due"` // negative when overdue
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	AdvanceAmount  decimal.Decimal     `json:"advance_amount"`
	BalanceDue     decimal.Decimal     `json:"balance_due"`
}

type Buckets struct {
	Reminders []ReminderEntry `json:"reminders"`
	Overdue   []ReminderEntry `json:"overdue"`
}

// Classify sorts pending Advance documents into reminders (due within windowDays, today
// included) and overdue (due date already passed). Everything else is ignored. It does not
// touch the database.
func Classify(docs []models.Document, today time.Time, windowDays int) Buckets {
	today = dateOnly(today)
	b := Buckets{Reminders: []ReminderEntry{}, Overdue: []ReminderEntry{}}
	for _, d := range docs {
		if d.PaymentStatus != models.PaymentAdvance ||
			d.PaymentCompletionStatus != models.CompletionPending ||
			d.DueDate == nil {
			continue
		}
		due := dateOnly(*d.DueDate)
		days := int(due.Sub(today).Hours() / 24)

		entry := ReminderEntry{
			DocumentID:     d.ID,
			CompanyID:      d.CompanyID,
			Kind:           d.Kind,
			DocumentNumber: d.DocumentNumber,
			CustomerName:   d.Customer.Name,
			CustomerMobile: d.Customer.Mobile,
			CustomerEmail:  d.Customer.Email,
			DueDate:        Date{Time: due},
			DaysUntilDue:   days,
			TotalAmount:    d.TotalAmount,
			AdvanceAmount:  d.AdvanceAmount,
			BalanceDue:     d.TotalAmount.Sub(d.AdvanceAmount),
		}
		switch {
		case days < 0:
			b.Overdue = append(b.Overdue, entry)
		case days <= windowDays:
			b.Reminders = append(b.Reminders, entry)
		}
	}
	return b
}

// ReminderService loads reminder candidates. It only reads.
type ReminderService struct {
	db         *gorm.DB
	windowDays int
}

func NewReminderService(db *gorm.DB, windowDays int) *ReminderService {
	if windowDays < 0 {
		windowDays = DefaultReminderWindowDays
	}
	return &ReminderService{db: db, windowDays: windowDays}
}

func (s *ReminderService) candidates(db *gorm.DB, now time.Time) *gorm.DB {
	horizon := NewDate(now.AddDate(0, 0, s.windowDays))
	return db.Model(&models.Document{}).
		Preload("Customer").
		Where("payment_status = ? AND payment_completion_status = ?", models.PaymentAdvance, models.CompletionPending).
		Where("due_date IS NOT NULL AND due_date <= ?", horizon).
		Order("due_date, id")
}

// Scan classifies one company's pending documents as of now.
func (s *ReminderService) Scan(ctx context.Context, companyID string, now time.Time) (Buckets, error) {
	if companyID == "" {
		return Buckets{}, permissionError("ScanReminders", "Tenant context missing")
	}
	var docs []models.Document
	q := s.candidates(s.db.WithContext(ctx).Scopes(database.ForTenant(companyID)), now)
	if err := q.Find(&docs).Error; err != nil {
		return Buckets{}, err
	}
	return Classify(docs, now, s.windowDays), nil
}

// ScanAll classifies the pending documents of every company, keyed by company id. Companies
// with nothing to report are left out.
func (s *ReminderService) ScanAll(ctx context.Context, now time.Time) (map[string]Buckets, error) {
	var docs []models.Document
	if err := s.candidates(s.db.WithContext(ctx), now).Find(&docs).Error; err != nil {
		return nil, err
	}
	byCompany := make(map[string][]models.Document)
	for _, d := range docs {
		byCompany[d.CompanyID] = append(byCompany[d.CompanyID], d)
	}
	out := make(map[string]Buckets, len(byCompany))
	for companyID, list := range byCompany {
		b := Classify(list, now, s.windowDays)
		if len(b.Reminders) > 0 || len(b.Overdue) > 0 {
			out[companyID] = b
		}
	}
	return out, nil
}
