package services

import (
	"testing"
	"time"

	"gst-billing-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func pendingAdvance(id uint, due string) models.Document {
	d := day(due)
	return models.Document{
		ID:                      id,
		CompanyID:               "c1",
		Kind:                    models.KindInvoice,
		DocumentNumber:          "INV-" + due,
		PaymentStatus:           models.PaymentAdvance,
		PaymentCompletionStatus: models.CompletionPending,
		DueDate:                 &d,
		TotalAmount:             decimal.RequireFromString("1180"),
		AdvanceAmount:           decimal.RequireFromString("500"),
		Customer:                models.Customer{Name: "Asha Traders", Mobile: "+919876543210"},
	}
}

func TestClassify(t *testing.T) {
	today := time.Date(2026, 3, 10, 17, 45, 0, 0, time.UTC)

	completed := pendingAdvance(5, "2026-03-09")
	completed.PaymentCompletionStatus = models.CompletionCompleted
	full := pendingAdvance(6, "2026-03-09")
	full.PaymentStatus = models.PaymentFull
	noDue := pendingAdvance(7, "2026-03-09")
	noDue.DueDate = nil

	docs := []models.Document{
		pendingAdvance(1, "2026-03-09"), // overdue by one day
		pendingAdvance(2, "2026-03-10"), // due today
		pendingAdvance(3, "2026-03-12"), // edge of the window
		pendingAdvance(4, "2026-03-13"), // outside the window
		completed,
		full,
		noDue,
	}

	b := Classify(docs, today, DefaultReminderWindowDays)

	require.Len(t, b.Overdue, 1)
	assert.Equal(t, uint(1), b.Overdue[0].DocumentID)
	assert.Equal(t, -1, b.Overdue[0].DaysUntilDue)
	assert.True(t, b.Overdue[0].BalanceDue.Equal(decimal.RequireFromString("680")))
	assert.Equal(t, "Asha Traders", b.Overdue[0].CustomerName)

	require.Len(t, b.Reminders, 2)
	assert.Equal(t, uint(2), b.Reminders[0].DocumentID)
	assert.Equal(t, 0, b.Reminders[0].DaysUntilDue)
	assert.Equal(t, uint(3), b.Reminders[1].DocumentID)
	assert.Equal(t, 2, b.Reminders[1].DaysUntilDue)
}

func TestClassifyWindow(t *testing.T) {
	today := day("2026-03-10")
	docs := []models.Document{pendingAdvance(1, "2026-03-15")}

	assert.Empty(t, Classify(docs, today, 2).Reminders)
	assert.Len(t, Classify(docs, today, 5).Reminders, 1)
	assert.Empty(t, Classify(docs, today, 0).Reminders)
}

func TestClassifyEmpty(t *testing.T) {
	b := Classify(nil, time.Now(), 2)
	assert.NotNil(t, b.Reminders)
	assert.NotNil(t, b.Overdue)
	assert.Empty(t, b.Reminders)
	assert.Empty(t, b.Overdue)
}
