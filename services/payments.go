package services

import (
	"errors"
	"fmt"
	"time"

	"gst-billing-backend/database"
	"gst-billing-backend/models"
	"gst-billing-backend/utils"

	"gorm.io/gorm"
)

// UpdatePayment applies the payment fields present in the payload to one document of the
// given kind. Full Payment forces completion; completion without a settlement date stores
// today's date.
func UpdatePayment(tx *gorm.DB, companyID string, kind models.DocumentKind, id uint, in *PaymentUpdateInput, now time.Time) (*models.Document, error) {
	const op = "UpdatePayment"
	if companyID == "" {
		return nil, permissionError(op, "Tenant context missing")
	}
	utils.NormalizePtrDTO(in)
	if err := utils.ValidateStruct(in); err != nil {
		return nil, validationError(op, "Invalid payment status", err)
	}
	if in.AdvanceAmount != nil && in.AdvanceAmount.IsNegative() {
		return nil, validationError(op, "advance_amount must not be negative", nil)
	}

	var doc models.Document
	err := tx.Scopes(database.ForTenant(companyID)).
		Where("kind = ?", kind).
		First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(op, fmt.Sprintf("%s %d not found", kind.Title(), id))
	}
	if err != nil {
		return nil, err
	}

	updates := utils.UpdatesFromPtrDTO(in)
	if len(updates) == 0 {
		return &doc, nil
	}

	status := doc.PaymentStatus
	if in.PaymentStatus != nil {
		status = models.PaymentStatus(*in.PaymentStatus)
	}
	completion := doc.PaymentCompletionStatus
	if in.PaymentCompletionStatus != nil {
		completion = models.CompletionStatus(*in.PaymentCompletionStatus)
	}
	if in.PaymentStatus != nil && status == models.PaymentFull {
		completion = models.CompletionCompleted
		updates["payment_completion_status"] = completion
	}
	settlementGiven := in.PaymentSettlementDate != nil && !in.PaymentSettlementDate.IsZero()
	alreadySettled := doc.PaymentCompletionStatus == models.CompletionCompleted && doc.PaymentSettlementDate != nil
	if completion == models.CompletionCompleted {
		// A blank date never clears the settlement date of a completed document.
		if !settlementGiven {
			delete(updates, "payment_settlement_date")
		}
		if !settlementGiven && !alreadySettled {
			updates["payment_settlement_date"] = NewDate(now)
		}
	}

	if status == models.PaymentAdvance {
		due := doc.DueDate
		if in.DueDate != nil {
			due = in.DueDate.Ptr()
		}
		if due == nil {
			return nil, validationError(op, "due_date is required for Advance payments", nil)
		}
		advance := doc.AdvanceAmount
		if in.AdvanceAmount != nil {
			advance = *in.AdvanceAmount
		}
		if advance.GreaterThan(doc.TotalAmount) {
			return nil, validationError(op, "advance_amount exceeds total_amount", nil)
		}
	}

	if len(updates) > 0 {
		if err := tx.Model(&doc).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update payment of %s %d: %w", kind, id, err)
		}
	}
	if err := tx.Preload("Items").Preload("Customer").First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}
