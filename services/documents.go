package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gst-billing-backend/database"
	"gst-billing-backend/events"
	"gst-billing-backend/logger"
	"gst-billing-backend/models"
	"gst-billing-backend/utils"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const publishTimeout = 10 * time.Second

// DocumentService creates invoices and bills. It owns its transaction so the post-commit event
// is only published for committed documents.
type DocumentService struct {
	db          *gorm.DB
	publisher   events.Publisher
	phoneRegion string
	log         zerolog.Logger
	now         func() time.Time
}

// NewDocumentService returns a service writing to db. publisher may be nil, in which case no
// event is sent after commit.
func NewDocumentService(db *gorm.DB, publisher events.Publisher, phoneRegion string) *DocumentService {
	return &DocumentService{
		db:          db,
		publisher:   publisher,
		phoneRegion: phoneRegion,
		log:         logger.WithComponent("documents"),
		now:         time.Now,
	}
}

// CreateResult is a committed document. Warning is set when the document was saved but the
// post-commit event could not be delivered.
type CreateResult struct {
	Document *models.Document
	Warning  string
}

// Create runs the document transaction: customer upsert, header, line items and one OUT stock
// movement per line. Either all of it is committed or none of it is.
func (s *DocumentService) Create(ctx context.Context, kind models.DocumentKind, in *CreateDocumentInput) (*CreateResult, error) {
	const op = "CreateDocument"
	if in.CompanyID == "" {
		return nil, permissionError(op, "Tenant context missing")
	}
	if err := in.prepare(s.phoneRegion); err != nil {
		return nil, err
	}

	var (
		company models.Company
		doc     models.Document
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&company, "id = ?", in.CompanyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError(op, "Company not found")
			}
			return fmt.Errorf("load company: %w", err)
		}
		if !company.SubscriptionType.Permits(kind) {
			return permissionError(op, fmt.Sprintf("Your subscription does not allow creating %ss", kind))
		}

		customerID, _, err := UpsertCustomer(tx, in.CompanyID, in.Customer)
		if err != nil {
			return err
		}

		products, err := loadProducts(tx, in.CompanyID, in.Products)
		if err != nil {
			return err
		}
		items, lineBase, lineGST, err := buildItems(in, products)
		if err != nil {
			return err
		}
		sum, err := in.Summary.resolve(lineBase, lineGST)
		if err != nil {
			return err
		}

		docDate := NewDate(s.now()).Time
		if in.DocumentDate != nil && !in.DocumentDate.IsZero() {
			docDate = in.DocumentDate.Time
		}
		doc = models.Document{
			CompanyID:               in.CompanyID,
			Kind:                    kind,
			DocumentNumber:          in.DocumentNumber,
			DocumentDate:            docDate,
			CustomerID:              customerID,
			Subtotal:                sum.Subtotal,
			GSTAmount:               sum.GSTAmount,
			CGSTAmount:              sum.CGSTAmount,
			SGSTAmount:              sum.SGSTAmount,
			Discount:                sum.Discount,
			TransportCharge:         sum.TransportCharge,
			TotalAmount:             sum.TotalAmount,
			PaymentType:             sum.PaymentType,
			PaymentStatus:           sum.PaymentStatus,
			AdvanceAmount:           sum.AdvanceAmount,
			DueDate:                 sum.DueDate,
			PaymentCompletionStatus: models.CompletionPending,
			CreatedBy:               in.CreatedBy,
		}
		if sum.PaymentStatus == models.PaymentFull {
			settled := docDate
			doc.PaymentCompletionStatus = models.CompletionCompleted
			doc.PaymentSettlementDate = &settled
		}
		if err := tx.Omit(clause.Associations).Create(&doc).Error; err != nil {
			return fmt.Errorf("insert %s header: %w", kind, err)
		}

		for i := range items {
			items[i].DocumentID = doc.ID
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return fmt.Errorf("insert %s items: %w", kind, err)
		}
		doc.Items = items

		if err := decrementStock(tx, in.CompanyID, &doc); err != nil {
			return err
		}

		return tx.First(&doc.Customer, customerID).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("company_id", doc.CompanyID).
		Str("kind", string(kind)).
		Uint("document_id", doc.ID).
		Str("document_number", doc.DocumentNumber).
		Int("lines", len(doc.Items)).
		Msg("document created")

	res := &CreateResult{Document: &doc}
	if s.publisher != nil {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		ev := events.Event{
			Type:       events.TypeDocumentCreated,
			CompanyID:  doc.CompanyID,
			DocumentID: doc.ID,
			OccurredAt: s.now().UTC(),
			Payload:    events.DocumentRender{Company: company, Document: doc},
		}
		if err := s.publisher.Publish(pctx, ev); err != nil {
			s.log.Warn().Err(err).Uint("document_id", doc.ID).Msg("document.created publish failed")
			res.Warning = fmt.Sprintf("%s saved, but PDF/email processing could not be scheduled", kind.Title())
		}
	}
	return res, nil
}

// loadProducts reads every referenced product of the company, without locking, so missing GST
// percentages can default to the product's rate.
func loadProducts(tx *gorm.DB, companyID string, lines []ProductLineInput) (map[uint]models.Product, error) {
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	var rows []models.Product
	if err := tx.Scopes(database.ForTenant(companyID)).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[uint]models.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, notFoundError("LoadProducts", fmt.Sprintf("Product ID %d not found", id))
		}
	}
	return byID, nil
}

// buildItems fills in missing line amounts and returns the rows plus the line totals used as
// summary defaults.
func buildItems(in *CreateDocumentInput, products map[uint]models.Product) ([]models.DocumentItem, decimal.Decimal, decimal.Decimal, error) {
	items := make([]models.DocumentItem, 0, len(in.Products))
	sumBase, sumGST := decimal.Zero, decimal.Zero
	for i, line := range in.Products {
		pct := products[line.ProductID].GSTRate
		if line.GSTPercentage != nil {
			pct = utils.Round2(*line.GSTPercentage)
		}

		base, gst, total := utils.LineAmounts(line.Quantity, line.Rate, pct)
		if line.BaseAmount != nil {
			base = utils.Round2(*line.BaseAmount)
			gst = utils.Round2(base.Mul(pct).Div(hundred))
			total = base.Add(gst)
		}
		if line.GSTAmount != nil {
			gst = utils.Round2(*line.GSTAmount)
			total = base.Add(gst)
		}
		if line.TotalAmount != nil {
			total = utils.Round2(*line.TotalAmount)
		}
		if base.IsNegative() || gst.IsNegative() || total.IsNegative() {
			return nil, decimal.Zero, decimal.Zero,
				validationError("BuildItems", fmt.Sprintf("products[%d] amounts must not be negative", i), nil)
		}

		sumBase = sumBase.Add(base)
		sumGST = sumGST.Add(gst)
		items = append(items, models.DocumentItem{
			CompanyID:     in.CompanyID,
			ProductID:     line.ProductID,
			Description:   line.Description,
			Quantity:      line.Quantity,
			Rate:          line.Rate,
			GSTPercentage: pct,
			BaseAmount:    base,
			GSTAmount:     gst,
			TotalAmount:   total,
		})
	}
	return items, sumBase, sumGST, nil
}

// decrementStock takes the row locks in ascending product id order, so two documents sharing
// products always lock them in the same order. Lines are checked in that order too: when several
// lines are short, the error names the short product with the lowest id, which need not be the
// first one submitted.
func decrementStock(tx *gorm.DB, companyID string, doc *models.Document) error {
	order := make([]int, len(doc.Items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return doc.Items[order[a]].ProductID < doc.Items[order[b]].ProductID
	})

	reason := fmt.Sprintf("%s %s", doc.Kind.Title(), doc.DocumentNumber)
	locked := make(map[uint]*models.Product, len(doc.Items))
	for _, i := range order {
		item := doc.Items[i]
		product, ok := locked[item.ProductID]
		if !ok {
			var err error
			if product, err = lockProduct(tx, companyID, item.ProductID); err != nil {
				return err
			}
			locked[item.ProductID] = product
		}
		if _, err := applyMovement(tx, product, movement{
			changeType:  models.StockOut,
			quantity:    item.Quantity,
			reason:      reason,
			referenceID: &doc.ID,
			updatedBy:   doc.CreatedBy,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ListDocuments returns a page of one kind of document with items and customer, newest first.
func ListDocuments(db *gorm.DB, companyID string, kind models.DocumentKind, limit, offset int) ([]models.Document, error) {
	var docs []models.Document
	err := db.Scopes(database.ForTenant(companyID)).
		Where("kind = ?", kind).
		Preload("Items").
		Preload("Customer").
		Order("document_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&docs).Error
	return docs, err
}

func GetDocument(db *gorm.DB, companyID string, kind models.DocumentKind, id uint) (*models.Document, error) {
	var doc models.Document
	err := db.Scopes(database.ForTenant(companyID)).
		Where("kind = ?", kind).
		Preload("Items").
		Preload("Customer").
		First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError("GetDocument", fmt.Sprintf("%s %d not found", kind.Title(), id))
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
