package models

// SubscriptionType gates which document kind a tenant may create.
type SubscriptionType string

const (
	SubscriptionInvoice SubscriptionType = "invoice"
	SubscriptionBill    SubscriptionType = "bill"
)

// DocumentKind distinguishes invoices from bills; both share one table.
type DocumentKind string

const (
	KindInvoice DocumentKind = "invoice"
	KindBill    DocumentKind = "bill"
)

// Title is the human-readable name used in stock movement reasons and messages.
func (k DocumentKind) Title() string {
	switch k {
	case KindInvoice:
		return "Invoice"
	case KindBill:
		return "Bill"
	}
	return string(k)
}

// Permits reports whether a tenant on this subscription may create documents of kind k.
func (s SubscriptionType) Permits(k DocumentKind) bool {
	return string(s) == string(k)
}

type PaymentStatus string

const (
	PaymentFull    PaymentStatus = "Full Payment"
	PaymentAdvance PaymentStatus = "Advance"
)

type CompletionStatus string

const (
	CompletionPending   CompletionStatus = "Pending"
	CompletionCompleted CompletionStatus = "Completed"
)

type StockChangeType string

const (
	StockIn  StockChangeType = "IN"
	StockOut StockChangeType = "OUT"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
)
