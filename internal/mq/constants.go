package mq

import "time"

// Queue names and message definitions

// immediate queue from the storefront to downstream consumers (audit, analytics)
// deliver one message per user-visible activity
const (
	StorefrontActivityQueue = "storefront.activity.immediate"
)

type ActivityKind string

const (
	ActivityLogin             ActivityKind = "session.login"
	ActivityLogout            ActivityKind = "session.logout"
	ActivityRegister          ActivityKind = "session.register"
	ActivityPurchaseSubmitted ActivityKind = "purchase.submitted"
	ActivityPurchaseFailed    ActivityKind = "purchase.failed"
	ActivitySlipUploaded      ActivityKind = "payment.slip_uploaded"
	ActivityPaymentConfirmed  ActivityKind = "payment.confirmed"
)

type ActivityMessage struct {
	Kind       ActivityKind `json:"kind"`
	UserID     uint         `json:"user_id,omitempty"`
	Role       string       `json:"role,omitempty"`
	OrderID    uint         `json:"order_id,omitempty"`
	TicketType uint         `json:"ticket_type_id,omitempty"`
	Quantity   int          `json:"quantity,omitempty"`
	Detail     string       `json:"detail,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}
