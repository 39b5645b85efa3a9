package models

import (
	"time"

	"github.com/google/uuid"
)

// ViolationType classifies a delivery problem reported against a seller
type ViolationType string

const (
	ViolationFakeProduct    ViolationType = "fake_product"
	ViolationDamagedProduct ViolationType = "damaged_product"
	ViolationWrongProduct   ViolationType = "wrong_product"
	ViolationLateDelivery   ViolationType = "late_delivery"
	ViolationMissingItems   ViolationType = "missing_items"
)

// ViolationTypes lists every violation type
var ViolationTypes = []ViolationType{
	ViolationFakeProduct, ViolationDamagedProduct, ViolationWrongProduct, ViolationLateDelivery, ViolationMissingItems,
}

// Severity grades a violation
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity from least to most serious
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// DeliveryViolation is a recorded delivery problem for one order
type DeliveryViolation struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	SellerID    string        `json:"seller_id" db:"seller_id"`
	OrderID     string        `json:"order_id" db:"order_id"`
	CustomerID  string        `json:"customer_id,omitempty" db:"customer_id"`
	Type        ViolationType `json:"violation_type" db:"violation_type"`
	Severity    Severity      `json:"severity" db:"severity"`
	Description string        `json:"description" db:"description"`
	OrderValue  float64       `json:"order_value" db:"order_value"`
	OccurredAt  time.Time     `json:"occurred_at" db:"occurred_at"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}
