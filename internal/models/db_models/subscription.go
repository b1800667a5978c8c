package db_models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubStatusInactive SubscriptionStatus = "INACTIVE"
	SubStatusActive   SubscriptionStatus = "ACTIVE"
	SubStatusExpired  SubscriptionStatus = "EXPIRED"
)

type PlanType string

const (
	PlanIndividual PlanType = "INDIVIDUAL"
	PlanEnterprise PlanType = "ENTERPRISE"
)

// SeatsForPlan derives the seat count from the plan.
func SeatsForPlan(plan PlanType) int {
	if plan == PlanEnterprise {
		return 5
	}
	return 1
}

type BillingCycle string

const (
	CycleMonthly BillingCycle = "MONTHLY"
	CycleYearly  BillingCycle = "YEARLY"
)

// Subscription is plan-selected iff both Plan and BillingCycle are set, and
// valid iff Status is ACTIVE with a CurrentPeriodEnd in the future.
type Subscription struct {
	BaseModel
	Status           SubscriptionStatus `gorm:"size:20;default:INACTIVE;index"`
	Plan             *PlanType          `gorm:"size:20"`
	BillingCycle     *BillingCycle      `gorm:"size:20"`
	Seats            int                `gorm:"default:1"`
	CurrentPeriodEnd *time.Time

	Metadata datatypes.JSON `gorm:"default:'{}'"`

	Modules    []SubscriptionModule    `gorm:"foreignKey:SubscriptionID;constraint:OnDelete:CASCADE"`
	SubModules []SubscriptionSubModule `gorm:"foreignKey:SubscriptionID;constraint:OnDelete:CASCADE"`
}

// PlanChange is one entry of the plan-selection history kept in Metadata.
type PlanChange struct {
	Plan         PlanType     `json:"plan"`
	BillingCycle BillingCycle `json:"billingCycle"`
	Seats        int          `json:"seats"`
	At           time.Time    `json:"at"`
}

type subscriptionMetadata struct {
	PlanHistory []PlanChange `json:"planHistory,omitempty"`
}

// PlanHistory decodes the selection history out of Metadata. Malformed
// metadata reads as empty rather than failing the caller.
func (s *Subscription) PlanHistory() []PlanChange {
	var meta subscriptionMetadata
	if len(s.Metadata) > 0 {
		_ = json.Unmarshal(s.Metadata, &meta)
	}
	return meta.PlanHistory
}

// RecordPlanChange appends one history entry to Metadata.
func (s *Subscription) RecordPlanChange(change PlanChange) {
	raw, err := json.Marshal(subscriptionMetadata{PlanHistory: append(s.PlanHistory(), change)})
	if err != nil {
		return
	}
	s.Metadata = datatypes.JSON(raw)
}

func (s *Subscription) PlanSelected() bool {
	return s.Plan != nil && s.BillingCycle != nil
}

func (s *Subscription) Expired(now time.Time) bool {
	if s.Status == SubStatusExpired {
		return true
	}
	if s.CurrentPeriodEnd == nil {
		return true
	}
	return !s.CurrentPeriodEnd.After(now)
}

func (s *Subscription) Valid(now time.Time) bool {
	return s.Status == SubStatusActive && !s.Expired(now)
}
