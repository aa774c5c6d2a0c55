package domain

import "time"

// SubscriptionStatus is the status enum for project subscriptions.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) String() string { return string(s) }

type Subscription struct {
	SubscriptionID   string             `json:"id" dynamodbav:"subscription_id"`
	PersonID         string             `json:"personId" dynamodbav:"person_id"`
	ProjectID        string             `json:"projectId" dynamodbav:"project_id"`
	Status           SubscriptionStatus `json:"status" dynamodbav:"status"`
	SubscriptionDate string             `json:"subscriptionDate" dynamodbav:"subscription_date"` // YYYY-MM-DD
	IsActive         bool               `json:"isActive" dynamodbav:"is_active"`
	CreatedAt        time.Time          `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt        time.Time          `json:"updatedAt" dynamodbav:"updated_at"`
}

type CreateSubscriptionRequest struct {
	PersonID  string             `json:"personId" validate:"required"`
	ProjectID string             `json:"projectId" validate:"required"`
	Status    SubscriptionStatus `json:"status"`
}

type UpdateSubscriptionRequest struct {
	Status   *SubscriptionStatus `json:"status"`
	IsActive *bool               `json:"isActive"`
}
