package models

import "time"

// NotificationType classifies a notification
type NotificationType string

const (
	NotificationSuccess  NotificationType = "success"
	NotificationError    NotificationType = "error"
	NotificationWarning  NotificationType = "warning"
	NotificationInfo     NotificationType = "info"
	NotificationPayment  NotificationType = "payment"
	NotificationOrder    NotificationType = "order"
	NotificationSystem   NotificationType = "system"
	NotificationProduct  NotificationType = "product"
	NotificationCustomer NotificationType = "customer"
	NotificationSecurity NotificationType = "security"
)

// Priority, category and source values derived from the notification type
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	CategoryBusiness  = "business"
	CategorySystem    = "system"
	CategorySecurity  = "security"
	CategoryMarketing = "marketing"

	SourceOrder    = "order"
	SourcePayment  = "payment"
	SourceProduct  = "product"
	SourceCustomer = "customer"
	SourceSystem   = "system"
	SourceUser     = "user"
)

// Notification is an entry in the notification center
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Action    string           `json:"action,omitempty"`
	ActionURL string           `json:"actionUrl,omitempty"`
	Data      map[string]any   `json:"data,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
	ExpiresAt *time.Time       `json:"expiresAt,omitempty"`
	Priority  string           `json:"priority"`
	Category  string           `json:"category"`
	Source    string           `json:"source"`
}

// ExpiredAt reports whether the notification has an expiry that has passed
func (n *Notification) ExpiredAt(now time.Time) bool {
	return n.ExpiresAt != nil && !n.ExpiresAt.After(now)
}

// NotificationPayload is what callers submit to be delivered
type NotificationPayload struct {
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Action    string           `json:"action,omitempty"`
	ActionURL string           `json:"actionUrl,omitempty"`
	Data      map[string]any   `json:"data,omitempty"`
}

// DeliveryResponse mirrors the notification API response body
type DeliveryResponse struct {
	Success      bool          `json:"success"`
	Notification *Notification `json:"notification,omitempty"`
	Error        string        `json:"error,omitempty"`
}
