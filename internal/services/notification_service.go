package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BradenHooton/storefront/internal/events"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/pkg/metrics"
)

const (
	anonymousUser = "anonymous"

	highValueOrderTotal   = 500
	largeOrderItemCount   = 10
	largePaymentAmount    = 1000
	criticalStockLevel    = 5
	DefaultStockThreshold = 10
)

// Payment statuses accepted by NotifyPayment
const (
	PaymentSuccess  = "success"
	PaymentFailed   = "failed"
	PaymentPending  = "pending"
	PaymentRefunded = "refunded"
)

// Security alert kinds accepted by NotifySecurityAlert
const (
	AlertLoginAttempt       = "login_attempt"
	AlertPasswordChange     = "password_change"
	AlertSuspiciousActivity = "suspicious_activity"
)

var notificationPriorities = map[models.NotificationType]string{
	models.NotificationSecurity: models.PriorityUrgent,
	models.NotificationError:    models.PriorityHigh,
	models.NotificationPayment:  models.PriorityHigh,
	models.NotificationOrder:    models.PriorityMedium,
	models.NotificationCustomer: models.PriorityMedium,
	models.NotificationProduct:  models.PriorityMedium,
	models.NotificationWarning:  models.PriorityMedium,
	models.NotificationSystem:   models.PriorityLow,
	models.NotificationSuccess:  models.PriorityLow,
	models.NotificationInfo:     models.PriorityLow,
}

var notificationCategories = map[models.NotificationType]string{
	models.NotificationSecurity: models.CategorySecurity,
	models.NotificationError:    models.CategorySystem,
	models.NotificationPayment:  models.CategoryBusiness,
	models.NotificationOrder:    models.CategoryBusiness,
	models.NotificationCustomer: models.CategoryBusiness,
	models.NotificationProduct:  models.CategoryBusiness,
	models.NotificationWarning:  models.CategorySystem,
	models.NotificationSystem:   models.CategorySystem,
	models.NotificationSuccess:  models.CategoryBusiness,
	models.NotificationInfo:     models.CategoryBusiness,
}

var notificationSources = map[models.NotificationType]string{
	models.NotificationSecurity: models.SourceSystem,
	models.NotificationError:    models.SourceSystem,
	models.NotificationPayment:  models.SourcePayment,
	models.NotificationOrder:    models.SourceOrder,
	models.NotificationCustomer: models.SourceCustomer,
	models.NotificationProduct:  models.SourceProduct,
	models.NotificationWarning:  models.SourceSystem,
	models.NotificationSystem:   models.SourceSystem,
	models.NotificationSuccess:  models.SourceSystem,
	models.NotificationInfo:     models.SourceUser,
}

func lookupOr(table map[models.NotificationType]string, t models.NotificationType, fallback string) string {
	if v, ok := table[t]; ok {
		return v
	}
	return fallback
}

// DeliveryTokenSigner issues the bearer token sent with outbound notifications
type DeliveryTokenSigner interface {
	GenerateDeliveryToken(userID string) (string, error)
}

type NotificationConfig struct {
	// APIURL is the delivery base URL. Empty means local storage only.
	APIURL string
	TTL    time.Duration
}

// NotificationService delivers notifications to the notification API and
// keeps a local queue that subscribers observe as snapshots
type NotificationService struct {
	config  NotificationConfig
	client  *http.Client
	tokens  DeliveryTokenSigner
	hub     *events.Hub[[]models.Notification]
	logger  *slog.Logger
	metrics *metrics.Manager
	now     func() time.Time

	mu    sync.Mutex
	queue []models.Notification
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	config NotificationConfig,
	client *http.Client,
	tokens DeliveryTokenSigner,
	hub *events.Hub[[]models.Notification],
	logger *slog.Logger,
	opts ...Option,
) *NotificationService {
	o := applyOptions(opts)
	if config.TTL <= 0 {
		config.TTL = 24 * time.Hour
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &NotificationService{
		config:  config,
		client:  client,
		tokens:  tokens,
		hub:     hub,
		logger:  logger,
		metrics: o.metrics,
		now:     o.now,
	}
}

// Send delivers payload to the notification API. When delivery is not
// configured or fails, the notification is stored locally instead.
func (s *NotificationService) Send(ctx context.Context, payload models.NotificationPayload) (models.DeliveryResponse, error) {
	if payload.UserID == "" {
		payload.UserID = anonymousUser
	}

	if s.config.APIURL != "" {
		resp, err := s.deliver(ctx, payload)
		if err == nil {
			s.metrics.IncNotification(metrics.DeliveryRemote)
			if resp.Notification != nil {
				s.store(*resp.Notification)
			}
			return resp, nil
		}
		s.logger.Warn("notification delivery failed, storing locally",
			slog.String("type", string(payload.Type)),
			slog.Any("error", err))
	}

	notification := s.newLocal(payload)
	s.store(notification)
	s.metrics.IncNotification(metrics.DeliveryLocal)

	s.logger.Debug("notification stored locally",
		slog.String("id", notification.ID),
		slog.String("type", string(notification.Type)))

	return models.DeliveryResponse{Success: true, Notification: &notification}, nil
}

type deliveryRequest struct {
	models.NotificationPayload
	Timestamp time.Time `json:"timestamp"`
}

func (s *NotificationService) deliver(ctx context.Context, payload models.NotificationPayload) (models.DeliveryResponse, error) {
	body, err := json.Marshal(deliveryRequest{NotificationPayload: payload, Timestamp: s.now().UTC()})
	if err != nil {
		return models.DeliveryResponse{}, fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIURL+"/api/notifications", bytes.NewReader(body))
	if err != nil {
		return models.DeliveryResponse{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if s.tokens != nil {
		token, err := s.tokens.GenerateDeliveryToken(payload.UserID)
		if err != nil {
			return models.DeliveryResponse{}, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return models.DeliveryResponse{}, fmt.Errorf("notification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.DeliveryResponse{}, fmt.Errorf("notification api returned %s", resp.Status)
	}

	var out models.DeliveryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.DeliveryResponse{}, fmt.Errorf("failed to decode notification response: %w", err)
	}
	return out, nil
}

func (s *NotificationService) newLocal(payload models.NotificationPayload) models.Notification {
	now := s.now()
	expiresAt := now.Add(s.config.TTL)
	return models.Notification{
		ID:        uuid.NewString(),
		UserID:    payload.UserID,
		Type:      payload.Type,
		Title:     payload.Title,
		Message:   payload.Message,
		Action:    payload.Action,
		ActionURL: payload.ActionURL,
		Data:      payload.Data,
		Read:      false,
		CreatedAt: now,
		ExpiresAt: &expiresAt,
		Priority:  lookupOr(notificationPriorities, payload.Type, models.PriorityLow),
		Category:  lookupOr(notificationCategories, payload.Type, models.CategoryBusiness),
		Source:    lookupOr(notificationSources, payload.Type, models.SourceSystem),
	}
}

func (s *NotificationService) store(n models.Notification) {
	s.mu.Lock()
	s.queue = append(s.queue, n)
	s.mu.Unlock()
	s.notify()
}

// notify publishes a snapshot of the queue
func (s *NotificationService) notify() {
	snapshot := s.List()
	s.metrics.SetNotificationQueueSize(len(snapshot))
	if s.hub != nil {
		s.hub.Publish(snapshot)
	}
}

// List returns a copy of the queue, oldest first
func (s *NotificationService) List() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queue)
}

func (s *NotificationService) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.queue {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkAsRead flags the notification as read. It reports whether id was found.
func (s *NotificationService) MarkAsRead(id string) bool {
	s.mu.Lock()
	idx := slices.IndexFunc(s.queue, func(n models.Notification) bool { return n.ID == id })
	if idx >= 0 {
		s.queue[idx].Read = true
	}
	s.mu.Unlock()

	if idx < 0 {
		return false
	}
	s.notify()
	return true
}

// Remove deletes the notification. It reports whether id was found.
func (s *NotificationService) Remove(id string) bool {
	s.mu.Lock()
	idx := slices.IndexFunc(s.queue, func(n models.Notification) bool { return n.ID == id })
	if idx >= 0 {
		s.queue = slices.Delete(s.queue, idx, idx+1)
	}
	s.mu.Unlock()

	if idx < 0 {
		return false
	}
	s.notify()
	return true
}

func (s *NotificationService) ClearAll() {
	s.mu.Lock()
	s.queue = nil
	s.mu.Unlock()
	s.notify()
}

// CleanupExpired drops notifications whose expiry has passed and returns how
// many were removed. Subscribers are only notified when something changed.
func (s *NotificationService) CleanupExpired(now time.Time) int {
	s.mu.Lock()
	before := len(s.queue)
	s.queue = slices.DeleteFunc(s.queue, func(n models.Notification) bool { return n.ExpiredAt(now) })
	removed := before - len(s.queue)
	s.mu.Unlock()

	if removed > 0 {
		s.notify()
	}
	return removed
}

// Sweep runs CleanupExpired against the service clock
func (s *NotificationService) Sweep(_ context.Context) (int, error) {
	removed := s.CleanupExpired(s.now())
	s.metrics.AddExpiredNotifications(removed)
	return removed, nil
}

func (s *NotificationService) withTimestamp(data map[string]any) map[string]any {
	out := make(map[string]any, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["timestamp"] = s.now().UTC().Format(time.RFC3339)
	return out
}

func stringOr(data map[string]any, key, fallback string) string {
	if v, ok := data[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func containsAny(s string, words ...string) bool {
	s = strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// NotifySuccess sends a success notification. Titles mentioning a creation,
// update or completion are flagged as important.
func (s *NotificationService) NotifySuccess(ctx context.Context, userID, message, title string, data map[string]any) (models.DeliveryResponse, error) {
	if title == "" {
		title = "Success"
	}
	payloadData := s.withTimestamp(data)
	payloadData["isImportant"] = containsAny(title, "created", "updated", "completed")

	return s.Send(ctx, models.NotificationPayload{
		UserID:    userID,
		Type:      models.NotificationSuccess,
		Title:     title,
		Message:   message,
		Action:    stringOr(data, "action", "view_details"),
		ActionURL: stringOr(data, "actionUrl", ""),
		Data:      payloadData,
	})
}

// NotifyError sends an error notification. Security, payment and system
// errors, or any failure message, require immediate action.
func (s *NotificationService) NotifyError(ctx context.Context, userID, message, title string, data map[string]any) (models.DeliveryResponse, error) {
	if title == "" {
		title = "Error"
	}
	critical := containsAny(title, "security", "payment", "system") || containsAny(message, "failed")

	payloadData := s.withTimestamp(data)
	payloadData["isCritical"] = critical
	payloadData["requiresImmediateAction"] = critical

	return s.Send(ctx, models.NotificationPayload{
		UserID:    userID,
		Type:      models.NotificationError,
		Title:     title,
		Message:   message,
		Action:    stringOr(data, "action", "resolve_error"),
		ActionURL: stringOr(data, "actionUrl", ""),
		Data:      payloadData,
	})
}

func (s *NotificationService) NotifyNewOrder(ctx context.Context, userID, orderID, customerName string, total float64, items int) (models.DeliveryResponse, error) {
	highValue := total > highValueOrderTotal

	title := "New Order"
	if highValue {
		title = "High-Value Order Received!"
	}

	return s.Send(ctx, models.NotificationPayload{
		UserID:    userID,
		Type:      models.NotificationOrder,
		Title:     title,
		Message:   fmt.Sprintf("Order #%s from %s - %d items, $%.2f", orderID, customerName, items, total),
		Action:    "view_order",
		ActionURL: "/orders/" + orderID,
		Data: s.withTimestamp(map[string]any{
			"orderId":           orderID,
			"customerName":      customerName,
			"total":             total,
			"items":             items,
			"isHighValue":       highValue,
			"requiresAttention": highValue || items > largeOrderItemCount,
		}),
	})
}

// NotifyPayment reports a payment status change. orderID and customerName may be empty.
func (s *NotificationService) NotifyPayment(ctx context.Context, userID string, amount float64, status, orderID, customerName string) (models.DeliveryResponse, error) {
	forOrder := ""
	if orderID != "" {
		forOrder = " for order #" + orderID
	}

	var (
		title   string
		message string
		kind    models.NotificationType
	)
	switch status {
	case PaymentSuccess:
		title = "Payment Received"
		if amount > largePaymentAmount {
			title = "Large Payment Received!"
		}
		from := "received"
		if customerName != "" {
			from = "from " + customerName
		}
		message = fmt.Sprintf("$%.2f payment %s%s", amount, from, forOrder)
		kind = models.NotificationPayment
	case PaymentFailed:
		title = "Payment Failed"
		message = fmt.Sprintf("Payment of $%.2f failed%s. Please check payment method.", amount, forOrder)
		kind = models.NotificationError
	case PaymentPending:
		title = "Payment Processing"
		message = fmt.Sprintf("Payment of $%.2f is being processed%s", amount, forOrder)
		kind = models.NotificationInfo
	case PaymentRefunded:
		title = "Payment Refunded"
		message = fmt.Sprintf("$%.2f refund processed%s", amount, forOrder)
		kind = models.NotificationWarning
	default:
		title = "Payment Update"
		message = "Payment status: " + status
		kind = models.NotificationInfo
	}

	action := "view_payment"
	if status == PaymentFailed {
		action = "resolve_payment"
	}
	actionURL := "/payments"
	if orderID != "" {
		actionURL = "/orders/" + orderID
	}

	return s.Send(ctx, models.NotificationPayload{
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		Action:    action,
		ActionURL: actionURL,
		Data: s.withTimestamp(map[string]any{
			"amount":         amount,
			"status":         status,
			"orderId":        orderID,
			"customerName":   customerName,
			"requiresAction": status == PaymentFailed,
			"isLargeAmount":  amount > largePaymentAmount,
		}),
	})
}

// NotifyLowStock warns about stock at or below threshold. A threshold of zero
// uses DefaultStockThreshold.
func (s *NotificationService) NotifyLowStock(ctx context.Context, userID, productName string, currentStock, threshold int) (models.DeliveryResponse, error) {
	if threshold <= 0 {
		threshold = DefaultStockThreshold
	}
	critical := currentStock <= criticalStockLevel

	kind := models.NotificationWarning
	title := "Low Stock Alert"
	if critical {
		kind = models.NotificationError
		title = "Critical: Product Out of Stock!"
	}

	return s.Send(ctx, models.NotificationPayload{
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   fmt.Sprintf("%s has only %d items left (threshold: %d)", productName, currentStock, threshold),
		Action:    "restock_product",
		ActionURL: "/products",
		Data: s.withTimestamp(map[string]any{
			"productName":  productName,
			"currentStock": currentStock,
			"threshold":    threshold,
			"isCritical":   critical,
		}),
	})
}

func (s *NotificationService) NotifyNewCustomer(ctx context.Context, userID, customerName, email, source string) (models.DeliveryResponse, error) {
	if source == "" {
		source = "website"
	}

	return s.Send(ctx, models.NotificationPayload{
		UserID:    userID,
		Type:      models.NotificationCustomer,
		Title:     "New Customer Registered",
		Message:   fmt.Sprintf("%s (%s) joined from %s", customerName, email, source),
		Action:    "view_customer",
		ActionURL: "/customers",
		Data: s.withTimestamp(map[string]any{
			"customerName": customerName,
			"email":        email,
			"source":       source,
		}),
	})
}

var securityAlertTitles = map[string]string{
	AlertLoginAttempt:       "Failed Login Attempt",
	AlertPasswordChange:     "Password Changed",
	AlertSuspiciousActivity: "Suspicious Activity Detected",
}

func (s *NotificationService) NotifySecurityAlert(ctx context.Context, userID, alertType, details string) (models.DeliveryResponse, error) {
	title, ok := securityAlertTitles[alertType]
	if !ok {
		return models.DeliveryResponse{}, fmt.Errorf("%w: unknown alert type %q", models.ErrBadRequest, alertType)
	}

	return s.Send(ctx, models.NotificationPayload{
		UserID:    userID,
		Type:      models.NotificationSecurity,
		Title:     title,
		Message:   details,
		Action:    "review_security",
		ActionURL: "/settings/security",
		Data: s.withTimestamp(map[string]any{
			"alertType":               alertType,
			"details":                 details,
			"requiresImmediateAction": true,
		}),
	})
}
