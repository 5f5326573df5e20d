package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/models"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
)

// NotificationServiceInterface is the notification center as seen by HTTP
type NotificationServiceInterface interface {
	Send(ctx context.Context, payload models.NotificationPayload) (models.DeliveryResponse, error)
	List() []models.Notification
	UnreadCount() int
	MarkAsRead(id string) bool
	Remove(id string) bool
	ClearAll()
}

type NotificationHandler struct {
	service NotificationServiceInterface
	logger  *slog.Logger
}

func NewNotificationHandler(service NotificationServiceInterface, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, logger: logger}
}

// SendNotificationRequest represents the request body for sending a notification
type SendNotificationRequest struct {
	UserID    string         `json:"userId"`
	Type      string         `json:"type" validate:"required,oneof=success error warning info payment order system product customer security"`
	Title     string         `json:"title" validate:"required,max=200"`
	Message   string         `json:"message" validate:"required,max=2000"`
	Action    string         `json:"action,omitempty"`
	ActionURL string         `json:"actionUrl,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// NotificationListResponse is the notification center contents
type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	list := h.service.List()
	if list == nil {
		list = []models.Notification{}
	}
	pkghttp.WriteJSON(w, http.StatusOK, NotificationListResponse{
		Notifications: list,
		UnreadCount:   h.service.UnreadCount(),
	})
}

// Send delivers a notification. The sender defaults to the session's account.
// @Router /notifications [post]
func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendNotificationRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	userID := req.UserID
	if session := auth.SessionFromContext(r.Context()); userID == "" && session != nil {
		userID = session.Email
	}

	resp, err := h.service.Send(r.Context(), models.NotificationPayload{
		UserID:    userID,
		Type:      models.NotificationType(req.Type),
		Title:     req.Title,
		Message:   req.Message,
		Action:    req.Action,
		ActionURL: req.ActionURL,
		Data:      req.Data,
	})
	if err != nil {
		h.logger.Error("failed to send notification", slog.Any("error", err))
		pkghttp.WriteModelError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, resp)
}

// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	if !h.service.MarkAsRead(chi.URLParam(r, "id")) {
		pkghttp.WriteNotFound(w, "Notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if !h.service.Remove(chi.URLParam(r, "id")) {
		pkghttp.WriteNotFound(w, "Notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Router /notifications [delete]
func (h *NotificationHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	h.service.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}
