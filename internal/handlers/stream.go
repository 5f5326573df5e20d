package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/BradenHooton/storefront/internal/events"
	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/models"
)

// NotificationSignals is pushed whenever the notification center changes
type NotificationSignals struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unreadCount"`
}

// StorageSignal reports a change to one of the caller's own keys.
// Values are not forwarded.
type StorageSignal struct {
	Key     string `json:"key"`
	Removed bool   `json:"removed"`
}

type storageSignals struct {
	Storage StorageSignal `json:"storage"`
}

// StreamHandler pushes dashboard updates over server-sent events
type StreamHandler struct {
	notifications NotificationServiceInterface
	notifyHub     *events.Hub[[]models.Notification]
	storageHub    *events.Hub[events.StorageChange]
	logger        *slog.Logger
}

// NewStreamHandler creates a StreamHandler. storageHub may be nil.
func NewStreamHandler(
	notifications NotificationServiceInterface,
	notifyHub *events.Hub[[]models.Notification],
	storageHub *events.Hub[events.StorageChange],
	logger *slog.Logger,
) *StreamHandler {
	return &StreamHandler{
		notifications: notifications,
		notifyHub:     notifyHub,
		storageHub:    storageHub,
		logger:        logger,
	}
}

// Stream sends the current notification center, then every later snapshot and
// every change to the client's own keys until the request ends
// @Router /notifications/stream [get]
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// subscribe before the first snapshot so no update falls in between
	notifySub := h.notifyHub.Subscribe(ctx)
	defer notifySub.Unsubscribe()

	var storageCh <-chan events.StorageChange
	prefix := ""
	if clientID, ok := kvstore.ClientFromContext(ctx); ok && h.storageHub != nil {
		storageSub := h.storageHub.Subscribe(ctx)
		defer storageSub.Unsubscribe()
		storageCh = storageSub.C()
		prefix = kvstore.ClientPrefix(clientID)
	}

	// long-lived response; ignored when the writer has no deadline support
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	sse := datastar.NewSSE(w, r)
	if err := h.send(sse, notificationSignals(h.notifications.List())); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-notifySub.C():
			if !ok {
				return
			}
			if err := h.send(sse, notificationSignals(snapshot)); err != nil {
				return
			}
		case change, ok := <-storageCh:
			if !ok {
				storageCh = nil
				continue
			}
			key, mine := strings.CutPrefix(change.Key, prefix)
			if !mine {
				continue
			}
			if err := h.send(sse, storageSignals{Storage: StorageSignal{Key: key, Removed: change.NewValue == nil}}); err != nil {
				return
			}
		}
	}
}

func (h *StreamHandler) send(sse *datastar.ServerSentEventGenerator, signals any) error {
	data, err := json.Marshal(signals)
	if err != nil {
		h.logger.Error("failed to encode stream update", slog.Any("error", err))
		return err
	}
	if err := sse.PatchSignals(data); err != nil {
		h.logger.Debug("stream closed", slog.Any("error", err))
		return err
	}
	return nil
}

func notificationSignals(snapshot []models.Notification) NotificationSignals {
	signals := NotificationSignals{Notifications: snapshot}
	if signals.Notifications == nil {
		signals.Notifications = []models.Notification{}
	}
	for _, n := range snapshot {
		if !n.Read {
			signals.UnreadCount++
		}
	}
	return signals
}
