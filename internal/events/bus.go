package events

import "github.com/BradenHooton/storefront/internal/models"

// StorageChange is published whenever a key is written or removed.
// NewValue is nil for removals.
type StorageChange struct {
	Key      string
	NewValue *string
}

// ProfileUpdated carries the new profile picture. ImageData is nil when removed.
type ProfileUpdated struct {
	ClientID  string
	ImageData *string
}

// Bus groups the hubs shared across the application
type Bus struct {
	Storage       *Hub[StorageChange]
	Profile       *Hub[ProfileUpdated]
	Notifications *Hub[[]models.Notification]
}

// NewBus creates a bus with default buffer sizes
func NewBus() *Bus {
	return &Bus{
		Storage:       NewHub[StorageChange](defaultBufferSize),
		Profile:       NewHub[ProfileUpdated](defaultBufferSize),
		Notifications: NewHub[[]models.Notification](defaultBufferSize),
	}
}

// Close closes every hub on the bus
func (b *Bus) Close() {
	b.Storage.Close()
	b.Profile.Close()
	b.Notifications.Close()
}
