package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bloomfeed/profile-api/internal/models"
	"github.com/bloomfeed/profile-api/pkg/tool"
)

// WriteStatus is the per-key outcome of a store mutation.
type WriteStatus int

const (
	WriteApplied WriteStatus = iota
	// WriteMissing: no record for the given key.
	WriteMissing
	// WriteStale: a record exists but already carries a newer event_at.
	WriteStale
)

// Store is the keyed subscription storage. All three operations are
// single-key and atomic; no cross-event ordering is enforced beyond the
// event_at staleness guard.
type Store interface {
	// Upsert creates or replaces the record keyed by profile_id. A replay
	// with an older event_at is reported as stale and leaves state alone.
	Upsert(ctx context.Context, sub *models.ProSubscription) (WriteStatus, error)
	// UpdateExpiry sets expires_at on the record keyed by
	// billing_customer_id, guarded against stale events.
	UpdateExpiry(ctx context.Context, customerID string, expiresAt, eventAt time.Time) (WriteStatus, error)
	// Delete physically removes the record keyed by billing_customer_id,
	// guarded against stale events.
	Delete(ctx context.Context, customerID string, eventAt time.Time) (WriteStatus, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Upsert(ctx context.Context, sub *models.ProSubscription) (WriteStatus, error) {
	status := WriteApplied
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var original models.ProSubscription
		err := tx.Where("profile_id = ?", sub.ProfileID).First(&original).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load subscription: %w", err)
		}

		if err == nil {
			if original.EventAt.After(sub.EventAt) {
				status = WriteStale
				return nil
			}
			sub.ID = original.ID
			sub.CreatedAt = original.CreatedAt
		} else if sub.ID == "" {
			sub.ID = tool.GenerateUUIDV7()
		}

		if err := tx.Save(sub).Error; err != nil {
			return fmt.Errorf("save subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return WriteApplied, err
	}
	return status, nil
}

func (s *gormStore) UpdateExpiry(ctx context.Context, customerID string, expiresAt, eventAt time.Time) (WriteStatus, error) {
	status := WriteApplied
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ProSubscription{}).
			Where("billing_customer_id = ? AND event_at <= ?", customerID, eventAt).
			Updates(map[string]any{"expires_at": expiresAt, "event_at": eventAt})
		if res.Error != nil {
			return fmt.Errorf("update subscription expiry: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var err error
			status, err = s.missOrStale(tx, customerID)
			return err
		}
		return nil
	})
	if err != nil {
		return WriteApplied, err
	}
	return status, nil
}

func (s *gormStore) Delete(ctx context.Context, customerID string, eventAt time.Time) (WriteStatus, error) {
	status := WriteApplied
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("billing_customer_id = ? AND event_at <= ?", customerID, eventAt).
			Delete(&models.ProSubscription{})
		if res.Error != nil {
			return fmt.Errorf("delete subscription: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var err error
			status, err = s.missOrStale(tx, customerID)
			return err
		}
		return nil
	})
	if err != nil {
		return WriteApplied, err
	}
	return status, nil
}

// missOrStale distinguishes "no such record" from "record newer than the
// event" after a guarded write matched nothing.
func (s *gormStore) missOrStale(tx *gorm.DB, customerID string) (WriteStatus, error) {
	var count int64
	if err := tx.Model(&models.ProSubscription{}).
		Where("billing_customer_id = ?", customerID).Count(&count).Error; err != nil {
		return WriteApplied, fmt.Errorf("check subscription existence: %w", err)
	}
	if count == 0 {
		return WriteMissing, nil
	}
	return WriteStale, nil
}
