package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSlotHeld is returned when another patient currently holds the slot.
var ErrSlotHeld = errors.New("slot held by another patient")

// HoldStore keeps short-lived slot holds in Redis so a patient filling the
// booking form does not lose the slot mid-flight. A hold is advisory: the
// conditional capacity update in Repository.Book remains the source of
// truth.
type HoldStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHoldStore creates a hold store with the given hold lifetime.
func NewHoldStore(client *redis.Client, ttl time.Duration) *HoldStore {
	if client == nil {
		panic("slots: redis client required")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &HoldStore{client: client, ttl: ttl}
}

func holdKey(slotID string) string {
	return "slot_hold:" + slotID
}

// Acquire places a hold for the patient. It fails if a different patient
// already holds the slot; re-acquiring one's own hold refreshes the TTL.
func (h *HoldStore) Acquire(ctx context.Context, slotID, patientID string) error {
	ok, err := h.client.SetNX(ctx, holdKey(slotID), patientID, h.ttl).Result()
	if err != nil {
		return fmt.Errorf("slots: acquire hold: %w", err)
	}
	if ok {
		return nil
	}
	holder, err := h.client.Get(ctx, holdKey(slotID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("slots: read hold: %w", err)
	}
	if holder == patientID {
		if err := h.client.Expire(ctx, holdKey(slotID), h.ttl).Err(); err != nil {
			return fmt.Errorf("slots: refresh hold: %w", err)
		}
		return nil
	}
	return ErrSlotHeld
}

// Holder returns the patient currently holding the slot, if any.
func (h *HoldStore) Holder(ctx context.Context, slotID string) (string, bool, error) {
	holder, err := h.client.Get(ctx, holdKey(slotID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("slots: read hold: %w", err)
	}
	return holder, true, nil
}

// Release removes the patient's hold. Another patient's hold is left alone.
func (h *HoldStore) Release(ctx context.Context, slotID, patientID string) error {
	holder, found, err := h.Holder(ctx, slotID)
	if err != nil || !found {
		return err
	}
	if holder != patientID {
		return nil
	}
	if err := h.client.Del(ctx, holdKey(slotID)).Err(); err != nil {
		return fmt.Errorf("slots: release hold: %w", err)
	}
	return nil
}
