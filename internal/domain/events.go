package domain

// EntityUpdatedEvent is published by write-side collaborators after a
// successful mutation, on subject market.<tenant_id>.entity.updated. The
// invalidation consumer deletes the matching entity cache key; derived
// aggregate keys are left to expire naturally.
type EntityUpdatedEvent struct {
	Entity   string `json:"entity"` // "vehicle" or "tenant"
	TenantID string `json:"tenant_id"`
	EntityID string `json:"entity_id"`
}
