package services

import "market-service/internal/models"

// RecipientEntry is one (user, reason) pair of a fan-out.
type RecipientEntry struct {
	UserID string
	Reason models.NotificationReason
}

// RecipientMap assigns at most one reason per user and remembers insertion
// order. The acting user of the event is never added except through Force.
type RecipientMap struct {
	actingUserID string
	order        []string
	reasons      map[string]models.NotificationReason
}

func NewRecipientMap(actingUserID string) *RecipientMap {
	return &RecipientMap{
		actingUserID: actingUserID,
		reasons:      make(map[string]models.NotificationReason),
	}
}

func (m *RecipientMap) shouldNotify(userID string) bool {
	if userID == "" || userID == m.actingUserID {
		return false
	}
	_, exists := m.reasons[userID]
	return !exists
}

// Add claims userID for reason unless the user is the actor or already
// claimed. It reports whether the entry was added.
func (m *RecipientMap) Add(userID string, reason models.NotificationReason) bool {
	if !m.shouldNotify(userID) {
		return false
	}
	m.order = append(m.order, userID)
	m.reasons[userID] = reason
	return true
}

// Force assigns reason regardless of earlier claims or of userID being the
// actor. An existing entry keeps its position.
func (m *RecipientMap) Force(userID string, reason models.NotificationReason) {
	if userID == "" {
		return
	}
	if _, exists := m.reasons[userID]; !exists {
		m.order = append(m.order, userID)
	}
	m.reasons[userID] = reason
}

func (m *RecipientMap) Reason(userID string) (models.NotificationReason, bool) {
	reason, ok := m.reasons[userID]
	return reason, ok
}

func (m *RecipientMap) Len() int {
	return len(m.order)
}

// Entries returns the recipients in the order they were first claimed.
func (m *RecipientMap) Entries() []RecipientEntry {
	entries := make([]RecipientEntry, 0, len(m.order))
	for _, userID := range m.order {
		entries = append(entries, RecipientEntry{UserID: userID, Reason: m.reasons[userID]})
	}
	return entries
}
