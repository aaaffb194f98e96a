package store

import "fmt"

// prefix versions the whole namespace; bumping it invalidates every record
// without touching the backend.
const prefix = "sb:v2:"

// Keys builds namespaced record keys. Thread keys embed the staff chat id so
// one backend can serve several support groups.
type Keys struct {
	chatID int64
}

// NewKeys returns a key builder bound to the staff chat id.
func NewKeys(chatID int64) Keys {
	return Keys{chatID: chatID}
}

// Dedup keys the idempotency marker for one update delivery.
func (k Keys) Dedup(updateID int) string {
	return fmt.Sprintf("%sdedup:%d", prefix, updateID)
}

// Lang keys a user's language preference.
func (k Keys) Lang(userID int64) string {
	return fmt.Sprintf("%slang:%d", prefix, userID)
}

// Flow keys the "awaiting one message" marker.
func (k Keys) Flow(userID int64) string {
	return fmt.Sprintf("%sflow:%d", prefix, userID)
}

// Pending keys the marker bridging the language picker back to the screen
// that triggered it.
func (k Keys) Pending(userID int64) string {
	return fmt.Sprintf("%spending:%d", prefix, userID)
}

// Ticket keys the single open ticket of a user.
func (k Keys) Ticket(userID int64) string {
	return fmt.Sprintf("%sticket:%d", prefix, userID)
}

// Thread keys the thread-to-user mapping of an open ticket.
func (k Keys) Thread(threadID int) string {
	return fmt.Sprintf("%sthread:%d:%d", prefix, k.chatID, threadID)
}
