package models

import "time"

// Question is a single attendee-submitted item belonging to one session.
// Text and created time are immutable; only the upvote set and the hidden
// flag change after creation.
type Question struct {
	ID        string    `bson:"_id" json:"id"`
	SessionID string    `bson:"session_id" json:"session_id"`
	Text      string    `bson:"text" json:"text"`
	Created   time.Time `bson:"created" json:"created"`
	Upvotes   []string  `bson:"upvotes" json:"upvotes"`
	Hidden    bool      `bson:"hidden" json:"hidden"`
}

// VoteCount returns the size of the upvote set.
func (q Question) VoteCount() int {
	return len(q.Upvotes)
}
