package models

import "time"

// FriendshipStatus defines the state of the edge between two users.
// The absence of a record means the users have no relationship at all.
type FriendshipStatus string

const (
	// StatusRequested means the initiator asked to be friends and the recipient has not answered.
	// It doubles as a one-way "follow" of the recipient by the initiator.
	StatusRequested FriendshipStatus = "requested"

	// StatusAccepted means the users are mutual friends.
	StatusAccepted FriendshipStatus = "accepted"

	// StatusBlocked means the initiator blocked the recipient.
	StatusBlocked FriendshipStatus = "blocked"
)

// Friendship is the single stateful edge between an unordered pair of users.
// UserLowID < UserHighID always holds, and the unique index on the pair keeps
// one record per pair. InitiatorID is whichever party currently controls the edge.
type Friendship struct {
	ID          uint             `gorm:"primaryKey"`
	UserLowID   uint             `gorm:"not null;uniqueIndex:idx_friendship_pair"`
	UserHighID  uint             `gorm:"not null;uniqueIndex:idx_friendship_pair;index"`
	InitiatorID uint             `gorm:"not null;index"`
	Status      FriendshipStatus `gorm:"type:varchar(20);not null;index"`
	CreatedAt   time.Time
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false"`

	UserLow  User `gorm:"foreignKey:UserLowID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserHigh User `gorm:"foreignKey:UserHighID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// OrderedPair returns the two ids sorted ascending.
func OrderedPair(a, b uint) (low, high uint) {
	if a < b {
		return a, b
	}
	return b, a
}

// NewFriendship builds an edge controlled by initiator.
func NewFriendship(initiator, recipient uint, status FriendshipStatus) *Friendship {
	low, high := OrderedPair(initiator, recipient)
	return &Friendship{
		UserLowID:   low,
		UserHighID:  high,
		InitiatorID: initiator,
		Status:      status,
	}
}

// RecipientID returns the party that does not control the edge.
func (f *Friendship) RecipientID() uint {
	return f.OtherParty(f.InitiatorID)
}

// OtherParty returns the member of the pair that is not id.
func (f *Friendship) OtherParty(id uint) uint {
	if f.UserLowID == id {
		return f.UserHighID
	}
	return f.UserLowID
}

// Involves reports whether id is one of the two parties.
func (f *Friendship) Involves(id uint) bool {
	return f.UserLowID == id || f.UserHighID == id
}
