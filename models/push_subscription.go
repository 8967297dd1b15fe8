package models

import "time"

// SubscriptionKeys is the credential material a browser hands out with a
// push subscription. The server never interprets it beyond passing it to
// the payload encryption.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// PushSubscription is a browser push endpoint plus the key material needed
// to encrypt payloads for it. Endpoint is the natural key: repeated
// subscribes for the same endpoint must not create extra rows, and pruning
// after a dead delivery is keyed by endpoint too.
type PushSubscription struct {
	ID        string           `gorm:"primaryKey" json:"id"`
	Endpoint  string           `gorm:"uniqueIndex;size:512;not null" json:"endpoint"`
	Keys      SubscriptionKeys `gorm:"serializer:json;not null" json:"keys"`
	CreatedAt time.Time        `json:"createdAt"`
}
