package db_models

import "github.com/google/uuid"

// User email is stored normalized (trimmed, lower-cased); uniqueness is
// checked against the normalized form.
type User struct {
	BaseModel
	Email          string     `gorm:"uniqueIndex;size:190"`
	PasswordHash   string
	SubscriptionID *uuid.UUID `gorm:"index"`

	Subscription *Subscription `gorm:"foreignKey:SubscriptionID"`
}
