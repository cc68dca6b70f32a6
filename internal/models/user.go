package models

import "time"

type User struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" bson:"name" gorm:"not null"`
	Email     string    `json:"email" bson:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" bson:"password" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// StoredUser is the shape user records take when serialized by document
// stores that rely on encoding/json, where User hides the password hash.
type StoredUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) Stored() StoredUser {
	return StoredUser(u)
}

func (s StoredUser) User() User {
	return User(s)
}
