package model

import "time"

// User represents a collection owner as stored in the `users` table.
// The movies a user owns are not embedded here; they are fetched
// explicitly through the movie repository by user id.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique, non-empty display name.
//  Email        – unique, non-empty email address.
//  PasswordHash – bcrypt hash of the password supplied at creation.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password
	CreatedAt    time.Time // users.created_at
}
