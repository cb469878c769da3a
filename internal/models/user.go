package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// User represents an administrator account
// #SECURITY_ASSUMPTION: Passwords stored as bcrypt hashes only
type User struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Email string `bson:"email" json:"email"`
	Name  string `bson:"name" json:"name"`

	PasswordHash string `bson:"password_hash" json:"-"`

	IsActive bool `bson:"is_active" json:"is_active"`

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for users
func (User) CollectionName() string {
	return "users"
}

// BeforeCreate sets default values before inserting a new user
func (u *User) BeforeCreate() {
	now := time.Now().UTC()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	u.IsActive = true
}

// BeforeUpdate sets the UpdatedAt timestamp
func (u *User) BeforeUpdate() {
	u.UpdatedAt = time.Now().UTC()
}

// SetPassword hashes and stores the given plaintext password
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}
