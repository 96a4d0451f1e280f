package model

import (
	"encoding/json"
	"strings"
)

// SocialLinks groups a user's public profiles.
type SocialLinks struct {
	Twitter  string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty" bson:"github,omitempty"`
}

// UserProfile is optional descriptive data attached to a user.
type UserProfile struct {
	Bio         string       `json:"bio,omitempty" bson:"bio,omitempty"`
	Avatar      string       `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Location    string       `json:"location,omitempty" bson:"location,omitempty"`
	Website     string       `json:"website,omitempty" bson:"website,omitempty"`
	PhoneNumber string       `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	DateOfBirth *Date        `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Interests   []string     `json:"interests,omitempty" bson:"interests,omitempty"`
	SocialLinks *SocialLinks `json:"socialLinks,omitempty" bson:"socialLinks,omitempty"`
}

// User is an account. Password holds the bcrypt hash once stored and is never serialized to JSON.
type User struct {
	Base      `bson:",inline"`
	Email     string      `json:"email" bson:"email" validate:"required,email"`
	Password  string      `json:"-" bson:"password" validate:"required,min=8"`
	FirstName string      `json:"firstName" bson:"firstName" validate:"required"`
	LastName  string      `json:"lastName" bson:"lastName" validate:"required"`
	Role      string      `json:"role" bson:"role" validate:"oneof=user admin"`
	Profile   UserProfile `json:"profile" bson:"profile"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// MarshalJSON adds the computed fullName.
func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	return json.Marshal(struct {
		alias
		FullName string `json:"fullName"`
	}{alias: alias(u), FullName: u.FullName()})
}

func (u *User) Normalize() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	if u.Role == "" {
		u.Role = "user"
	}
}
