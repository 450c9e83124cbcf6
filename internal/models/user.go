package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// ParseRole maps a free-form role request to a Role, defaulting to User.
func ParseRole(s string) Role {
	if s == "admin" || s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

type Profile struct {
	Avatar            *string `bson:"avatar" json:"avatar"`
	Bio               *string `bson:"bio" json:"bio"`
	PreferredLanguage *string `bson:"preferred_language" json:"preferred_language"`
	Country           *string `bson:"country" json:"country"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PhoneNumber  string             `bson:"phone_number" json:"phone_number"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	Profile      Profile            `bson:"profile" json:"profile"`
	XP           int                `bson:"xp" json:"xp"`
	// QuizHistory holds the session tokens of finished quizzes, append-only.
	QuizHistory []string `bson:"quiz_history" json:"quiz_history"`
}

// UserResponse is the client-facing view of a user, without the credential hash.
type UserResponse struct {
	ID          string   `json:"id"`
	PhoneNumber string   `json:"phone_number"`
	Username    string   `json:"username"`
	Role        Role     `json:"role"`
	Profile     Profile  `json:"profile"`
	XP          int      `json:"xp"`
	QuizHistory []string `json:"quiz_history"`
}

func (u *User) Response() UserResponse {
	history := u.QuizHistory
	if history == nil {
		history = []string{}
	}
	return UserResponse{
		ID:          u.ID.Hex(),
		PhoneNumber: u.PhoneNumber,
		Username:    u.Username,
		Role:        u.Role,
		Profile:     u.Profile,
		XP:          u.XP,
		QuizHistory: history,
	}
}
