package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the persisted identity record. The password field holds the bcrypt
// hash and is never serialized to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name"          json:"name"`
	Email        string             `bson:"email"         json:"email"`
	Password     string             `bson:"password"      json:"-"`
	Phone        string             `bson:"phone"         json:"phone"`
	Age          int                `bson:"age"           json:"age"`
	Mandal       string             `bson:"mandal"        json:"mandal"`
	GuardianName string             `bson:"guardianName"  json:"guardianName"`
	Photo        string             `bson:"photo"         json:"photo,omitempty"`
	Role         string             `bson:"role"          json:"role"`
	CreatedAt    time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

// UserView is the public shape returned by auth and user endpoints.
type UserView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Phone        string `json:"phone,omitempty"`
	Age          int    `json:"age,omitempty"`
	GuardianName string `json:"guardianName,omitempty"`
	Mandal       string `json:"mandal,omitempty"`
}

// View projects the public fields of a user.
func (u *User) View() UserView {
	return UserView{
		ID:           u.ID.Hex(),
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Phone:        u.Phone,
		Age:          u.Age,
		GuardianName: u.GuardianName,
		Mandal:       u.Mandal,
	}
}

type Event struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title        string               `bson:"title"         json:"title"`
	Description  string               `bson:"description"   json:"description"`
	Date         time.Time            `bson:"date"          json:"date"`
	Time         string               `bson:"time"          json:"time"`
	Venue        string               `bson:"venue"         json:"venue"`
	Image        string               `bson:"image"         json:"image,omitempty"`
	MaxAttendees int                  `bson:"maxAttendees"  json:"maxAttendees"`
	Attendees    []primitive.ObjectID `bson:"attendees"     json:"attendees"`
	Category     string               `bson:"category"      json:"category"`
	CreatedBy    string               `bson:"createdBy"     json:"createdBy"`
	CreatedAt    time.Time            `bson:"createdAt"     json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"     json:"updatedAt"`
}

// EventCategories is the closed category set accepted on create/update.
var EventCategories = []string{"spiritual", "cultural", "sports", "educational"}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Author    string             `bson:"author"        json:"author"`
	Content   string             `bson:"content"       json:"content"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
}

type Post struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content    string             `bson:"content"       json:"content"`
	Image      string             `bson:"image"         json:"image,omitempty"`
	Author     string             `bson:"author"        json:"author"`
	Likes      []string           `bson:"likes"         json:"likes"`
	Comments   []Comment          `bson:"comments"      json:"comments"`
	IsApproved bool               `bson:"isApproved"    json:"isApproved"`
	CreatedAt  time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title"         json:"title"`
	Description string             `bson:"description"   json:"description"`
	Type        string             `bson:"type"          json:"type"`
	Priority    string             `bson:"priority"      json:"priority"`
	// Empty recipients means broadcast to all members.
	Recipients []string  `bson:"recipients" json:"recipients"`
	ReadBy     []string  `bson:"readBy"     json:"readBy"`
	CreatedBy  string    `bson:"createdBy"  json:"createdBy"`
	CreatedAt  time.Time `bson:"createdAt"  json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"  json:"updatedAt"`
}

var (
	NotificationTypes      = []string{"important", "event", "success", "reminder", "info"}
	NotificationPriorities = []string{"high", "medium", "low"}
)

type Mentor struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"  json:"id"`
	Name           string             `bson:"name"           json:"name"`
	Role           string             `bson:"role"           json:"role"`
	Description    string             `bson:"description"    json:"description"`
	Image          string             `bson:"image"          json:"image,omitempty"`
	Email          string             `bson:"email"          json:"email,omitempty"`
	Phone          string             `bson:"phone"          json:"phone,omitempty"`
	Specialization []string           `bson:"specialization" json:"specialization"`
	Experience     int                `bson:"experience"     json:"experience"`
	IsActive       bool               `bson:"isActive"       json:"isActive"`
	Order          int                `bson:"order"          json:"order"`
	CreatedAt      time.Time          `bson:"createdAt"      json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"      json:"updatedAt"`
}

type Participant struct {
	Name   string `bson:"name"             json:"name"`
	UserID string `bson:"userId,omitempty" json:"userId,omitempty"`
}

type Achievement struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title"         json:"title"`
	Description  string             `bson:"description"   json:"description"`
	Category     string             `bson:"category"      json:"category"`
	Level        string             `bson:"level"         json:"level"`
	Position     string             `bson:"position"      json:"position,omitempty"`
	Date         time.Time          `bson:"date"          json:"date"`
	Participants []Participant      `bson:"participants"  json:"participants"`
	Image        string             `bson:"image"         json:"image,omitempty"`
	Certificate  string             `bson:"certificate"   json:"certificate,omitempty"`
	IsActive     bool               `bson:"isActive"      json:"isActive"`
	CreatedBy    string             `bson:"createdBy"     json:"createdBy"`
	CreatedAt    time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

var (
	AchievementCategories = []string{"academic", "cultural", "sports", "spiritual", "community", "other"}
	AchievementLevels     = []string{"local", "regional", "state", "national", "international"}
)

type Attendance struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user"          json:"user"`
	Date      time.Time          `bson:"date"          json:"date"`
	Mandal    string             `bson:"mandal"        json:"mandal"`
	Status    string             `bson:"status"        json:"status"`
	MarkedBy  string             `bson:"markedBy"      json:"markedBy"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

// ActivityLog records an admin or member action for the back-office audit
// trail.
type ActivityLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"      json:"id"`
	Action      string             `bson:"action"             json:"action"`
	PerformedBy string             `bson:"performedBy"        json:"performedBy"`
	Target      string             `bson:"target,omitempty"   json:"target,omitempty"`
	TargetID    string             `bson:"targetId,omitempty" json:"targetId,omitempty"`
	Details     map[string]any     `bson:"details,omitempty"  json:"details,omitempty"`
	Timestamp   time.Time          `bson:"timestamp"          json:"timestamp"`
}
