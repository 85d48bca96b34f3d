package user

import (
	"time"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
	RoleAdmin   = "admin"
)

var (
	AllRoles = []string{RoleStudent, RoleTeacher, RoleParent, RoleAdmin}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Parent", Value: RoleParent},
		{Name: "Admin", Value: RoleAdmin},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// User is the client-side view of an account; the backend copy is
// authoritative.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Grade     string    `json:"grade,omitempty"`
	Division  string    `json:"division,omitempty"`
	StudentID string    `json:"studentId,omitempty"` // short code parents use to link a child
	CreatedAt time.Time `json:"createdAt"` // UTC
}

func (u User) IsStudent() bool { return u.Role == RoleStudent }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsParent() bool  { return u.Role == RoleParent }
func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
