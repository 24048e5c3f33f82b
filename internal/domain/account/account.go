package account

import "time"

// Role names as stored in the roles table.
const (
	RoleStudent = "Student"
	RoleTeacher = "Teacher"
	RoleAdmin   = "Admin"
)

// Account is the identity record joined with its role and, when the role
// calls for it, a profile sub-record. Presence invariants: Student is
// non-nil iff Role == RoleStudent, Teacher is non-nil iff Role == RoleTeacher.
type Account struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`

	Student *StudentProfile `json:"student,omitempty"`
	Teacher *TeacherProfile `json:"teacher,omitempty"`
}

// StudentProfile is owned by the enrollment subsystem; this layer only
// reads it.
type StudentProfile struct {
	ID               int `json:"id"`
	CreditsAvailable int `json:"creditsAvailable"`
}

type TeacherProfile struct {
	ID int `json:"id"`
}

// Summary is the public shape returned by registration: no hash, no
// password, ever.
type Summary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
