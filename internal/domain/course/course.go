package course

import "time"

// CatalogEntry is one row of the open-enrollment catalog.
type CatalogEntry struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Credits     int    `json:"credits"`
	TeacherID   int    `json:"teacherId"`
	TeacherName string `json:"teacherName"`
	Schedule    string `json:"schedule"`
	MaxSeats    int    `json:"maxSeats"`
	SeatsLeft   int    `json:"seatsLeft"`
}

// UnassignedCourse is a registered course with no teacher yet.
type UnassignedCourse struct {
	ID          int       `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Credits     int       `json:"credits"`
	MaxSeats    int       `json:"maxSeats"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	SeatsLeft   int       `json:"seatsLeft"`
}

// ScheduleEntry is one enrolled course on a student's timetable.
type ScheduleEntry struct {
	CourseCode  string    `json:"courseCode"`
	CourseName  string    `json:"courseName"`
	TeacherName string    `json:"teacherName"`
	Schedule    string    `json:"schedule"`
	EnrolledAt  time.Time `json:"enrolledAt"`
}

// Classmate is a fellow student sharing one of the caller's enrolled
// courses, one row per shared course.
type Classmate struct {
	CourseCode  string `json:"courseCode"`
	CourseName  string `json:"courseName"`
	StudentID   int    `json:"studentId"`
	StudentName string `json:"studentName"`
}

// AssignedCourse is one course on a teacher's roster.
type AssignedCourse struct {
	CourseCode  string `json:"courseCode"`
	CourseName  string `json:"courseName"`
	TeacherName string `json:"teacherName"`
	Schedule    string `json:"schedule"`
	MaxSeats    int    `json:"maxSeats"`
	SeatsLeft   int    `json:"seatsLeft"`
}

// Outcome is the `(ok, message)` row every mutating stored procedure
// returns. Capacity checks, duplicate prevention and credit limits all
// live behind it; this layer only relays the verdict.
type Outcome struct {
	OK         bool   `json:"ok"`
	Message    string `json:"message"`
	CourseCode string `json:"courseCode,omitempty"`
}

// NewCourse is the payload for registering a course in the catalog.
type NewCourse struct {
	Code        string
	Name        string
	Description string
	Credits     int
	MaxSeats    int
	Schedule    string
}
