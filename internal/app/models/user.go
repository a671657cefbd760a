package models

// User defines the user model based on the 'users' table.
// Semester, section, cohort years and status only apply to students.
type User struct {
	ID             int64          `json:"id" db:"id"`
	Name           string         `json:"name" db:"name"`
	Username       string         `json:"username" db:"username"`
	Password       string         `json:"-" db:"password"` // hashed credential, excluded from JSON
	Role           Role           `json:"role" db:"role"`
	Department     string         `json:"department,omitempty" db:"department"`
	Email          *string        `json:"email,omitempty" db:"email"`
	Semester       *int           `json:"semester,omitempty" db:"semester"`
	Section        *string        `json:"section,omitempty" db:"section"`
	AdmissionYear  *int           `json:"admissionYear,omitempty" db:"admission_year"`
	GraduationYear *int           `json:"graduationYear,omitempty" db:"graduation_year"`
	Status         *StudentStatus `json:"status,omitempty" db:"status"`
}
