package dto

// AddUserRequest represents an admin request to create a single user
type AddUserRequest struct {
	Name           string  `json:"name" binding:"required"`
	Username       string  `json:"username" binding:"required"`
	Password       string  `json:"password" binding:"required"`
	Role           string  `json:"role" binding:"required,oneof=admin faculty student"`
	Department     string  `json:"department"`
	Email          *string `json:"email"`
	Semester       *int    `json:"semester"`
	Section        *string `json:"section"`
	AdmissionYear  *int    `json:"admissionYear"`
	GraduationYear *int    `json:"graduationYear"`
}

// UpdateUserRequest represents a partial user update; nil fields are untouched
type UpdateUserRequest struct {
	Name           *string `json:"name"`
	Password       *string `json:"password"`
	Role           *string `json:"role" binding:"omitempty,oneof=admin faculty student"`
	Department     *string `json:"department"`
	Email          *string `json:"email"`
	Semester       *int    `json:"semester"`
	Section        *string `json:"section"`
	AdmissionYear  *int    `json:"admissionYear"`
	GraduationYear *int    `json:"graduationYear"`
}

// ImportUserRecord is one row of a bulk user import. Password falls back to
// a default when the CSV column is empty.
type ImportUserRecord struct {
	Name           string  `json:"name" binding:"required"`
	Username       string  `json:"username" binding:"required"`
	Password       string  `json:"password"`
	Role           string  `json:"role" binding:"required,oneof=admin faculty student"`
	Department     string  `json:"department"`
	Email          *string `json:"email"`
	Semester       *int    `json:"semester"`
	Section        *string `json:"section"`
	AdmissionYear  *int    `json:"admissionYear"`
	GraduationYear *int    `json:"graduationYear"`
}

// BulkImportUsersRequest carries the client-parsed CSV rows
type BulkImportUsersRequest struct {
	Users []ImportUserRecord `json:"users" binding:"required,min=1,dive"`
}

// BulkImportUsersResponse reports what was created and what was skipped
type BulkImportUsersResponse struct {
	Imported         int      `json:"imported"`
	Skipped          int      `json:"skipped"`
	SkippedUsernames []string `json:"skippedUsernames"`
}

// SemesterRolloverResponse reports the two batch-update phases
type SemesterRolloverResponse struct {
	GraduatedCount   int64 `json:"graduatedCount"`
	IncrementedCount int64 `json:"incrementedCount"`
}
