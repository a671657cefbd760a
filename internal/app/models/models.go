// Package models contains the domain model definitions.
package models

import "fmt"

// Role is the closed set of user roles. Every endpoint is gated on it.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStudent:
		return true
	}
	return false
}

// ParseRole converts a string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// StudentStatus tracks whether a student is still enrolled.
type StudentStatus string

const (
	StatusActive    StudentStatus = "active"
	StatusPassedOut StudentStatus = "passedout"
)

// SemesterType distinguishes the two academic terms of a year.
type SemesterType string

const (
	SemesterOdd  SemesterType = "Odd"
	SemesterEven SemesterType = "Even"
)

// Batch names are restricted to this set; an assignment holds 2 or 3 of them.
var ValidBatchNames = []string{"B1", "B2", "B3"}

// MinSemester and MaxSemester bound the semester range for students and assignments.
const (
	MinSemester = 1
	MaxSemester = 8
)
