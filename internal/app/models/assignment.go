package models

import "time"

// LabAssignment binds a lab to a semester/section for an academic term.
// CohortYears is a point-in-time snapshot taken at creation and never recomputed.
type LabAssignment struct {
	ID           int64        `json:"id" db:"id"`
	LabID        int64        `json:"labId" db:"lab_id"`
	Semester     int          `json:"semester" db:"semester"`
	Section      string       `json:"section" db:"section"`
	CohortYears  string       `json:"cohortYears" db:"cohort_years"`
	AcademicYear string       `json:"academicYear" db:"academic_year"`
	SemesterType SemesterType `json:"semesterType" db:"semester_type"`
	Lab          *Lab         `json:"lab,omitempty"` // relation, no db tag
}

// LabBatch is a named subgroup (B1/B2/B3) of an assignment's students, owned
// by one faculty member, with its own weekly session schedule.
type LabBatch struct {
	ID              int64          `json:"id" db:"id"`
	LabAssignmentID int64          `json:"labAssignmentId" db:"lab_assignment_id"`
	BatchName       string         `json:"batchName" db:"batch_name"`
	FacultyID       int64          `json:"facultyId" db:"faculty_id"`
	StartDate       time.Time      `json:"startDate" db:"start_date"`
	EndDate         time.Time      `json:"endDate" db:"end_date"`
	DayOfWeek       string         `json:"dayOfWeek" db:"day_of_week"`
	GeneratedDates  []time.Time    `json:"generatedDates" db:"generated_dates"`
	Faculty         *User          `json:"faculty,omitempty"`    // relation, no db tag
	Students        []*User        `json:"students,omitempty"`   // relation, no db tag
	Assignment      *LabAssignment `json:"assignment,omitempty"` // relation, no db tag
}
