package models

// Lab defines a lab course offering from the catalog.
type Lab struct {
	ID         int64  `json:"id" db:"id"`
	LabCode    string `json:"labCode" db:"lab_code"`
	LabName    string `json:"labName" db:"lab_name"`
	Semester   int    `json:"semester" db:"semester"`
	Department string `json:"department" db:"department"`
}
