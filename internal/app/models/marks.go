package models

import "time"

// Marks is the per-student, per-batch ledger record. WeeklyMarks holds at most
// one entry per calendar date; repeated submissions for a date overwrite it.
type Marks struct {
	ID          int64        `json:"id" db:"id"`
	StudentID   int64        `json:"studentId" db:"student_id"`
	LabBatchID  int64        `json:"labBatchId" db:"lab_batch_id"`
	EnteredBy   int64        `json:"enteredBy" db:"entered_by"`
	WeeklyMarks []WeeklyMark `json:"weeklyMarks,omitempty"`
	Student     *User        `json:"student,omitempty"` // relation, no db tag
}

// WeeklyMark is one dated rubric-score row. Rubric fields are nullable; T is
// the total, either supplied explicitly or derived as the sum of the others.
type WeeklyMark struct {
	ID      int64     `json:"id" db:"id"`
	MarksID int64     `json:"-" db:"marks_id"`
	Date    time.Time `json:"date" db:"entry_date"`
	Pr      *float64  `json:"Pr" db:"pr"`
	PE      *float64  `json:"PE" db:"pe"`
	P       *float64  `json:"P" db:"p"`
	R       *float64  `json:"R" db:"r"`
	C       *float64  `json:"C" db:"c"`
	T       *float64  `json:"T" db:"t"`
}
