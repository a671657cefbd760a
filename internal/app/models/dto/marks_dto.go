package dto

import "time"

// MarkEntryRequest is one student's rubric scores for a session date.
// Rubric fields use OptionalNumber so that an omitted T can be derived while
// an explicit null T clears the total.
type MarkEntryRequest struct {
	StudentID int64          `json:"studentId" binding:"required"`
	Pr        OptionalNumber `json:"Pr"`
	PE        OptionalNumber `json:"PE"`
	P         OptionalNumber `json:"P"`
	R         OptionalNumber `json:"R"`
	C         OptionalNumber `json:"C"`
	T         OptionalNumber `json:"T"`
}

// EnterMarksRequest upserts the weekly entries for a batch on one date
type EnterMarksRequest struct {
	LabBatchID int64              `json:"labBatchId" binding:"required"`
	Date       string             `json:"date" binding:"required"`
	Marks      []MarkEntryRequest `json:"marks" binding:"required,min=1,dive"`
}

// MarkEntryResult reports the outcome of one entry of the enter-marks loop.
// Entries are processed independently; earlier successes are not rolled back.
type MarkEntryResult struct {
	StudentID int64  `json:"studentId"`
	Ok        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// EnterMarksResponse lists the per-entry outcomes
type EnterMarksResponse struct {
	Results []MarkEntryResult `json:"results"`
}

// MarksHistoryRow is one flat (student, date) row of a batch's history
type MarksHistoryRow struct {
	StudentID int64          `json:"studentId"`
	Student   StudentSummary `json:"student"`
	Date      time.Time      `json:"date"`
	Pr        *float64       `json:"Pr"`
	PE        *float64       `json:"PE"`
	P         *float64       `json:"P"`
	R         *float64       `json:"R"`
	C         *float64       `json:"C"`
	T         *float64       `json:"T"`
}

// MarkSession is one dated session in the student's own view
type MarkSession struct {
	Date      time.Time `json:"date"`
	Pr        *float64  `json:"Pr"`
	PE        *float64  `json:"PE"`
	P         *float64  `json:"P"`
	R         *float64  `json:"R"`
	C         *float64  `json:"C"`
	T         *float64  `json:"T"`
	EnteredBy string    `json:"enteredBy"`
}

// AverageMarks holds per-column means over non-null values, "%.2f" or "N/A"
type AverageMarks struct {
	Pr string `json:"Pr"`
	PE string `json:"PE"`
	P  string `json:"P"`
	R  string `json:"R"`
	C  string `json:"C"`
	T  string `json:"T"`
}

// StudentLabMarks groups a student's sessions under one lab
type StudentLabMarks struct {
	LabID        int64         `json:"labId"`
	LabName      string        `json:"labName"`
	Faculty      string        `json:"faculty"`
	DayOfWeek    string        `json:"dayOfWeek"`
	Sessions     []MarkSession `json:"sessions"`
	AverageMarks AverageMarks  `json:"averageMarks"`
}
