package dto

// AddLabRequest represents an admin request to create a lab
type AddLabRequest struct {
	LabCode    string `json:"labCode" binding:"required"`
	LabName    string `json:"labName" binding:"required"`
	Semester   int    `json:"semester" binding:"required,min=1,max=8"`
	Department string `json:"department" binding:"required"`
}

// UpdateLabRequest represents a partial lab update; nil fields are untouched
type UpdateLabRequest struct {
	LabCode    *string `json:"labCode"`
	LabName    *string `json:"labName"`
	Semester   *int    `json:"semester" binding:"omitempty,min=1,max=8"`
	Department *string `json:"department"`
}

// BulkImportLabsRequest carries the client-parsed CSV rows
type BulkImportLabsRequest struct {
	Labs []AddLabRequest `json:"labs" binding:"required,min=1,dive"`
}
