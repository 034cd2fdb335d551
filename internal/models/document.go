package models

import "time"

// DocumentType is a known identity or record document kind.
type DocumentType string

const (
	DocumentAadhaar        DocumentType = "Aadhaar"
	DocumentPAN            DocumentType = "PAN"
	DocumentPassport       DocumentType = "Passport"
	DocumentDrivingLicense DocumentType = "Driving License"
	DocumentVoterID        DocumentType = "Voter ID"
	DocumentOther          DocumentType = "Other"
)

// Document is an uploaded file. FileData is the base64 payload as sent by the client.
type Document struct {
	Owned
	DocumentType   DocumentType `json:"document_type" binding:"required,document_type"`
	CustomType     string       `json:"custom_type,omitempty" binding:"max=100"`
	AdditionalInfo string       `json:"additional_info,omitempty" binding:"max=500"`
	FileName       string       `json:"file_name" binding:"required,max=255"`
	FileData       string       `json:"file_data" binding:"required,base64"`
	Tags           []string     `json:"tags" binding:"max=20,dive,max=50"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
