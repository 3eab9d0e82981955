package model

import (
	"time"
)

// Finding is one issue reported by the audit engine for a submitted
// contract. The pipeline never inspects findings beyond counting and
// rendering them.
type Finding = string

// SubmittedFile describes one staged upload for the duration of a request.
// It is never persisted itself; only its path and assigned name end up in
// the audit report.
type SubmittedFile struct {
	OriginalName string // filename as sent by the client
	Name         string // collision-resistant name assigned at intake
	Ext          string // lowercased extension, including the dot
	Path         string // absolute path inside the staging directory
	Size         int64
}

// AuditReport is the persisted record of one submission's outcome.
// Report is nil when dispatch never produced a result, and an empty
// slice when the engine found nothing.
type AuditReport struct {
	ContractName string    `bson:"contractName" json:"contract_name"`
	FilePath     string    `bson:"filePath" json:"file_path"`
	Report       []Finding `bson:"report" json:"report"`
	ArchiveURL   string    `bson:"archiveUrl,omitempty" json:"archive_url,omitempty"`
	ErrorMsg     string    `bson:"errorMsg,omitempty" json:"error_msg,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
}

// Submission status constants
const (
	StatusReceived   = "received"
	StatusValidated  = "validated"
	StatusDispatched = "dispatched"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
)
