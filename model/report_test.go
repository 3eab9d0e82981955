package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

func TestAuditReportNoResultMarker(t *testing.T) {
	// A report with a nil findings slice is the "dispatch never produced a
	// result" marker and must persist as null, not as an empty list
	report := AuditReport{
		ContractName: "1700000000000.rs",
		FilePath:     "/uploads/1700000000000.rs",
		Report:       nil,
		ErrorMsg:     "audit engine unavailable",
		CreatedAt:    time.Now(),
	}

	data, err := bson.Marshal(report)
	if err != nil {
		t.Fatalf("Failed to marshal report: %v", err)
	}

	raw := bson.Raw(data)
	val, err := raw.LookupErr("report")
	if err != nil {
		t.Fatalf("Expected report field in document: %v", err)
	}
	if val.Type != bsontype.Null {
		t.Errorf("Expected null report, got %s", val.Type)
	}
}

func TestAuditReportEmptyFindings(t *testing.T) {
	report := AuditReport{
		ContractName: "1700000000000.rs",
		FilePath:     "/uploads/1700000000000.rs",
		Report:       []Finding{},
		CreatedAt:    time.Now(),
	}

	data, err := bson.Marshal(report)
	if err != nil {
		t.Fatalf("Failed to marshal report: %v", err)
	}

	raw := bson.Raw(data)
	val, err := raw.LookupErr("report")
	if err != nil {
		t.Fatalf("Expected report field in document: %v", err)
	}
	if val.Type != bsontype.Array {
		t.Errorf("Expected array report for a clean audit, got %s", val.Type)
	}
}

func TestAuditReportOmitsEmptyOptionalFields(t *testing.T) {
	report := AuditReport{
		ContractName: "1700000000000.rs",
		FilePath:     "/uploads/1700000000000.rs",
		Report:       []Finding{"reentrancy at line 42"},
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Failed to marshal report: %v", err)
	}

	out := string(data)
	if strings.Contains(out, "error_msg") {
		t.Errorf("Expected error_msg omitted when empty, got %s", out)
	}
	if strings.Contains(out, "archive_url") {
		t.Errorf("Expected archive_url omitted when empty, got %s", out)
	}
	if !strings.Contains(out, "reentrancy at line 42") {
		t.Errorf("Expected finding in output, got %s", out)
	}
}
