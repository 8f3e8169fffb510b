// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Lifecycle status markers carried by credential extracts.
const (
	StatusActive     = "A"
	StatusTerminated = "T"
)

// Comparison flag markers. A record marked FlagSelected is the one whose
// login pair gets classified; FlagUnselected records only contribute to
// group eligibility.
const (
	FlagSelected   = "Y"
	FlagUnselected = "N"
)

// Record is a single employee credential row from an extract: one
// (employee, role) pairing with the login recorded in each environment.
type Record struct {
	ImportedAt time.Time
	ID         string
	EmpID      string
	EmpType    string
	DevLogin   *string // nil when the extract had no value
	UATLogin   *string // nil when the extract had no value
	Status     string
	Flag       string
	Source     string // originating extract file, for audit trail
}

// GroupKey identifies the reconciliation group a record belongs to.
// All records sharing the same key form one group.
type GroupKey struct {
	EmpID   string
	EmpType string
}

// Key returns the record's group key.
func (r *Record) Key() GroupKey {
	return GroupKey{EmpID: r.EmpID, EmpType: r.EmpType}
}

// GenerateHash creates a content hash used as the record ID for
// idempotent re-imports.
func (r *Record) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		r.EmpID,
		r.EmpType,
		deref(r.DevLogin),
		deref(r.UATLogin),
		r.Status,
		r.Flag)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
