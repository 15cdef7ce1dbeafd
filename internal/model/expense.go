// Package model defines the core domain types shared across the application.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status represents the review state of an expense.
type Status string

// Expense statuses.
const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusReimbursed Status = "reimbursed"
	StatusEscalated  Status = "escalated"
	StatusDraft      Status = "draft"
)

// Priority represents the urgency assigned to an expense.
type Priority string

// Expense priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Attachment is a reference to an uploaded receipt or supporting file.
type Attachment struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// Amount is an expense amount in the submitter's currency.
//
// Submissions arrive from loosely-typed clients, so decoding is lenient:
// JSON numbers, numeric strings, null, and garbage all decode without error,
// with anything unparseable collapsing to zero.
type Amount float64

// UnmarshalJSON accepts numbers and numeric strings; invalid input becomes 0.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(v)
	return nil
}

// ParseAmount coerces a string to an Amount, returning 0 for invalid input.
func ParseAmount(s string) Amount {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return Amount(v)
}

// Expense represents a single submitted expense record.
type Expense struct {
	ID           string       `json:"id"`
	Employee     string       `json:"employee"`
	Department   string       `json:"department"`
	Amount       Amount       `json:"amount"`
	Date         string       `json:"date"`
	Category     string       `json:"category"`
	Status       Status       `json:"status"`
	Priority     Priority     `json:"priority"`
	Description  string       `json:"description"`
	HasComments  bool         `json:"hasComments"`
	CommentCount int          `json:"commentCount"`
	SubmittedAt  string       `json:"submittedAt"`
	SubmittedBy  string       `json:"submittedBy"`
	Files        []Attachment `json:"files"`
}

// NewID generates an expense identifier in the EXP-<year>-<epoch millis> form
// used by both the local store and the API.
func NewID(now time.Time) string {
	return fmt.Sprintf("EXP-%d-%d", now.Year(), now.UnixMilli())
}

// ApplyDefaults fills in every unset field with its submission default. The
// record is left untouched where values are already present, so calling it on
// a fully-populated record is a no-op.
func (e *Expense) ApplyDefaults(now time.Time) {
	if e.ID == "" {
		e.ID = NewID(now)
	}
	if e.Employee == "" {
		e.Employee = "Unknown"
	}
	if e.Date == "" {
		e.Date = now.Format("2006-01-02")
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	if e.Priority == "" {
		e.Priority = PriorityMedium
	}
	if e.SubmittedAt == "" {
		e.SubmittedAt = now.Format(time.RFC3339)
	}
	if e.Files == nil {
		e.Files = []Attachment{}
	}
}

// Patch is a merge-patch for an expense: only non-nil fields are applied.
type Patch struct {
	Employee     *string       `json:"employee,omitempty"`
	Department   *string       `json:"department,omitempty"`
	Amount       *Amount       `json:"amount,omitempty"`
	Date         *string       `json:"date,omitempty"`
	Category     *string       `json:"category,omitempty"`
	Status       *Status       `json:"status,omitempty"`
	Priority     *Priority     `json:"priority,omitempty"`
	Description  *string       `json:"description,omitempty"`
	HasComments  *bool         `json:"hasComments,omitempty"`
	CommentCount *int          `json:"commentCount,omitempty"`
	SubmittedAt  *string       `json:"submittedAt,omitempty"`
	SubmittedBy  *string       `json:"submittedBy,omitempty"`
	Files        *[]Attachment `json:"files,omitempty"`
}

// Apply overlays the patch onto the expense. Fields left nil in the patch
// survive unchanged; the record's ID is never modified.
func (p Patch) Apply(e *Expense) {
	if p.Employee != nil {
		e.Employee = *p.Employee
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Priority != nil {
		e.Priority = *p.Priority
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.HasComments != nil {
		e.HasComments = *p.HasComments
	}
	if p.CommentCount != nil {
		e.CommentCount = *p.CommentCount
	}
	if p.SubmittedAt != nil {
		e.SubmittedAt = *p.SubmittedAt
	}
	if p.SubmittedBy != nil {
		e.SubmittedBy = *p.SubmittedBy
	}
	if p.Files != nil {
		e.Files = *p.Files
	}
}

// MarshalJSON guarantees files serializes as an array, never null.
func (e Expense) MarshalJSON() ([]byte, error) {
	type alias Expense
	out := alias(e)
	if out.Files == nil {
		out.Files = []Attachment{}
	}
	return json.Marshal(out)
}
