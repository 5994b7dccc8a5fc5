// Package domain holds the case-intake data model: the fixed field set,
// the monotonic merge rules, and the session container.
package domain

import "strings"

// Field names a single intake field. The values are the wire names used in
// structured fragments exchanged with the model, so fragment keys map onto
// the record without translation.
type Field string

const (
	FieldFullName       Field = "Full Name"
	FieldContact        Field = "Contact"
	FieldCaseType       Field = "Case Type"
	FieldDateOfIncident Field = "Date of Incident"
	FieldDescription    Field = "Description"
)

// FieldOrder is the priority sequence for deciding which field to request
// next. Narrative content comes before administrative identity fields so the
// early conversation stays natural.
var FieldOrder = []Field{
	FieldDescription,
	FieldDateOfIncident,
	FieldFullName,
	FieldContact,
}

// KnownField reports whether s is one of the five recognized field names.
func KnownField(s string) (Field, bool) {
	switch Field(s) {
	case FieldFullName, FieldContact, FieldCaseType, FieldDateOfIncident, FieldDescription:
		return Field(s), true
	}
	return "", false
}

// Delta is a partial mapping of field to newly observed value, produced by a
// single extraction pass.
type Delta map[Field]string

// CaseRecord is the five-field intake record accumulated across a
// conversation. Empty string means unknown; a field is known iff its trimmed
// value is non-empty.
type CaseRecord struct {
	FullName          string `json:"fullName"`
	Contact           string `json:"contact"`
	CaseType          string `json:"caseType"`
	DateOfIncidentRaw string `json:"dateOfIncidentRaw"`
	Description       string `json:"description"`
}

// Value returns the current value for a field.
func (r *CaseRecord) Value(f Field) string {
	switch f {
	case FieldFullName:
		return r.FullName
	case FieldContact:
		return r.Contact
	case FieldCaseType:
		return r.CaseType
	case FieldDateOfIncident:
		return r.DateOfIncidentRaw
	case FieldDescription:
		return r.Description
	}
	return ""
}

func (r *CaseRecord) set(f Field, v string) {
	switch f {
	case FieldFullName:
		r.FullName = v
	case FieldContact:
		r.Contact = v
	case FieldCaseType:
		r.CaseType = v
	case FieldDateOfIncident:
		r.DateOfIncidentRaw = v
	case FieldDescription:
		r.Description = v
	}
}

// Merge applies a delta monotonically: a trimmed non-empty value overwrites
// the field, an empty or whitespace value is skipped. A known value is never
// cleared by a merge, only replaced by another non-empty value.
func (r *CaseRecord) Merge(d Delta) {
	for f, v := range d {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		r.set(f, v)
	}
}

// NextMissing returns the earliest empty field per FieldOrder. ok is false
// when every field is populated, which is the completion signal.
func (r *CaseRecord) NextMissing() (Field, bool) {
	for _, f := range FieldOrder {
		if strings.TrimSpace(r.Value(f)) == "" {
			return f, true
		}
	}
	return "", false
}

// Complete reports whether all fields in FieldOrder are populated.
// Note CaseType is filled by extraction but is not part of FieldOrder, so it
// is never asked for and does not gate completion.
func (r *CaseRecord) Complete() bool {
	_, missing := r.NextMissing()
	return !missing
}

// Snapshot returns the record as a wire-name keyed map, the shape embedded
// in responder prompts and returned by the gateway.
func (r *CaseRecord) Snapshot() map[string]string {
	snap := make(map[string]string, 5)
	for _, f := range []Field{FieldFullName, FieldContact, FieldCaseType, FieldDateOfIncident, FieldDescription} {
		snap[string(f)] = r.Value(f)
	}
	return snap
}
