package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_SetsTrimmedValues(t *testing.T) {
	var r CaseRecord
	r.Merge(Delta{
		FieldFullName: "  John Smith  ",
		FieldContact:  "555-1234",
	})

	assert.Equal(t, "John Smith", r.FullName)
	assert.Equal(t, "555-1234", r.Contact)
}

func TestMerge_Monotonic(t *testing.T) {
	var r CaseRecord
	r.Merge(Delta{FieldDescription: "car accident"})

	// Empty and whitespace values never clear a known field.
	r.Merge(Delta{FieldDescription: ""})
	assert.Equal(t, "car accident", r.Description)

	r.Merge(Delta{FieldDescription: "   "})
	assert.Equal(t, "car accident", r.Description)

	// A non-empty value may replace it.
	r.Merge(Delta{FieldDescription: "rear-end collision"})
	assert.Equal(t, "rear-end collision", r.Description)
}

func TestNextMissing_Order(t *testing.T) {
	var r CaseRecord

	f, ok := r.NextMissing()
	require.True(t, ok)
	assert.Equal(t, FieldDescription, f)

	r.Description = "slip and fall"
	f, ok = r.NextMissing()
	require.True(t, ok)
	assert.Equal(t, FieldDateOfIncident, f)

	r.DateOfIncidentRaw = "yesterday"
	f, ok = r.NextMissing()
	require.True(t, ok)
	assert.Equal(t, FieldFullName, f)

	r.FullName = "Jane Doe"
	f, ok = r.NextMissing()
	require.True(t, ok)
	assert.Equal(t, FieldContact, f)

	r.Contact = "jane@example.com"
	_, ok = r.NextMissing()
	assert.False(t, ok)
}

func TestComplete_IgnoresCaseType(t *testing.T) {
	r := CaseRecord{
		FullName:          "Jane Doe",
		Contact:           "jane@example.com",
		DateOfIncidentRaw: "last Monday",
		Description:       "slip and fall",
	}
	assert.True(t, r.Complete(), "case type is not part of the field order")
}

func TestKnownField(t *testing.T) {
	f, ok := KnownField("Full Name")
	require.True(t, ok)
	assert.Equal(t, FieldFullName, f)

	_, ok = KnownField("Favorite Color")
	assert.False(t, ok)
}

func TestSnapshot(t *testing.T) {
	r := CaseRecord{Description: "dog bite", CaseType: "Personal Injury"}
	snap := r.Snapshot()

	assert.Len(t, snap, 5)
	assert.Equal(t, "dog bite", snap["Description"])
	assert.Equal(t, "Personal Injury", snap["Case Type"])
	assert.Equal(t, "", snap["Full Name"])
}

func TestSessionState(t *testing.T) {
	sess := &Session{ID: "s1"}
	assert.Equal(t, StateCollecting, sess.State())

	sess.Record = CaseRecord{
		FullName:          "Jane Doe",
		Contact:           "555-0000",
		DateOfIncidentRaw: "yesterday",
		Description:       "car accident",
	}
	assert.Equal(t, StateComplete, sess.State())

	sess.Committed = true
	assert.Equal(t, StateCommitted, sess.State())
}
