package lookups

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBLookup_Map(t *testing.T) {
	createdAt := time.Date(2024, 5, 13, 13, 0, 29, 0, time.UTC)

	testCases := []struct {
		desc string
		row  dbLookup
		want *Lookup
	}{
		{
			desc: "null columns map to empty strings",
			row:  dbLookup{ID: 1, Operation: "geocode", Query: "Paris", Outcome: "found", ResultCount: 1, CreatedAt: createdAt},
			want: &Lookup{ID: 1, Operation: "geocode", Query: "Paris", Outcome: "found", ResultCount: 1, CreatedAt: createdAt},
		},
		{
			desc: "error kind and trace id are kept",
			row: dbLookup{
				ID:        2,
				Operation: "reverse",
				Query:     "1, 2",
				Outcome:   "error",
				ErrorKind: sql.NullString{String: "quota_exceeded", Valid: true},
				TraceID:   sql.NullString{String: "abc", Valid: true},
				CreatedAt: createdAt,
			},
			want: &Lookup{ID: 2, Operation: "reverse", Query: "1, 2", Outcome: "error", ErrorKind: "quota_exceeded", TraceID: "abc", CreatedAt: createdAt},
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.want, tC.row.Map())
		})
	}
}

func TestToDB(t *testing.T) {
	row := toDB(&Lookup{Operation: "geocode", Query: "Paris", Outcome: "not_found"})
	assert.False(t, row.ErrorKind.Valid)
	assert.False(t, row.TraceID.Valid)

	row = toDB(&Lookup{Operation: "geocode", ErrorKind: "service_error", TraceID: "t1"})
	assert.Equal(t, sql.NullString{String: "service_error", Valid: true}, row.ErrorKind)
	assert.Equal(t, sql.NullString{String: "t1", Valid: true}, row.TraceID)
}

func TestDiscard(t *testing.T) {
	var r Repository = Discard{}

	require.NoError(t, r.Record(context.Background(), &Lookup{Operation: "geocode"}))

	got, err := r.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
