package catalog

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulntor/fingerbank/pkg/fingerprint"
	"github.com/vulntor/fingerbank/pkg/grammar"
)

func TestBuildRecords_DocumentOrder(t *testing.T) {
	doc, err := grammar.ParseString(`[os 3]
description = c
fingerprints = 3
[class 9]
description = nine
members = 5
[os 1]
description = a
fingerprints = 1
`)
	require.NoError(t, err)

	recs, err := BuildRecords(doc, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, recs.Entries, 2)
	assert.Equal(t, 3, recs.Entries[0].ID)
	assert.Equal(t, 1, recs.Entries[1].ID)

	require.Len(t, recs.Classes, 1)
	assert.Equal(t, []fingerprint.Range{{Lo: 5, Hi: 5}}, recs.Classes[0].Ranges)
}

func TestBuildRecords_LogsSkippedEntries(t *testing.T) {
	doc, err := grammar.ParseString("[os 1]\ndescription = broken\nfingerprints =\n")
	require.NoError(t, err)

	var buf bytes.Buffer
	recs, err := BuildRecords(doc, zerolog.New(&buf))
	require.NoError(t, err)

	assert.Empty(t, recs.Entries)
	require.Len(t, recs.Skipped, 1)
	assert.ErrorIs(t, recs.Skipped[0], ErrInvalidValue)
	assert.Equal(t, 1, recs.Skipped[0].Line)
	assert.Contains(t, buf.String(), "skipping catalog entry")
	assert.Contains(t, buf.String(), `"section":"os 1"`)
}

func TestParseFingerprintLines(t *testing.T) {
	fps, err := parseFingerprintLines("1,2,3\n\n  4, 5 \n")
	require.NoError(t, err)
	require.Len(t, fps, 2)
	assert.Equal(t, "1,2,3", fps[0].String())
	assert.Equal(t, "4,5", fps[1].String())

	_, err = parseFingerprintLines("\n \n")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = parseFingerprintLines("1,-2")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseMembers(t *testing.T) {
	tests := []struct {
		in      string
		want    []fingerprint.Range
		wantErr bool
	}{
		{in: "1-50", want: []fingerprint.Range{{Lo: 1, Hi: 50}}},
		{in: " 1 - 50 , 60-70", want: []fingerprint.Range{{Lo: 1, Hi: 50}, {Lo: 60, Hi: 70}}},
		{in: "7", want: []fingerprint.Range{{Lo: 7, Hi: 7}}},
		{in: "7-7,", want: []fingerprint.Range{{Lo: 7, Hi: 7}}},
		{in: "10-1", wantErr: true},
		{in: "1-", wantErr: true},
		{in: "", wantErr: true},
		{in: "one-two", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseMembers(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidValue, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
