package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulntor/fingerbank/pkg/fingerprint"
)

func class(id int, ranges ...fingerprint.Range) *fingerprint.Class {
	return &fingerprint.Class{ID: id, Description: "class", Ranges: ranges}
}

func rng(lo, hi int) fingerprint.Range {
	return fingerprint.Range{Lo: lo, Hi: hi}
}

func TestRangeIndex_Lookup(t *testing.T) {
	idx, err := NewRangeIndex([]*fingerprint.Class{
		class(3, rng(300, 399), rng(1200, 1250)),
		class(1, rng(1, 99)),
		class(2, rng(100, 199)),
	})
	require.NoError(t, err)
	require.Equal(t, 4, idx.Len())

	tests := []struct {
		id    int
		class int
		found bool
	}{
		{id: 0, found: false},
		{id: 1, class: 1, found: true},
		{id: 99, class: 1, found: true},
		{id: 100, class: 2, found: true},
		{id: 250, found: false},
		{id: 300, class: 3, found: true},
		{id: 1225, class: 3, found: true},
		{id: 1251, found: false},
		{id: -5, found: false},
	}

	for _, tt := range tests {
		got, ok := idx.Lookup(tt.id)
		assert.Equal(t, tt.found, ok, "id %d", tt.id)
		if tt.found {
			assert.Equal(t, tt.class, got.ID, "id %d", tt.id)
		}
	}
}

func TestRangeIndex_SpansSorted(t *testing.T) {
	idx, err := NewRangeIndex([]*fingerprint.Class{
		class(2, rng(60, 70), rng(10, 20)),
		class(1, rng(30, 40)),
	})
	require.NoError(t, err)

	assert.Equal(t, []Span{
		{ClassID: 2, Range: rng(10, 20)},
		{ClassID: 1, Range: rng(30, 40)},
		{ClassID: 2, Range: rng(60, 70)},
	}, idx.Spans())
}

func TestRangeIndex_Overlap(t *testing.T) {
	tests := []struct {
		name    string
		classes []*fingerprint.Class
		first   Span
		second  Span
	}{
		{
			name:    "partial",
			classes: []*fingerprint.Class{class(1, rng(1, 50)), class(2, rng(40, 60))},
			first:   Span{ClassID: 1, Range: rng(1, 50)},
			second:  Span{ClassID: 2, Range: rng(40, 60)},
		},
		{
			name:    "shared bound",
			classes: []*fingerprint.Class{class(1, rng(1, 50)), class(2, rng(50, 60))},
			first:   Span{ClassID: 1, Range: rng(1, 50)},
			second:  Span{ClassID: 2, Range: rng(50, 60)},
		},
		{
			name:    "contained",
			classes: []*fingerprint.Class{class(1, rng(10, 20)), class(2, rng(1, 100))},
			first:   Span{ClassID: 2, Range: rng(1, 100)},
			second:  Span{ClassID: 1, Range: rng(10, 20)},
		},
		{
			name:    "within one class",
			classes: []*fingerprint.Class{class(4, rng(1, 10), rng(5, 7))},
			first:   Span{ClassID: 4, Range: rng(1, 10)},
			second:  Span{ClassID: 4, Range: rng(5, 7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRangeIndex(tt.classes)
			require.ErrorIs(t, err, ErrRangeOverlap)

			var overlap *RangeOverlapError
			require.ErrorAs(t, err, &overlap)
			assert.Equal(t, tt.first, overlap.First)
			assert.Equal(t, tt.second, overlap.Second)
		})
	}
}

func TestRangeIndex_Adjacent(t *testing.T) {
	idx, err := NewRangeIndex([]*fingerprint.Class{class(1, rng(1, 50)), class(2, rng(51, 100))})
	require.NoError(t, err)

	got, ok := idx.Lookup(51)
	require.True(t, ok)
	assert.Equal(t, 2, got.ID)
}

func TestRangeIndex_Empty(t *testing.T) {
	idx, err := NewRangeIndex(nil)
	require.NoError(t, err)
	assert.Zero(t, idx.Len())

	_, ok := idx.Lookup(1)
	assert.False(t, ok)
}
