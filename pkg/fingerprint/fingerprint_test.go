package fingerprint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Fingerprint
		wantErr error
	}{
		{name: "simple", input: "1,3,6,15", want: Fingerprint{1, 3, 6, 15}},
		{name: "spaces", input: " 1, 3 ,6 ", want: Fingerprint{1, 3, 6}},
		{name: "empty", input: "", want: Fingerprint{}},
		{name: "blank", input: "   ", want: Fingerprint{}},
		{name: "single", input: "252", want: Fingerprint{252}},
		{name: "duplicates kept", input: "1,1,3", want: Fingerprint{1, 1, 3}},
		{name: "empty token", input: "1,,3", wantErr: ErrEmptyCode},
		{name: "trailing comma", input: "1,3,", wantErr: ErrEmptyCode},
		{name: "negative", input: "1,-3", wantErr: ErrInvalidCode},
		{name: "not a number", input: "1,x", wantErr: ErrInvalidCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFingerprint_StringIsCanonical(t *testing.T) {
	fp := MustParse(" 1, 03 ,6")
	assert.Equal(t, "1,3,6", fp.String())
	assert.Equal(t, fp.String(), fp.Key())
	assert.Equal(t, "", Fingerprint{}.String())
}

func TestFingerprint_Equal(t *testing.T) {
	assert.True(t, MustParse("1,3,6").Equal(MustParse("1,3,6")))
	assert.False(t, MustParse("1,3,6").Equal(MustParse("1,6,3")))
	assert.False(t, MustParse("1,3,6").Equal(MustParse("1,3")))
	assert.True(t, Fingerprint{}.Equal(nil))
}

func TestFingerprint_SetAndCounts(t *testing.T) {
	fp := MustParse("1,3,1,6,3,1")
	assert.Len(t, fp.Set(), 3)
	assert.Equal(t, map[int]int{1: 3, 3: 2, 6: 1}, fp.Counts())
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("a,b") })
}

func TestRange(t *testing.T) {
	r := Range{Lo: 10, Hi: 20}
	assert.True(t, r.Contains(10))
	assert.True(t, r.Contains(20))
	assert.False(t, r.Contains(21))
	assert.True(t, r.Overlaps(Range{Lo: 20, Hi: 30}))
	assert.False(t, r.Overlaps(Range{Lo: 21, Hi: 30}))
	assert.True(t, r.Overlaps(Range{Lo: 1, Hi: 100}))
	assert.Equal(t, "10-20", r.String())
}

func TestClass_Includes(t *testing.T) {
	c := &Class{ID: 4, Description: "Routers", Ranges: []Range{{1, 199}, {1200, 1250}, {76, 76}}}
	assert.True(t, c.Includes(76))
	assert.True(t, c.Includes(1225))
	assert.False(t, c.Includes(500))
	assert.Equal(t, "class 4 (Routers)", c.String())
}
