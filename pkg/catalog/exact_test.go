package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vulntor/fingerbank/pkg/fingerprint"
)

func TestExactIndex(t *testing.T) {
	a := &fingerprint.Entry{ID: 1, Fingerprints: []fingerprint.Fingerprint{
		fingerprint.MustParse("1,3,6,15"),
		fingerprint.MustParse("1,3,6,15,44"),
	}}
	b := &fingerprint.Entry{ID: 2, Fingerprints: []fingerprint.Fingerprint{
		fingerprint.MustParse("1,3,6,15,44"),
	}}

	idx := NewExactIndex([]*fingerprint.Entry{a, b})
	assert.Equal(t, 2, idx.Len())

	got, ok := idx.Get(fingerprint.MustParse("1,3,6,15"))
	assert.True(t, ok)
	assert.Same(t, a, got)

	got, ok = idx.Get(fingerprint.MustParse("1,3,6,15,44"))
	assert.True(t, ok)
	assert.Same(t, b, got, "later entry wins")

	_, ok = idx.Get(fingerprint.MustParse("1,3,6"))
	assert.False(t, ok)

	_, ok = idx.Get(fingerprint.Fingerprint{})
	assert.False(t, ok)

	idx.Put(fingerprint.MustParse("1,3,6"), a)
	got, ok = idx.Get(fingerprint.MustParse("1,3,6"))
	assert.True(t, ok)
	assert.Same(t, a, got)
}
