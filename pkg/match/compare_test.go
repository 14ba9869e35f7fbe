package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExactEqual(t *testing.T) {
	assert.Equal(t, true, ExactEqual(fp("1,3,6,15"), fp("1,3,6,15")))
	assert.Equal(t, false, ExactEqual(fp("1,3,6"), fp("1,3,6,15")))
	assert.Equal(t, false, ExactEqual(fp("1,6,3"), fp("1,3,6")))
	assert.Equal(t, false, ExactEqual(fp(""), fp("1")))
}

func TestSharedOptions(t *testing.T) {
	assert.Equal(t, 3, SharedOptions(fp("1,3,6"), fp("1,3,6,15")))
	assert.Equal(t, 2, SharedOptions(fp("1,1,3"), fp("3,1,1,1")))
	assert.Equal(t, 0, SharedOptions(fp("2,4"), fp("1,3")))
	assert.Equal(t, 0, SharedOptions(fp(""), fp("1,3")))
}

func TestCompare_Symmetric(t *testing.T) {
	samples := []string{"", "1", "1,3,6,15", "15,6,3,1", "1,1,3", "44,46,47", "1,15,3,6,44,46,47,31,33,249,43"}
	for _, a := range samples {
		for _, b := range samples {
			assert.Equal(t, ExactEqual(fp(a), fp(b)), ExactEqual(fp(b), fp(a)), "exact %q %q", a, b)
			assert.Equal(t, SharedOptions(fp(a), fp(b)), SharedOptions(fp(b), fp(a)), "shared %q %q", a, b)
		}
	}
}

func TestNumeric(t *testing.T) {
	assert.Equal(t, 1.0, Numeric(true))
	assert.Equal(t, 0.0, Numeric(false))
	assert.Equal(t, 3.0, Numeric(3))
	assert.Equal(t, 0.5, Numeric(0.5))
	assert.Equal(t, 0.0, Numeric(nil))
	assert.Equal(t, 0.0, Numeric("x"))
}
