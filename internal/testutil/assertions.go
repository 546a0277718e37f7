package testutil

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

// AssertVecInDelta compares two vectors component-wise within delta
func AssertVecInDelta(t *testing.T, expected, actual mgl64.Vec3, delta float64, msgAndArgs ...interface{}) bool {
	t.Helper()

	ok := true
	for i := range expected {
		ok = assert.InDelta(t, expected[i], actual[i], delta, msgAndArgs...) && ok
	}
	return ok
}

// AssertUnitVector verifies that v has length 1 within delta
func AssertUnitVector(t *testing.T, v mgl64.Vec3, delta float64, msgAndArgs ...interface{}) bool {
	t.Helper()

	return assert.InDelta(t, 1.0, v.Len(), delta, msgAndArgs...)
}
