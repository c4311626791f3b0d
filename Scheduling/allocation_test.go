package Scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionsCoveredFullSettlement(t *testing.T) {
	assert.Equal(t, 10, SessionsCovered(1000, 100, 10))
	// Overpayment still settles exactly the whole package.
	assert.Equal(t, 10, SessionsCovered(1500, 100, 10))
}

func TestSessionsCoveredPartialSettlement(t *testing.T) {
	assert.Equal(t, 3, SessionsCovered(350, 100, 10))
	assert.Equal(t, 0, SessionsCovered(99.99, 100, 10))
	assert.Equal(t, 1, SessionsCovered(100, 100, 10))
}

func TestSessionsCoveredDegenerateInputs(t *testing.T) {
	assert.Equal(t, 0, SessionsCovered(0, 100, 10))
	assert.Equal(t, 0, SessionsCovered(-50, 100, 10))
	assert.Equal(t, 0, SessionsCovered(350, 0, 10))
	assert.Equal(t, 0, SessionsCovered(350, 100, 0))
}
