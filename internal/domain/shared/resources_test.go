package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avelardi/polisbot/internal/domain/shared"
)

func TestResourceSet_AddSubScale(t *testing.T) {
	// Arrange
	a := shared.ResourceSet{Citizens: 10, Wood: 100, Sulfur: 50}
	b := shared.ResourceSet{Citizens: 5, Wood: 30, Wine: 7}

	// Act & Assert
	assert.Equal(t, shared.ResourceSet{Citizens: 15, Wood: 130, Wine: 7, Sulfur: 50}, a.Add(b))
	assert.Equal(t, shared.ResourceSet{Citizens: 5, Wood: 70, Wine: -7, Sulfur: 50}, a.Sub(b))
	assert.Equal(t, shared.ResourceSet{Citizens: 30, Wood: 300, Sulfur: 150}, a.Scale(3))
}

func TestResourceSet_Shortage_OnlyPositiveComponents(t *testing.T) {
	// Arrange
	have := shared.ResourceSet{Citizens: 50, Wood: 500, Sulfur: 10}
	need := shared.ResourceSet{Citizens: 80, Wood: 200, Sulfur: 40}

	// Act
	missing := have.Shortage(need)

	// Assert
	assert.Equal(t, shared.ResourceSet{Citizens: 30, Sulfur: 30}, missing)
	assert.False(t, have.Covers(need))
	assert.True(t, have.Add(missing).Covers(need))
}

func TestResourceSet_MaxUnits(t *testing.T) {
	// Arrange
	pool := shared.ResourceSet{Citizens: 100, Wood: 90, Sulfur: 45}
	cost := shared.ResourceSet{Citizens: 1, Wood: 30, Sulfur: 15}

	// Act & Assert
	assert.Equal(t, 3, pool.MaxUnits(cost))

	// A free unit type has no resource limit.
	assert.Equal(t, -1, pool.MaxUnits(shared.ResourceSet{}))

	// An exhausted dimension blocks recruitment entirely.
	broke := shared.ResourceSet{Wood: 29}
	assert.Equal(t, 0, broke.MaxUnits(cost))
}

func TestResourceSet_IsZero(t *testing.T) {
	assert.True(t, shared.ResourceSet{}.IsZero())
	assert.False(t, shared.ResourceSet{Wine: 1}.IsZero())
}
