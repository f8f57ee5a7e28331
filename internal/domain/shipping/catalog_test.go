package shipping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableTypes_OrderedAndStable(t *testing.T) {
	types := AvailableTypes()
	require.Equal(t, []string{"Нова Пошта", "Укр Пошта", "Meest Express", "Самовивіз"}, types)

	// Mutating the returned slice must not affect the catalog.
	types[0] = "mutated"
	assert.Equal(t, "Нова Пошта", AvailableTypes()[0])
}

func TestTypePeriod_KnownTypes(t *testing.T) {
	for _, label := range AvailableTypes() {
		period, ok := TypePeriod(label)
		require.True(t, ok, "type %s must have a period", label)
		assert.Positive(t, period)
	}

	period, ok := TypePeriod("Самовивіз")
	require.True(t, ok)
	assert.Equal(t, time.Hour, period)
}

func TestTypePeriod_UnknownType(t *testing.T) {
	_, ok := TypePeriod("Голубина пошта")
	assert.False(t, ok)
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusCreated.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
}
