package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndLookup(t *testing.T) {
	c, err := Parse([]byte(`{
		"milk": {"category": "Dairy", "unit": "gallon", "expiry_days": 7},
		"almond milk": {"category": "Dairy", "unit": "carton", "expiry_days": 10},
		"rice": {"category": "Pantry", "unit": "bag", "expiry_days": 300}
	}`))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	rule, ok := c.Lookup("organic almond milk unsweetened")
	require.True(t, ok)
	assert.Equal(t, "almond milk", rule.Key, "longer key must win over 'milk'")
	assert.Equal(t, "Dairy", rule.Category)
	assert.Equal(t, 10, rule.ExpiryDays)

	rule, ok = c.Lookup("whole milk")
	require.True(t, ok)
	assert.Equal(t, "milk", rule.Key)

	_, ok = c.Lookup("durian")
	assert.False(t, ok)
}

func TestParseLowercasesKeys(t *testing.T) {
	c, err := Parse([]byte(`{"  Chicken Breast ": {"category": "Meat", "unit": "lb", "expiry_days": 2}}`))
	require.NoError(t, err)

	rule, ok := c.Lookup("chicken breast fillets")
	require.True(t, ok)
	assert.Equal(t, "chicken breast", rule.Key)
}

func TestParseRejectsDuplicateKeys(t *testing.T) {
	// Duplicates only after canonicalization; raw JSON keys are distinct.
	_, err := Parse([]byte(`{
		"Milk": {"category": "Dairy", "unit": "gallon", "expiry_days": 7},
		"milk ": {"category": "Dairy", "unit": "gallon", "expiry_days": 7}
	}`))
	assert.Error(t, err)
}

func TestParseRejectsNonPositiveExpiry(t *testing.T) {
	_, err := Parse([]byte(`{"milk": {"category": "Dairy", "unit": "gallon", "expiry_days": 0}}`))
	assert.Error(t, err)
}

func TestEmbeddedDefaultsLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Greater(t, c.Len(), 0)

	rule, ok := c.Lookup("kroger frozen spinach")
	require.True(t, ok)
	assert.Equal(t, "spinach", rule.Key)
	assert.True(t, rule.HasFrozenExpiry())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/rules.json")
	assert.Error(t, err)
}
