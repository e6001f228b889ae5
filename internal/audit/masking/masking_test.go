package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "", MaskValue(""))
	assert.Equal(t, "", MaskValue("   "))
	assert.Equal(t, "****", MaskValue("1234"))
	assert.Equal(t, "****4567", MaskValue("0791234567"))
	assert.Equal(t, "****4567", MaskValue("  0791234567  "))
}

func TestMaskJSONRedactsSensitiveKeys(t *testing.T) {
	masked := MaskJSON(map[string]any{
		"name":          "Jamal",
		"mobile_number": "0791234567",
		"id_number":     "9901010001",
		"count":         3,
	})

	assert.Equal(t, "Jamal", masked["name"])
	assert.Equal(t, "****4567", masked["mobile_number"])
	assert.Equal(t, "****0001", masked["id_number"])
	assert.Equal(t, 3, masked["count"])
}

func TestMaskJSONWalksNestedValues(t *testing.T) {
	masked := MaskJSON(map[string]any{
		"customer": map[string]any{
			"email": "jamal@example.com",
		},
		"contacts": []any{
			map[string]any{"mobile_number": "0787654321"},
		},
	})

	customer, ok := masked["customer"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "****.com", customer["email"])

	contacts, ok := masked["contacts"].([]any)
	assert.True(t, ok)
	first, ok := contacts[0].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "****4321", first["mobile_number"])
}

func TestMaskJSONEmptyInput(t *testing.T) {
	assert.Nil(t, MaskJSON(nil))
	assert.Nil(t, MaskJSON(map[string]any{}))
	assert.Nil(t, MaskJSON(map[string]any{"  ": "x"}))
}

func TestMaskJSONNonStringSensitiveValue(t *testing.T) {
	masked := MaskJSON(map[string]any{"id_number": 12345})
	assert.Equal(t, 12345, masked["id_number"])
}
