package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataRefArgumentLiteral(t *testing.T) {
	arg := parseDataRefArgument(float64(5))
	lit, ok := arg.(Literal)
	require.True(t, ok)
	assert.Equal(t, float64(5), lit.Value)
}

func TestParseDataRefArgumentObjectThatIsNotDataIsLiteral(t *testing.T) {
	raw := map[string]any{"type": "string"}
	arg := parseDataRefArgument(raw)
	lit, ok := arg.(Literal)
	require.True(t, ok)
	assert.Equal(t, raw, lit.Value)
}

func TestParseDataRefArgumentDataShape(t *testing.T) {
	raw := map[string]any{"$data": "/minimum"}
	arg := parseDataRefArgument(raw)
	ref, ok := arg.(DataRef)
	require.True(t, ok)
	assert.Equal(t, "/minimum", ref.Pointer)
}

func TestLiteralResolveReturnsValueUnchanged(t *testing.T) {
	lit := Literal{Value: "hello"}
	v, err := lit.Resolve(map[string]any{"anything": true})
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestDataRefResolveObjectPointer(t *testing.T) {
	root := map[string]any{"minimum": float64(3), "nested": map[string]any{"limit": float64(9)}}
	ref := DataRef{Pointer: "/nested/limit"}

	v, err := ref.Resolve(root)
	require.NoError(t, err)
	assert.Equal(t, float64(9), v)
}

func TestDataRefResolveArrayPointer(t *testing.T) {
	root := map[string]any{"items": []any{"a", "b", "c"}}
	ref := DataRef{Pointer: "/items/1"}

	v, err := ref.Resolve(root)
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}

func TestDataRefResolveMissingPathReturnsError(t *testing.T) {
	ref := DataRef{Pointer: "/does/not/exist"}
	_, err := ref.Resolve(map[string]any{"present": true})
	assert.ErrorIs(t, err, ErrDataPointerNotFound)
}

func TestDataRefResolveInvalidPointerReturnsError(t *testing.T) {
	ref := DataRef{Pointer: "not-a-pointer"}
	_, err := ref.Resolve(map[string]any{})
	assert.Error(t, err)
}

func TestDataMetaSchemaDecodes(t *testing.T) {
	v, err := DataMetaSchema(map[string]any{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestDataMetaSchemaSplicesAnyOfAtPointer(t *testing.T) {
	meta := map[string]any{
		"properties": map[string]any{
			"minimum": map[string]any{"type": "number"},
		},
	}

	v, err := DataMetaSchema(meta, []string{"/properties/minimum"})
	require.NoError(t, err)

	root, ok := v.(map[string]any)
	require.True(t, ok)

	defs, ok := root["$defs"].(map[string]any)
	require.True(t, ok)
	assert.NotNil(t, defs["$data"])

	properties := root["properties"].(map[string]any)
	replaced, ok := properties["minimum"].(map[string]any)
	require.True(t, ok)
	anyOf, ok := replaced["anyOf"].([]any)
	require.True(t, ok)
	require.Len(t, anyOf, 2)
	assert.Equal(t, map[string]any{"type": "number"}, anyOf[0])

	// original input must not be mutated
	originalMinimum := meta["properties"].(map[string]any)["minimum"].(map[string]any)
	assert.Equal(t, "number", originalMinimum["type"])
	_, hasAnyOf := originalMinimum["anyOf"]
	assert.False(t, hasAnyOf)
}
