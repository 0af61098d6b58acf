package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallCoreVocabulariesRegistersEveryBucket(t *testing.T) {
	reg := newRuleRegistry()
	installCoreVocabularies(reg)

	for _, kw := range []string{
		"$ref", "type", "properties", "format", "title", "contentEncoding",
	} {
		_, ok := reg.getKeyword(kw)
		assert.True(t, ok, "expected %q to be registered by installCoreVocabularies", kw)
	}
}

func TestCompiledCustomKeywordCachesCompiledFunction(t *testing.T) {
	compiler := NewCompiler()
	compileCount := 0
	compile := func(*Compiler, *Schema, DataRefArg) (KeywordValidateFunc, error) {
		compileCount++
		return func(any, *DynamicScope) *EvaluationError { return nil }, nil
	}
	require.NoError(t, compiler.AddKeyword("x_counted", "validation", "", compile))

	rule, ok := compiler.GetKeyword("x_counted")
	require.True(t, ok)

	s := &Schema{Extra: map[string]any{"x_counted": true}}
	_, err := s.compiledCustomKeyword(compiler, rule)
	require.NoError(t, err)
	_, err = s.compiledCustomKeyword(compiler, rule)
	require.NoError(t, err)

	assert.Equal(t, 1, compileCount, "compile function must run once and be cached")
}

func TestCompiledCustomKeywordPropagatesCompileError(t *testing.T) {
	compiler := NewCompiler()
	compile := func(*Compiler, *Schema, DataRefArg) (KeywordValidateFunc, error) {
		return nil, assertionError{"boom"}
	}
	require.NoError(t, compiler.AddKeyword("x_broken", "validation", "", compile))
	rule, ok := compiler.GetKeyword("x_broken")
	require.True(t, ok)

	s := &Schema{Extra: map[string]any{"x_broken": true}}
	_, err := s.compiledCustomKeyword(compiler, rule)
	assert.Error(t, err)
}

type assertionError struct{ msg string }

func (e assertionError) Error() string { return e.msg }
