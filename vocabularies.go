package jsonschema

// installCoreVocabularies files every keyword this package understands
// natively into reg, bucketed into the fixed installation groups: core,
// validation, applicator, format, metadata, content. Most of these carry a
// real Evaluate closure, so evaluate() dispatches them through the
// registry exactly the way it dispatches a custom AddKeyword registration
// -- registering a keyword here is what makes it actually run, not just
// observable through GetKeyword/RemoveKeyword.
//
// A few keywords stay introspection-only (Evaluate left nil): "then" and
// "else" have no independent meaning apart from "if" (evaluateIfKeyword
// already evaluates all three together), "maxContains"/"minContains" are
// read by evaluateContainsKeyword rather than evaluated on their own, and
// "contentMediaType"/"contentSchema" are read by
// evaluateContentEncodingKeyword for the same reason. $async and the
// purely structural keywords ($id, $schema, $anchor, $dynamicAnchor,
// $defs, definitions, $comment) and the metadata keywords (title,
// description, ...) carry no validation behavior at all. Filing them as
// inert Rules still buys them uniform GetKeyword/RemoveKeyword/Before
// behavior alongside every keyword that does evaluate.
func installCoreVocabularies(reg *RuleRegistry) {
	native := func(ruleType, keyword string, eval NativeEvalFunc) {
		reg.addKeyword(&Rule{Keyword: keyword, Type: ruleType, Evaluate: eval}, NoopLogger{})
	}
	inert := func(ruleType string, keywords ...string) {
		for _, kw := range keywords {
			reg.addKeyword(&Rule{Keyword: kw, Type: ruleType}, NoopLogger{})
		}
	}

	inert("core", "$async", "$id", "$schema", "$anchor", "$dynamicAnchor", "$defs", "definitions", "$comment")
	native("core", "$ref", evaluateRefKeyword)
	native("core", "$dynamicRef", evaluateDynamicRefKeyword)

	native("validation", "type", evaluateTypeKeyword)
	native("validation", "enum", evaluateEnumKeyword)
	native("validation", "const", evaluateConstKeyword)
	native("validation", "multipleOf", evaluateMultipleOfKeyword)
	native("validation", "maximum", evaluateMaximumKeyword)
	native("validation", "exclusiveMaximum", evaluateExclusiveMaximumKeyword)
	native("validation", "minimum", evaluateMinimumKeyword)
	native("validation", "exclusiveMinimum", evaluateExclusiveMinimumKeyword)
	native("validation", "maxLength", evaluateMaxLengthKeyword)
	native("validation", "minLength", evaluateMinLengthKeyword)
	native("validation", "pattern", evaluatePatternKeyword)
	native("validation", "maxItems", evaluateMaxItemsKeyword)
	native("validation", "minItems", evaluateMinItemsKeyword)
	native("validation", "uniqueItems", evaluateUniqueItemsKeyword)
	inert("validation", "maxContains", "minContains")
	native("validation", "maxProperties", evaluateMaxPropertiesKeyword)
	native("validation", "minProperties", evaluateMinPropertiesKeyword)
	native("validation", "required", evaluateRequiredKeyword)
	native("validation", "dependentRequired", evaluateDependentRequiredKeyword)

	native("applicator", "allOf", evaluateAllOfKeyword)
	native("applicator", "anyOf", evaluateAnyOfKeyword)
	native("applicator", "oneOf", evaluateOneOfKeyword)
	native("applicator", "not", evaluateNotKeyword)
	native("applicator", "if", evaluateIfKeyword)
	inert("applicator", "then", "else")
	native("applicator", "dependentSchemas", evaluateDependentSchemasKeyword)
	native("applicator", "prefixItems", evaluatePrefixItemsKeyword)
	native("applicator", "items", evaluateItemsKeyword)
	native("applicator", "contains", evaluateContainsKeyword)
	native("applicator", "properties", evaluatePropertiesKeyword)
	native("applicator", "patternProperties", evaluatePatternPropertiesKeyword)
	native("applicator", "additionalProperties", evaluateAdditionalPropertiesKeyword)
	native("applicator", "propertyNames", evaluatePropertyNamesKeyword)
	native("applicator", "unevaluatedItems", evaluateUnevaluatedItemsKeyword)
	native("applicator", "unevaluatedProperties", evaluateUnevaluatedPropertiesKeyword)

	native("format", "format", evaluateFormatKeyword)

	inert("metadata", "title", "description", "default", "deprecated", "readOnly", "writeOnly", "examples")

	native("content", "contentEncoding", evaluateContentEncodingKeyword)
	inert("content", "contentMediaType", "contentSchema")
}

func (s *Schema) compiledCustomKeyword(compiler *Compiler, rule *Rule) (KeywordValidateFunc, error) {
	if s.compiledCustom == nil {
		s.compiledCustom = make(map[string]KeywordValidateFunc)
	}
	if fn, ok := s.compiledCustom[rule.Keyword]; ok {
		return fn, nil
	}

	arg := parseDataRefArgument(s.Extra[rule.Keyword])
	fn, err := rule.Code(compiler, s, arg)
	if err != nil {
		return nil, err
	}
	s.compiledCustom[rule.Keyword] = fn
	return fn, nil
}
