package jsonschema

// Validate checks if the given instance conforms to the schema.
func (s *Schema) Validate(instance interface{}) *EvaluationResult {
	dynamicScope := NewDynamicScope(instance)
	result, _, _ := s.evaluate(instance, dynamicScope)

	return result
}

// evaluate walks every registered keyword rule, in RuleRegistry.orderedRules
// order, dispatching each one through Rule.Evaluate (core keywords: type,
// properties, $ref, ...) or, for a keyword with no native Evaluate, through
// Rule.Code against Schema.Extra (a keyword registered via AddKeyword).
// Both paths run through the same registry instead of one being a
// hardcoded chain and the other a registry lookup, so a custom keyword's
// Before hint can interleave it with the core keywords in its bucket.
func (s *Schema) evaluate(instance interface{}, dynamicScope *DynamicScope) (*EvaluationResult, map[string]bool, map[int]bool) {
	dynamicScope.Push(s)
	result := NewEvaluationResult(s)

	evaluatedProps := make(map[string]bool)
	evaluatedItems := make(map[int]bool)

	if s.Boolean != nil {
		// Check if the schema is a boolean
		if err := s.evaluateBoolean(instance, evaluatedProps, evaluatedItems); err != nil {
			//nolint:errcheck
			result.AddError(err)
		}
		dynamicScope.Pop()
		return result, evaluatedProps, evaluatedItems
	}

	// Compile patterns for PatternProperties if not already compiled
	if s.PatternProperties != nil {
		s.compilePatterns()
	}

	compiler := s.GetCompiler()
	registry := globalRules
	if compiler != nil {
		registry = compiler.orchestrator().rules
	}

	for _, rule := range registry.orderedRules() {
		switch {
		case rule.Evaluate != nil:
			results, errs := rule.Evaluate(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
			for _, r := range results {
				if r != nil {
					//nolint:errcheck
					result.AddDetail(r)
				}
			}
			for _, e := range errs {
				if e != nil {
					//nolint:errcheck
					result.AddError(e)
				}
			}

		case rule.Code != nil:
			if compiler == nil {
				continue
			}
			if _, present := s.Extra[rule.Keyword]; !present {
				continue
			}

			fn, err := s.compiledCustomKeyword(compiler, rule)
			if err != nil {
				//nolint:errcheck
				result.AddError(NewEvaluationError(rule.Keyword, "custom_keyword_compile_failed", "Keyword {keyword} failed to compile: {error}", map[string]any{
					"keyword": rule.Keyword,
					"error":   err.Error(),
				}))
				continue
			}
			if evalErr := fn(instance, dynamicScope); evalErr != nil {
				//nolint:errcheck
				result.AddError(evalErr)
			}
		}
	}

	// Pop the schema from the dynamic scope
	dynamicScope.Pop()

	return result, evaluatedProps, evaluatedItems
}

func (s *Schema) evaluateBoolean(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool) *EvaluationError {
	if s.Boolean == nil {
		return nil
	}

	if *s.Boolean {
		switch v := instance.(type) {
		case map[string]interface{}:
			for key := range v {
				evaluatedProps[key] = true
			}
		case []interface{}:
			for index := range v {
				evaluatedItems[index] = true
			}
		}
		return nil // No error, validation passes as the schema is true
	} else {
		return NewEvaluationError("schema", "false_schema_mismatch", "No values are allowed because the schema is set to 'false'")
	}
}

// single wraps a lone *EvaluationError into the []*EvaluationError shape
// NativeEvalFunc returns, dropping it entirely when nil.
func single(err *EvaluationError) []*EvaluationError {
	if err == nil {
		return nil
	}
	return []*EvaluationError{err}
}

func evaluateTypeKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, _ *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.Type == nil {
		return nil, nil
	}
	return nil, single(evaluateType(s, instance))
}

func evaluateEnumKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.Enum == nil && s.EnumData == nil {
		return nil, nil
	}

	values := s.Enum
	if s.EnumData != nil {
		resolved, err := s.EnumData.Resolve(dynamicScope.Root())
		if err != nil {
			return nil, single(NewEvaluationError("enum", "data_reference_unresolved", "$data reference for enum could not be resolved: {error}", map[string]any{"error": err.Error()}))
		}
		asSlice, ok := resolved.([]any)
		if !ok {
			return nil, single(NewEvaluationError("enum", "data_reference_not_array", "$data reference for enum resolved to {actual_type}, expected an array", map[string]any{"actual_type": getDataType(resolved)}))
		}
		values = asSlice
	}

	return nil, single(evaluateEnum(&Schema{Enum: values}, instance))
}

func evaluateConstKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, _ *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.Const == nil {
		return nil, nil
	}
	return nil, single(evaluateConst(s, instance))
}

// resolveNumericLimit returns the *Rat to validate instance against for one
// of the five numeric-bound keywords: the literal value unchanged, or the
// $data-referenced value resolved against dynamicScope's root instance.
func resolveNumericLimit(literal *Rat, ref DataRefArg, keyword string, dynamicScope *DynamicScope) (*Rat, *EvaluationError) {
	if ref == nil {
		return literal, nil
	}

	resolved, err := ref.Resolve(dynamicScope.Root())
	if err != nil {
		return nil, NewEvaluationError(keyword, "data_reference_unresolved", "$data reference for {keyword} could not be resolved: {error}", map[string]any{
			"keyword": keyword,
			"error":   err.Error(),
		})
	}

	limit := NewRat(resolved)
	if limit == nil {
		return nil, NewEvaluationError(keyword, "data_reference_not_numeric", "$data reference for {keyword} resolved to {actual_type}, expected a number", map[string]any{
			"keyword":     keyword,
			"actual_type": getDataType(resolved),
		})
	}
	return limit, nil
}

// evaluateNumericGuard runs check against instance's numeric value, the
// same way the original numeric grouping function read the instance once
// and ran every bound keyword against it: skip non-numeric instances
// silently, report "invalid_numberic" when the value looks numeric by type
// but NewRat can't convert it.
func evaluateNumericGuard(instance any, check func(*Rat) *EvaluationError) []*EvaluationError {
	dataType := getDataType(instance)
	if dataType != "number" && dataType != "integer" {
		return nil
	}

	value := NewRat(instance)
	if value == nil {
		return single(NewEvaluationError("type", "invalid_numberic", "Value is {received} but should be numeric", map[string]interface{}{
			"received": dataType,
		}))
	}

	return single(check(value))
}

func evaluateMultipleOfKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.MultipleOf == nil && s.MultipleOfData == nil {
		return nil, nil
	}
	limit, limitErr := resolveNumericLimit(s.MultipleOf, s.MultipleOfData, "multipleOf", dynamicScope)
	if limitErr != nil {
		return nil, single(limitErr)
	}
	return nil, evaluateNumericGuard(instance, func(v *Rat) *EvaluationError {
		return evaluateMultipleOf(&Schema{MultipleOf: limit}, v)
	})
}

func evaluateMaximumKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.Maximum == nil && s.MaximumData == nil {
		return nil, nil
	}
	limit, limitErr := resolveNumericLimit(s.Maximum, s.MaximumData, "maximum", dynamicScope)
	if limitErr != nil {
		return nil, single(limitErr)
	}
	return nil, evaluateNumericGuard(instance, func(v *Rat) *EvaluationError {
		return evaluateMaximum(&Schema{Maximum: limit}, v)
	})
}

func evaluateExclusiveMaximumKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.ExclusiveMaximum == nil && s.ExclusiveMaximumData == nil {
		return nil, nil
	}
	limit, limitErr := resolveNumericLimit(s.ExclusiveMaximum, s.ExclusiveMaximumData, "exclusiveMaximum", dynamicScope)
	if limitErr != nil {
		return nil, single(limitErr)
	}
	return nil, evaluateNumericGuard(instance, func(v *Rat) *EvaluationError {
		return evaluateExclusiveMaximum(&Schema{ExclusiveMaximum: limit}, v)
	})
}

func evaluateMinimumKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.Minimum == nil && s.MinimumData == nil {
		return nil, nil
	}
	limit, limitErr := resolveNumericLimit(s.Minimum, s.MinimumData, "minimum", dynamicScope)
	if limitErr != nil {
		return nil, single(limitErr)
	}
	return nil, evaluateNumericGuard(instance, func(v *Rat) *EvaluationError {
		return evaluateMinimum(&Schema{Minimum: limit}, v)
	})
}

func evaluateExclusiveMinimumKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.ExclusiveMinimum == nil && s.ExclusiveMinimumData == nil {
		return nil, nil
	}
	limit, limitErr := resolveNumericLimit(s.ExclusiveMinimum, s.ExclusiveMinimumData, "exclusiveMinimum", dynamicScope)
	if limitErr != nil {
		return nil, single(limitErr)
	}
	return nil, evaluateNumericGuard(instance, func(v *Rat) *EvaluationError {
		return evaluateExclusiveMinimum(&Schema{ExclusiveMinimum: limit}, v)
	})
}

func evaluateMaxLengthKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, _ *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.MaxLength == nil {
		return nil, nil
	}
	value, ok := instance.(string)
	if !ok {
		return nil, nil
	}
	return nil, single(evaluateMaxLength(s, value))
}

func evaluateMinLengthKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, _ *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.MinLength == nil {
		return nil, nil
	}
	value, ok := instance.(string)
	if !ok {
		return nil, nil
	}
	return nil, single(evaluateMinLength(s, value))
}

func evaluatePatternKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, _ *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.Pattern == nil {
		return nil, nil
	}
	value, ok := instance.(string)
	if !ok {
		return nil, nil
	}
	return nil, single(evaluatePattern(s, value))
}

func evaluateMaxItemsKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, _ *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.MaxItems == nil {
		return nil, nil
	}
	items, ok := instance.([]interface{})
	if !ok {
		return nil, nil
	}
	return nil, single(evaluateMaxItems(s, items))
}

func evaluateMinItemsKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, _ *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.MinItems == nil {
		return nil, nil
	}
	items, ok := instance.([]interface{})
	if !ok {
		return nil, nil
	}
	return nil, single(evaluateMinItems(s, items))
}

func evaluateUniqueItemsKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, _ *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.UniqueItems == nil || !*s.UniqueItems {
		return nil, nil
	}
	items, ok := instance.([]any)
	if !ok {
		return nil, nil
	}
	return nil, single(evaluateUniqueItems(s, items))
}

func evaluateMaxPropertiesKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, _ *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.MaxProperties == nil {
		return nil, nil
	}
	object, ok := instance.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	return nil, single(evaluateMaxProperties(s, object))
}

func evaluateMinPropertiesKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, _ *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.MinProperties == nil {
		return nil, nil
	}
	object, ok := instance.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	return nil, single(evaluateMinProperties(s, object))
}

func evaluateRequiredKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, _ *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if len(s.Required) == 0 {
		return nil, nil
	}
	object, ok := instance.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	return nil, single(evaluateRequired(s, object))
}

func evaluateDependentRequiredKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, _ *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if len(s.DependentRequired) == 0 {
		return nil, nil
	}
	object, ok := instance.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	return nil, single(evaluateDependentRequired(s, object))
}

func evaluateAllOfKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.AllOf == nil {
		return nil, nil
	}
	results, err := evaluateAllOf(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
	return results, single(err)
}

func evaluateAnyOfKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.AnyOf == nil {
		return nil, nil
	}
	results, err := evaluateAnyOf(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
	return results, single(err)
}

func evaluateOneOfKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.OneOf == nil {
		return nil, nil
	}
	results, err := evaluateOneOf(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
	return results, single(err)
}

func evaluateNotKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.Not == nil {
		return nil, nil
	}
	result, err := evaluateNot(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
	var results []*EvaluationResult
	if result != nil {
		results = []*EvaluationResult{result}
	}
	return results, single(err)
}

func evaluateIfKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.If == nil && s.Then == nil && s.Else == nil {
		return nil, nil
	}
	results, err := evaluateConditional(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
	return results, single(err)
}

func evaluateDependentSchemasKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.DependentSchemas == nil {
		return nil, nil
	}
	results, err := evaluateDependentSchemas(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
	return results, single(err)
}

func evaluatePrefixItemsKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if len(s.PrefixItems) == 0 {
		return nil, nil
	}
	items, ok := instance.([]interface{})
	if !ok {
		return nil, nil
	}
	results, err := evaluatePrefixItems(s, items, evaluatedProps, evaluatedItems, dynamicScope)
	return results, single(err)
}

func evaluateItemsKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.Items == nil {
		return nil, nil
	}
	items, ok := instance.([]interface{})
	if !ok {
		return nil, nil
	}
	results, err := evaluateItems(s, items, evaluatedProps, evaluatedItems, dynamicScope)
	return results, single(err)
}

func evaluateContainsKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.Contains == nil && !(s.MaxContains != nil && s.MinContains != nil) {
		return nil, nil
	}
	items, ok := instance.([]interface{})
	if !ok {
		return nil, nil
	}
	results, err := evaluateContains(s, items, evaluatedProps, evaluatedItems, dynamicScope)
	return results, single(err)
}

func evaluatePropertiesKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.Properties == nil {
		return nil, nil
	}
	object, ok := instance.(map[string]any)
	if !ok {
		return nil, nil
	}
	results, err := evaluateProperties(s, object, evaluatedProps, evaluatedItems, dynamicScope)
	return results, single(err)
}

func evaluatePatternPropertiesKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.PatternProperties == nil {
		return nil, nil
	}
	object, ok := instance.(map[string]any)
	if !ok {
		return nil, nil
	}
	results, err := evaluatePatternProperties(s, object, evaluatedProps, evaluatedItems, dynamicScope)
	return results, single(err)
}

func evaluateAdditionalPropertiesKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.AdditionalProperties == nil {
		return nil, nil
	}
	object, ok := instance.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	results, err := evaluateAdditionalProperties(s, object, evaluatedProps, evaluatedItems, dynamicScope)
	return results, single(err)
}

func evaluatePropertyNamesKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.PropertyNames == nil {
		return nil, nil
	}
	object, ok := instance.(map[string]any)
	if !ok {
		return nil, nil
	}
	results, err := evaluatePropertyNames(s, object, evaluatedProps, evaluatedItems, dynamicScope)
	return results, single(err)
}

func evaluateUnevaluatedPropertiesKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.UnevaluatedProperties == nil {
		return nil, nil
	}
	results, err := evaluateUnevaluatedProperties(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
	return results, single(err)
}

func evaluateUnevaluatedItemsKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.UnevaluatedItems == nil {
		return nil, nil
	}
	results, err := evaluateUnevaluatedItems(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
	return results, single(err)
}

func evaluateFormatKeyword(s *Schema, instance any, _ map[string]bool, _ map[int]bool, _ *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.Format == nil {
		return nil, nil
	}
	return nil, single(evaluateFormat(s, instance))
}

func evaluateContentEncodingKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.ContentEncoding == nil && s.ContentMediaType == nil && s.ContentSchema == nil {
		return nil, nil
	}
	contentResult, contentError := evaluateContent(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
	var results []*EvaluationResult
	if contentError != nil {
		results = []*EvaluationResult{contentResult}
	}
	return results, single(contentError)
}

func evaluateRefKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.ResolvedRef == nil {
		return nil, nil
	}

	refResult, props, items := s.ResolvedRef.evaluate(instance, dynamicScope)
	mergeStringMaps(evaluatedProps, props)
	mergeIntMaps(evaluatedItems, items)

	if refResult == nil {
		return nil, nil
	}

	var errs []*EvaluationError
	if !refResult.IsValid() {
		errs = single(NewEvaluationError("$ref", "ref_mismatch", "Value does not match the reference schema"))
	}
	return []*EvaluationResult{refResult}, errs
}

func evaluateDynamicRefKeyword(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError) {
	if s.ResolvedDynamicRef == nil {
		return nil, nil
	}

	anchorSchema := s.ResolvedDynamicRef
	_, anchor := splitRef(s.DynamicRef)
	if !isJSONPointer(anchor) {
		dynamicAnchor := s.ResolvedDynamicRef.DynamicAnchor
		if dynamicAnchor != "" {
			if schema := dynamicScope.LookupDynamicAnchor(dynamicAnchor); schema != nil {
				anchorSchema = schema
			}
		}
	}

	dynamicRefResult, props, items := anchorSchema.evaluate(instance, dynamicScope)
	mergeStringMaps(evaluatedProps, props)
	mergeIntMaps(evaluatedItems, items)

	if dynamicRefResult == nil {
		return nil, nil
	}

	var errs []*EvaluationError
	if !dynamicRefResult.IsValid() {
		errs = single(NewEvaluationError("$dynamicRef", "dynamic_ref_mismatch", "Value does not match the dynamic reference schema"))
	}
	return []*EvaluationResult{dynamicRefResult}, errs
}

// DynamicScope struct defines a stack specifically for handling Schema types
type DynamicScope struct {
	root    any       // the top-level instance passed to Validate, for $data resolution
	schemas []*Schema // Slice storing pointers to Schema
}

// NewDynamicScope creates and returns a new empty DynamicScope rooted at
// root, the instance a $data reference resolves against regardless of how
// deep into the schema tree evaluation has descended.
func NewDynamicScope(root any) *DynamicScope {
	return &DynamicScope{root: root, schemas: make([]*Schema, 0)}
}

// Root returns the top-level instance this scope was created for.
func (ds *DynamicScope) Root() any {
	return ds.root
}

// Push adds a Schema to the dynamic scope
func (ds *DynamicScope) Push(schema *Schema) {
	ds.schemas = append(ds.schemas, schema)
}

// Pop removes and returns the top Schema from the dynamic scope
func (ds *DynamicScope) Pop() *Schema {
	if len(ds.schemas) == 0 {
		return nil // Or handle the error
	}
	lastIndex := len(ds.schemas) - 1
	schema := ds.schemas[lastIndex]
	ds.schemas = ds.schemas[:lastIndex]
	return schema
}

// Peek returns the top Schema without removing it
func (ds *DynamicScope) Peek() *Schema {
	if len(ds.schemas) == 0 {
		return nil // Or handle the error
	}
	return ds.schemas[len(ds.schemas)-1]
}

// IsEmpty checks if the dynamic scope is empty
func (ds *DynamicScope) IsEmpty() bool {
	return len(ds.schemas) == 0
}

// Size returns the number of Schemas in the dynamic scope
func (ds *DynamicScope) Size() int {
	return len(ds.schemas)
}

// LookupDynamicAnchor searches for a dynamic anchor in the dynamic scope
func (ds *DynamicScope) LookupDynamicAnchor(anchor string) *Schema {
	// use the first schema dynamic anchor matching the anchor
	for i := 0; i < len(ds.schemas); i++ {
		schema := ds.schemas[i]

		if schema.dynamicAnchors != nil && schema.dynamicAnchors[anchor] != nil {
			return schema.dynamicAnchors[anchor]
		}
	}

	return nil
}
