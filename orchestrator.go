package jsonschema

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// keywordNamePattern is the shape AddKeyword requires of a custom keyword
// name: a lowercase identifier that may lead with '_' or '$', matching the
// JSON Schema convention of framework keywords ($ref, $id, ...) and plain
// lowercase ones (properties, minimum, ...).
var keywordNamePattern = regexp.MustCompile(`^[a-z_$][a-z0-9_$-]*$`)

// MissingRefError is returned by CompileAsync to report exactly which $ref
// URI could not be obtained: loadSchema failed for it, or the bytes it
// returned did not compile. Compile does not return it.
type MissingRefError struct {
	Ref string
}

func (e *MissingRefError) Error() string {
	return fmt.Sprintf("jsonschema: missing schema for $ref %q", e.Ref)
}

// vocabulary records one addVocabulary registration: a URI naming a set
// of keywords, and whether a schema declaring it in its "$vocabulary"
// object is required to understand every keyword it names.
type vocabulary struct {
	uri      string
	required bool
	rules    *RuleRegistry
}

// orchestratorState is the part of Compiler that exists to satisfy the
// registry-facing operations (addKeyword/removeKeyword/addVocabulary/
// addMetaSchema/compileAsync) on top of the schema cache already carried
// by Compiler. Compiler holds it through a pointer that orchestrator()
// creates on first use, rather than merging its fields into Compiler's own
// field block, so the registry concern stays easy to find in one place.
type orchestratorState struct {
	rulesMu      sync.RWMutex
	rules        *RuleRegistry
	vocabularies map[string]*vocabulary
	metaSchemas  map[string]*Schema

	loadingMu sync.Mutex
	loading   map[string]chan struct{} // at most one in-flight load per ref
}

func newOrchestratorState() *orchestratorState {
	return &orchestratorState{
		rules:        globalRules.clone(),
		vocabularies: make(map[string]*vocabulary),
		metaSchemas:  make(map[string]*Schema),
		loading:      make(map[string]chan struct{}),
	}
}

// AddSchema registers schemaOrSchemas under key without requiring it be
// re-parsed from bytes, for callers that already hold a compiled *Schema
// (e.g. one produced by the Object/String/Array constructor DSL in
// constructor.go). schemaOrSchemas may be a single *Schema or a []*Schema;
// for a slice, each element is added in turn under the same key rule. When
// key is empty it falls back to schema.$id, and failing that to a
// synthesized urn:uuid key. Registering a key that already names a
// different schema fails with ErrDuplicateSchemaID rather than silently
// overwriting it. Every nested schema carrying its own "$id" (collected
// during compilation into the root schema's internal cache) is registered
// alongside the schema itself, so a later GetSchema/$ref for that nested id
// resolves across documents, not just within the one it was declared in.
func (c *Compiler) AddSchema(key string, schemaOrSchemas any) error {
	switch v := schemaOrSchemas.(type) {
	case []*Schema:
		for _, schema := range v {
			if err := c.addOneSchema(key, schema); err != nil {
				return err
			}
		}
		return nil
	case *Schema:
		return c.addOneSchema(key, v)
	default:
		return errors.Newf("jsonschema: AddSchema requires *Schema or []*Schema, got %T", schemaOrSchemas)
	}
}

// addOneSchema implements AddSchema for a single schema.
func (c *Compiler) addOneSchema(key string, schema *Schema) error {
	if schema == nil {
		return errors.New("jsonschema: AddSchema requires a non-nil schema")
	}

	if key == "" {
		key = schema.ID
	}
	if key == "" {
		key = "urn:uuid:" + uuid.NewString()
	}
	key = c.normalizeSchemaKey(key)

	if err := c.registerSchemaKey(key, schema); err != nil {
		return err
	}

	for nestedURI, nested := range schema.schemas {
		if nested == schema {
			continue
		}
		if err := c.registerSchemaKey(c.normalizeSchemaKey(nestedURI), nested); err != nil {
			return err
		}
	}

	return nil
}

// normalizeSchemaKey resolves a possibly-relative key against the
// compiler's DefaultBaseURI, the same resolution initializeSchema applies
// to a schema's own "$id".
func (c *Compiler) normalizeSchemaKey(key string) string {
	if isValidURI(key) {
		return key
	}
	return resolveRelativeURI(c.DefaultBaseURI, key)
}

// registerSchemaKey binds key to schema, failing if it is already bound to
// a different schema.
func (c *Compiler) registerSchemaKey(key string, schema *Schema) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, exists := c.schemas[key]; exists && existing != schema {
		return errors.Wrapf(ErrDuplicateSchemaID, "schema id %q", key)
	}
	c.schemas[key] = schema
	return nil
}

// AddMetaSchema registers a meta-schema that future AddSchema/Compile
// calls can declare conformance to via "$schema". Validating a schema
// document against its declared meta-schema is ValidateSchema's job; the
// meta-schema compiles the same way any other schema does, through
// Compile, since meta-schemas are themselves JSON Schema documents.
func (c *Compiler) AddMetaSchema(uri string, jsonSchema []byte) error {
	schema, err := c.Compile(jsonSchema, uri)
	if err != nil {
		return errors.Wrapf(err, "jsonschema: compiling meta-schema %q", uri)
	}

	c.orchestrator().rulesMu.Lock()
	c.orchestrator().metaSchemas[uri] = schema
	c.orchestrator().rulesMu.Unlock()
	return nil
}

// ValidateSchema checks a schema document against the meta-schema it
// declares via "$schema", which must have been registered through
// AddMetaSchema. A document that omits "$schema" is not checked against
// any meta-schema and yields a valid result. It reports the same
// *EvaluationResult shape
// Validate does, letting a caller reuse existing result-rendering code for
// "is this a valid schema" and "does this instance satisfy the schema"
// alike.
func (c *Compiler) ValidateSchema(jsonSchema []byte) (*EvaluationResult, error) {
	var doc map[string]any
	if err := c.jsonDecoder(jsonSchema, &doc); err != nil {
		return nil, errors.Wrap(err, "jsonschema: decoding schema document for validation")
	}

	metaURI, _ := doc["$schema"].(string)
	if metaURI == "" {
		return &EvaluationResult{Valid: true}, nil
	}

	c.orchestrator().rulesMu.RLock()
	meta, ok := c.orchestrator().metaSchemas[metaURI]
	c.orchestrator().rulesMu.RUnlock()
	if !ok {
		return nil, errors.Newf("jsonschema: no meta-schema registered for %q", metaURI)
	}

	return meta.Validate(doc), nil
}

// RemoveSchema drops one or more schemas from the compiler's cache so a
// later Compile/AddSchema call for the same key starts fresh instead of
// returning the cached value. It never removes a schema registered through
// AddMetaSchema, regardless of which mode selects it. schemaKeyRef accepts:
//
//   - no argument (or nil): every non-meta schema is dropped, and the
//     cache is cleared entirely except for meta-schemas.
//   - a string: the single schema cached under that exact key.
//   - a *regexp.Regexp: every key the pattern matches.
//   - a *Schema: the cache entry whose value is that exact schema object,
//     found by identity rather than by key.
//
// Any other argument type reports false and leaves the cache untouched.
func (c *Compiler) RemoveSchema(schemaKeyRef ...any) bool {
	removed, _ := c.removeSchema(schemaKeyRef...)
	return removed
}

// removeSchema is RemoveSchema's implementation, additionally reporting
// ErrInvalidRemoveArgument when schemaKeyRef's shape is not one of the four
// documented modes.
func (c *Compiler) removeSchema(schemaKeyRef ...any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	isMeta := func(key string) bool {
		state := c.orchestratorVal
		if state == nil {
			return false
		}
		state.rulesMu.RLock()
		defer state.rulesMu.RUnlock()
		_, ok := state.metaSchemas[key]
		return ok
	}

	var arg any
	if len(schemaKeyRef) > 0 {
		arg = schemaKeyRef[0]
	}

	switch v := arg.(type) {
	case nil:
		removed := false
		for key := range c.schemas {
			if isMeta(key) {
				continue
			}
			delete(c.schemas, key)
			removed = true
		}
		return removed, nil

	case string:
		if isMeta(v) {
			return false, nil
		}
		_, existed := c.schemas[v]
		delete(c.schemas, v)
		return existed, nil

	case *regexp.Regexp:
		removed := false
		for key := range c.schemas {
			if isMeta(key) || !v.MatchString(key) {
				continue
			}
			delete(c.schemas, key)
			removed = true
		}
		return removed, nil

	case *Schema:
		removed := false
		for key, schema := range c.schemas {
			if schema != v || isMeta(key) {
				continue
			}
			delete(c.schemas, key)
			removed = true
		}
		return removed, nil

	default:
		return false, errors.Wrapf(ErrInvalidRemoveArgument, "type %T", arg)
	}
}

// AddVocabulary registers a named set of keywords as a vocabulary, the way
// "$vocabulary" declares which keyword sets a meta-schema requires.
// required is stored with the registration only: compilation does not read
// it, so a schema naming this vocabulary compiles the same way whether it
// was registered with true or false.
func (c *Compiler) AddVocabulary(uri string, required bool) error {
	state := c.orchestrator()
	state.rulesMu.Lock()
	defer state.rulesMu.Unlock()

	if _, exists := state.vocabularies[uri]; exists {
		return errors.Wrapf(ErrVocabularyAlreadyRegistered, "uri %q", uri)
	}
	state.vocabularies[uri] = &vocabulary{uri: uri, required: required, rules: state.rules}
	return nil
}

// AddKeyword registers a custom keyword's compile function into the
// compiler's rule registry: the keyword is filed under ruleType (RuleGroup
// bucketing by applicable instance type), ordered ahead of before when
// before is already registered in the same group, and exposed afterward
// through GetKeyword.
//
// A keyword name must match ^[a-z_$][a-z0-9_$-]*$: lowercase letters,
// digits, '_', '$' and '-' only, so a camelCase name such as minLength is
// rejected with ErrInvalidKeywordName before any other check.
//
// A name that passes the pattern but collides with a core framework keyword ($ref, $id,
// type, properties, ...), or with a custom keyword already registered on
// this compiler, cannot be (re-)registered; both failures report
// ErrKeywordAlreadyRegistered, since from a caller's perspective both mean
// "that name is taken."
func (c *Compiler) AddKeyword(keyword string, ruleType string, before string, compile KeywordCompileFunc) error {
	if !keywordNamePattern.MatchString(keyword) {
		return errors.Wrapf(ErrInvalidKeywordName, "keyword %q", keyword)
	}
	if _, isCore := knownSchemaFields[keyword]; isCore {
		return errors.Wrapf(ErrKeywordAlreadyRegistered, "keyword %q", keyword)
	}

	state := c.orchestrator()

	if _, alreadyRegistered := state.rules.getKeyword(keyword); alreadyRegistered {
		return errors.Wrapf(ErrKeywordAlreadyRegistered, "keyword %q", keyword)
	}

	state.rules.addKeyword(&Rule{Keyword: keyword, Type: ruleType, Code: compile, Before: before}, c.getLogger())
	return nil
}

// GetKeyword looks up a previously registered custom keyword by name.
func (c *Compiler) GetKeyword(keyword string) (*Rule, bool) {
	return c.orchestrator().rules.getKeyword(keyword)
}

// RemoveKeyword deregisters a custom keyword. It returns
// ErrUnknownKeyword if the keyword was never registered, rather than
// succeeding silently, since a caller removing a keyword it expects to
// exist wants to know when that assumption was wrong.
func (c *Compiler) RemoveKeyword(keyword string) error {
	if !c.orchestrator().rules.removeKeyword(keyword) {
		return errors.Wrapf(ErrUnknownKeyword, "keyword %q", keyword)
	}
	return nil
}

// AddFormat mirrors RegisterFormat under the orchestrator's naming;
// both mutate the same customFormats table.
func (c *Compiler) AddFormat(name string, validator func(any) bool, typeName ...string) *Compiler {
	return c.RegisterFormat(name, validator, typeName...)
}

// ErrorsText flattens a slice of evaluation errors into a single
// human-readable string, joined by separator (", " when empty), the way
// a CLI or log line typically reports "every reason validation failed"
// in one field.
func (c *Compiler) ErrorsText(errs []*EvaluationError, separator ...string) string {
	sep := ", "
	if len(separator) > 0 && separator[0] != "" {
		sep = separator[0]
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if e == nil {
			continue
		}
		msgs = append(msgs, e.Error())
	}
	if len(msgs) == 0 {
		return "No errors"
	}
	return joinStrings(msgs, sep)
}

func joinStrings(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

// LoadSchemaFunc fetches the raw bytes of a schema given its URI. It is
// the collaborator CompileAsync calls when a $ref cannot be satisfied
// from the compiler's existing cache.
type LoadSchemaFunc func(ctx context.Context, uri string) ([]byte, error)

// CompileAsync compiles jsonSchema the way Compile does, then repeatedly
// asks loadSchema for the bytes of every $ref/$dynamicRef that is still
// unresolved, compiling and re-resolving after each load, until either
// nothing is left unresolved or a load fails. A failed load (loadSchema
// returned an error, or the bytes it returned did not compile) is reported
// as a *MissingRefError naming the ref; the underlying error is not kept.
// Concurrent CompileAsync calls for the same missing ref share a single
// in-flight load: the second caller waits for the first's load to finish
// instead of issuing a duplicate fetch.
func (c *Compiler) CompileAsync(ctx context.Context, jsonSchema []byte, loadSchema LoadSchemaFunc, uris ...string) (*Schema, error) {
	logger := c.getLogger()

	schema, err := c.Compile(jsonSchema, uris...)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxCompileAsyncRetries; attempt++ {
		pending := schema.GetUnresolvedReferenceURIs()
		if len(pending) == 0 {
			return schema, nil
		}

		for _, ref := range pending {
			if loadErr := c.loadRefOnce(ctx, ref, loadSchema, logger); loadErr != nil {
				return nil, &MissingRefError{Ref: ref}
			}
		}
		schema.ResolveUnresolvedReferences()
	}

	return nil, errors.Newf("jsonschema: giving up resolving references after %d attempts", maxCompileAsyncRetries)
}

const maxCompileAsyncRetries = 32

func (c *Compiler) loadRefOnce(ctx context.Context, ref string, loadSchema LoadSchemaFunc, logger Logger) error {
	state := c.orchestrator()

	state.loadingMu.Lock()
	if ch, inFlight := state.loading[ref]; inFlight {
		state.loadingMu.Unlock()
		<-ch
		return nil
	}
	done := make(chan struct{})
	state.loading[ref] = done
	state.loadingMu.Unlock()

	defer func() {
		state.loadingMu.Lock()
		delete(state.loading, ref)
		state.loadingMu.Unlock()
		close(done)
	}()

	logger.Debug("compileAsync: loading missing $ref", "ref", ref)
	data, err := loadSchema(ctx, ref)
	if err != nil {
		return errors.Wrapf(err, "jsonschema: loadSchema failed for %q", ref)
	}

	if _, err := c.Compile(data, ref); err != nil {
		return errors.Wrapf(err, "jsonschema: compiling loaded schema %q", ref)
	}
	return nil
}
