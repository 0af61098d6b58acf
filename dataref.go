package jsonschema

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/kaptinlin/jsonpointer"
)

// DataRefArg is the argument a compiled keyword receives for its schema
// value. Most keywords see a Literal wrapping the value written in the
// schema. A schema author can instead write {"$data": "/pointer"} in any
// position a keyword argument is expected; the compiler recognizes that
// shape and hands the keyword a DataRef instead, letting the keyword
// resolve the real value against the instance currently being validated
// rather than against the schema.
type DataRefArg interface {
	// Resolve returns the concrete value to validate against: either the
	// literal schema value, or the value found at the $data pointer
	// within root, the top-level instance passed to Validate.
	Resolve(root any) (any, error)
}

// Literal wraps a schema value that is not a $data reference.
type Literal struct {
	Value any
}

func (l Literal) Resolve(any) (any, error) { return l.Value, nil }

// DataRef wraps a JSON Pointer taken from a {"$data": "..."} keyword
// argument. Pointer is evaluated relative to root, not relative to the
// schema, per the $data proposal this framework implements.
type DataRef struct {
	Pointer string
}

func (d DataRef) Resolve(root any) (any, error) {
	tokens, err := jsonpointer.Parse(d.Pointer)
	if err != nil {
		return nil, ErrInvalidDataPointer
	}

	current := root
	for _, token := range tokens {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[token]
			if !ok {
				return nil, ErrDataPointerNotFound
			}
			current = v
		case []any:
			idx, ok := arrayIndex(token)
			if !ok || idx < 0 || idx >= len(node) {
				return nil, ErrDataPointerNotFound
			}
			current = node[idx]
		default:
			return nil, ErrDataPointerNotFound
		}
	}
	return current, nil
}

func arrayIndex(token string) (int, bool) {
	if token == "" {
		return 0, false
	}
	n := 0
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// parseDataRefArgument inspects a raw keyword argument and returns a
// DataRefArg: a DataRef when the value has the {"$data": "<pointer>"}
// shape, otherwise a Literal wrapping the value unchanged.
func parseDataRefArgument(raw any) DataRefArg {
	obj, ok := raw.(map[string]any)
	if !ok || len(obj) != 1 {
		return Literal{Value: raw}
	}
	pointer, ok := obj["$data"].(string)
	if !ok {
		return Literal{Value: raw}
	}
	if !strings.HasPrefix(pointer, "/") && pointer != "" {
		return Literal{Value: raw}
	}
	return DataRef{Pointer: pointer}
}

// dataMetaSchemaFragment is the fragment JSON Schema validators merge into
// their meta-schema to declare that any keyword's value may also be a
// $data reference object, per the external $data proposal referenced by
// draft-07 (http://json-schema.org/draft-07/schema#). DataMetaSchema
// uses it to populate "$defs/$data".
const dataMetaSchemaFragment = `{
  "$data": {
    "type": "object",
    "properties": {
      "$data": {
        "type": "string",
        "pattern": "^/(/|[^/])*$"
      }
    },
    "required": ["$data"],
    "additionalProperties": false
  }
}`

// DataMetaSchema returns a deep copy of meta with every keyword
// meta-schema named by a JSON Pointer in pointerList replaced by the
// two-alternative shape {"anyOf": [original, {"$ref": "#/$defs/$data"}]},
// declaring that keyword's value may also be a {"$data": "<pointer>"}
// reference. meta itself is never mutated: every replacement happens on a
// clone produced by round-tripping meta through JSON. "$defs/$data" is
// populated with the $data extension fragment first, unless the caller's
// meta-schema already defines one.
func DataMetaSchema(meta any, pointerList []string) (any, error) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, errors.Wrap(err, "jsonschema: encoding meta-schema for $dataMetaSchema")
	}

	var cloned any
	if err := json.Unmarshal(raw, &cloned); err != nil {
		return nil, errors.Wrap(err, "jsonschema: decoding cloned meta-schema for $dataMetaSchema")
	}

	root, ok := cloned.(map[string]any)
	if !ok {
		return nil, errors.Newf("jsonschema: $dataMetaSchema requires an object meta-schema, got %T", cloned)
	}

	defs, _ := root["$defs"].(map[string]any)
	if defs == nil {
		defs = map[string]any{}
		root["$defs"] = defs
	}
	if _, exists := defs["$data"]; !exists {
		var fragment map[string]any
		if err := json.Unmarshal([]byte(dataMetaSchemaFragment), &fragment); err != nil {
			return nil, err
		}
		defs["$data"] = fragment["$data"]
	}

	for _, pointer := range pointerList {
		if err := spliceDataAlternative(root, pointer); err != nil {
			return nil, err
		}
	}

	return root, nil
}

// spliceDataAlternative replaces the value at pointer within root with
// {"anyOf": [original, {"$ref": "#/$defs/$data"}]}.
func spliceDataAlternative(root any, pointer string) error {
	tokens, err := jsonpointer.Parse(pointer)
	if err != nil {
		return errors.Wrapf(ErrInvalidDataPointer, "pointer %q", pointer)
	}
	if len(tokens) == 0 {
		return nil
	}

	parent, lastKey, err := navigateToParent(root, tokens)
	if err != nil {
		return err
	}

	withAlternative := func(original any) any {
		return map[string]any{
			"anyOf": []any{original, map[string]any{"$ref": "#/$defs/$data"}},
		}
	}

	switch container := parent.(type) {
	case map[string]any:
		container[lastKey] = withAlternative(container[lastKey])
		return nil
	case []any:
		idx, ok := arrayIndex(lastKey)
		if !ok || idx < 0 || idx >= len(container) {
			return errors.Wrapf(ErrDataPointerNotFound, "pointer %q", pointer)
		}
		container[idx] = withAlternative(container[idx])
		return nil
	default:
		return errors.Wrapf(ErrDataPointerNotFound, "pointer %q", pointer)
	}
}

// navigateToParent walks all but the last of tokens starting at root,
// returning the container holding the final element and that element's
// key/index (as a string either way, since the caller already knows which
// container kind it got back).
func navigateToParent(root any, tokens []string) (parent any, lastKey string, err error) {
	current := root
	for i, token := range tokens {
		if i == len(tokens)-1 {
			return current, token, nil
		}
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[token]
			if !ok {
				return nil, "", errors.Wrapf(ErrDataPointerNotFound, "token %q", token)
			}
			current = next
		case []any:
			idx, ok := arrayIndex(token)
			if !ok || idx < 0 || idx >= len(node) {
				return nil, "", errors.Wrapf(ErrDataPointerNotFound, "token %q", token)
			}
			current = node[idx]
		default:
			return nil, "", errors.Wrapf(ErrDataPointerNotFound, "token %q", token)
		}
	}
	return current, "", nil
}
