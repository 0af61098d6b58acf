package jsonschema

import (
	"sort"
	"sync"
)

// KeywordCompileFunc compiles a single keyword's schema value into a
// validator closure. argument is the raw keyword value from the schema
// (already $data-aware via parseDataRefArgument), parentSchema is the
// enclosing Schema, and compiler is the owning Compiler, giving the
// compiled closure access to format registries, default funcs, and the
// reference resolver.
//
// The returned KeywordValidateFunc is invoked once per instance at evaluation
// time; it reports failures the same way built-in keywords do, by
// returning a non-nil *EvaluationError.
type KeywordCompileFunc func(compiler *Compiler, parentSchema *Schema, argument DataRefArg) (KeywordValidateFunc, error)

// KeywordValidateFunc is the compiled form of a keyword: it inspects a
// single instance value and reports a failure, or nil on success.
type KeywordValidateFunc func(instance any, dynamicScope *DynamicScope) *EvaluationError

// NativeEvalFunc is a core keyword's evaluation, run directly against
// Schema's typed fields instead of through the compile-then-validate shape
// KeywordCompileFunc/KeywordValidateFunc give a custom AddKeyword
// registration. It receives the same running evaluatedProps/evaluatedItems
// state every keyword in one evaluate() pass shares, so keywords like
// unevaluatedProperties that depend on what ran before them see the
// effect, and returns whatever EvaluationResults/Errors that keyword
// produces (either may be nil).
type NativeEvalFunc func(s *Schema, instance any, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope) ([]*EvaluationResult, []*EvaluationError)

// Rule describes one keyword known to a RuleGroup: its name, the instance
// types it applies to, its compile function, and its relationship to other
// keywords in the same group.
type Rule struct {
	Keyword string // the JSON Schema keyword this rule implements, e.g. "minLength"
	Type    string // bucket this rule is filed under: "core", "validation", "applicator", "format", "metadata", "content", or the ruleType given to AddKeyword
	Code    KeywordCompileFunc

	// Evaluate is set for keywords this package understands natively
	// (type, properties, $ref, ...); evaluate() dispatches to it directly
	// instead of going through Code/compiledCustomKeyword. A Rule filed
	// purely for introspection (GetKeyword/RemoveKeyword visibility on a
	// keyword whose behavior is already covered by a sibling rule, such as
	// "then"/"else" alongside "if") leaves both Code and Evaluate nil.
	Evaluate NativeEvalFunc

	// Before names a keyword this rule must compile ahead of within its
	// group. It is a hint, not a hard dependency: a keyword named here
	// that the group does not know about is logged and the rule is
	// appended at the end of the group rather than treated as an error.
	Before string

	// Implements lists keywords that this rule's presence already
	// subsumes, so that addKeyword('minLength', ...) with
	// Implements: []string{"minLengthAndMaxLength"} lets getKeyword
	// answer queries made against the composite name. removeKeyword
	// matches Keyword only, not these names.
	Implements []string
}

// RuleGroup buckets all registered Rules by Type and keeps them in the
// order addKeyword requires: an explicit Before hint floats a rule ahead
// of the keyword it names, and ties fall back to registration order.
type RuleGroup struct {
	mu    sync.RWMutex
	rules []*Rule
}

func newRuleGroup() *RuleGroup {
	return &RuleGroup{rules: make([]*Rule, 0, 8)}
}

func (g *RuleGroup) add(r *Rule, logger Logger) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rules = append(g.rules, r)
	if r.Before == "" {
		return
	}

	idx := -1
	for i, existing := range g.rules {
		if existing.Keyword == r.Before {
			idx = i
			break
		}
	}
	if idx == -1 {
		logger.Warn("addKeyword: before-hint references unknown keyword, appending instead", "keyword", r.Keyword, "before", r.Before)
		return
	}

	// Move the newly appended rule (currently last) to just before idx.
	last := len(g.rules) - 1
	copy(g.rules[idx+1:last+1], g.rules[idx:last])
	g.rules[idx] = r
}

func (g *RuleGroup) remove(keyword string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, r := range g.rules {
		if r.Keyword == keyword {
			g.rules = append(g.rules[:i], g.rules[i+1:]...)
			return true
		}
	}
	return false
}

func (g *RuleGroup) get(keyword string) (*Rule, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, r := range g.rules {
		if r.Keyword == keyword {
			return r, true
		}
		for _, implied := range r.Implements {
			if implied == keyword {
				return r, true
			}
		}
	}
	return nil, false
}

func (g *RuleGroup) snapshot() []*Rule {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Rule, len(g.rules))
	copy(out, g.rules)
	return out
}

// RuleRegistry is the keyword rule system. It is
// keyed by Rule.Type so the compiler can dispatch a schema's extension
// keywords in deterministic, group-scoped order. A RuleRegistry belongs to
// exactly one Compiler; there is no shared mutable global beyond the
// fixed vocabularies installed by installCoreVocabularies at package init,
// which every new Compiler copies into its own registry.
type RuleRegistry struct {
	mu     sync.RWMutex
	groups map[string]*RuleGroup
	order  []string // group names, first-seen order, for deterministic iteration
}

func newRuleRegistry() *RuleRegistry {
	return &RuleRegistry{groups: make(map[string]*RuleGroup)}
}

func (reg *RuleRegistry) groupFor(ruleType string) *RuleGroup {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	g, ok := reg.groups[ruleType]
	if !ok {
		g = newRuleGroup()
		reg.groups[ruleType] = g
		reg.order = append(reg.order, ruleType)
	}
	return g
}

func (reg *RuleRegistry) clone() *RuleRegistry {
	clone := newRuleRegistry()
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	for _, groupName := range reg.order {
		group := reg.groups[groupName]
		cloned := newRuleGroup()
		cloned.rules = append(cloned.rules, group.snapshot()...)
		clone.groups[groupName] = cloned
		clone.order = append(clone.order, groupName)
	}
	return clone
}

// addKeyword registers a Rule into its group, applying the Before
// ordering hint. Registering a keyword that already exists in its group
// replaces the previous definition.
func (reg *RuleRegistry) addKeyword(r *Rule, logger Logger) {
	group := reg.groupFor(r.Type)
	group.remove(r.Keyword)
	group.add(r, logger)
}

// removeKeyword deletes a keyword from every group it was registered
// under. It reports whether anything was removed; callers that expect the
// keyword to exist should check this rather than treat it as always
// succeeding.
func (reg *RuleRegistry) removeKeyword(keyword string) bool {
	reg.mu.RLock()
	groups := make([]*RuleGroup, 0, len(reg.groups))
	for _, g := range reg.groups {
		groups = append(groups, g)
	}
	reg.mu.RUnlock()

	removed := false
	for _, g := range groups {
		if g.remove(keyword) {
			removed = true
		}
	}
	return removed
}

// getKeyword looks up a Rule by keyword or by one of its Implements
// aliases, searching groups in deterministic order.
func (reg *RuleRegistry) getKeyword(keyword string) (*Rule, bool) {
	reg.mu.RLock()
	groupNames := append([]string(nil), reg.order...)
	reg.mu.RUnlock()

	sort.Strings(groupNames) // stable, deterministic regardless of first-seen order
	for _, name := range groupNames {
		if r, ok := reg.groupFor(name).get(keyword); ok {
			return r, true
		}
	}
	return nil, false
}

// keywordsForExtra returns, in compile order, the Rules that apply to the
// keys present in extra, scanning every group so a custom keyword
// registered under any Type bucket is found.
func (reg *RuleRegistry) keywordsForExtra(extra map[string]any) []*Rule {
	if len(extra) == 0 {
		return nil
	}

	reg.mu.RLock()
	groupNames := append([]string(nil), reg.order...)
	reg.mu.RUnlock()

	sort.Strings(groupNames)
	var matched []*Rule
	for _, name := range groupNames {
		for _, r := range reg.groupFor(name).snapshot() {
			if _, present := extra[r.Keyword]; present {
				matched = append(matched, r)
			}
		}
	}
	return matched
}

// coreBucketOrder is the fixed cross-bucket order evaluate() dispatches
// keywords in: core keywords ($ref, $id, ...) before validation keywords
// before applicator keywords (whose own internal registration order, see
// installCoreVocabularies, already runs unevaluatedProperties/
// unevaluatedItems last) before format, metadata, and content keywords.
// This is NOT alphabetical, unlike getKeyword/keywordsForExtra's
// sort.Strings(groupNames): those answer "does a keyword exist" lookups
// where ordering is irrelevant, while orderedRules feeds the actual
// evaluation loop, where applicator keywords populating evaluatedProps/
// evaluatedItems must run before the unevaluated* keywords that read them.
var coreBucketOrder = []string{"core", "validation", "applicator", "format", "metadata", "content"}

// orderedRules returns every registered Rule across every bucket, in
// coreBucketOrder for the buckets that order names, with any bucket
// registered under a Type name outside that list (e.g. a custom
// AddVocabulary bucket) appended afterward in first-seen order.
func (reg *RuleRegistry) orderedRules() []*Rule {
	reg.mu.RLock()
	groupNames := append([]string(nil), reg.order...)
	reg.mu.RUnlock()

	present := make(map[string]bool, len(groupNames))
	for _, name := range groupNames {
		present[name] = true
	}

	ordered := make([]string, 0, len(groupNames))
	seen := make(map[string]bool, len(groupNames))
	for _, name := range coreBucketOrder {
		if present[name] {
			ordered = append(ordered, name)
			seen[name] = true
		}
	}
	for _, name := range groupNames {
		if !seen[name] {
			ordered = append(ordered, name)
		}
	}

	var rules []*Rule
	for _, name := range ordered {
		rules = append(rules, reg.groupFor(name).snapshot()...)
	}
	return rules
}

// globalRules holds the vocabularies installed by installCoreVocabularies.
// Each new Compiler clones it so that per-compiler AddKeyword/RemoveKeyword
// calls never leak across independent Compiler instances, matching the
// ownership model: a registered keyword is visible to every schema
// compiled by that Compiler, and to no other.
var globalRules = newRuleRegistry()

func init() {
	installCoreVocabularies(globalRules)
}
