package interp

// Environment is one lexical scope frame: an insertion-ordered binding
// list plus a pointer to the enclosing frame. Chaining Environments by
// `outer` is how the spec's "environment stack" is represented here —
// walking `outer` from any Environment reconstructs the full stack that
// was active when it was created, which is exactly the property a
// closure snapshot needs (spec.md §3 "Closure snapshot", §9 "Environment
// representation"). Grounded on the teacher's runtime.Environment
// (store + outer pointer), with the case-insensitive ident.Map swapped
// for a plain slice of bindings: the Language is case-sensitive, and a
// slice (not a map) is required to let `let` re-declare a name in the
// same frame and have the newest binding shadow the old one, per
// spec.md §4.3.
type Environment struct {
	names  []string
	values []Value
	outer  *Environment
}

// NewEnvironment creates a root-level environment with no outer scope.
func NewEnvironment() *Environment {
	return &Environment{}
}

// NewEnclosedEnvironment creates a fresh innermost frame enclosed by outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{outer: outer}
}

// Get looks up name, scanning the nearest frame first and outward. Within
// one frame, the most recently declared binding for a name wins.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.outer {
		for i := len(env.names) - 1; i >= 0; i-- {
			if env.names[i] == name {
				return env.values[i], true
			}
		}
	}
	return nil, false
}

// Define appends a new binding to this frame (spec.md §4.3 "let always
// appends to the innermost frame" — re-declaring a name is permitted and
// shadows the earlier binding via Get's newest-wins scan).
func (e *Environment) Define(name string, val Value) {
	e.names = append(e.names, name)
	e.values = append(e.values, val)
}

// Set updates the nearest frame (innermost-first) that already binds
// name. It reports false if no frame in the chain binds it.
func (e *Environment) Set(name string, val Value) bool {
	for env := e; env != nil; env = env.outer {
		for i := len(env.names) - 1; i >= 0; i-- {
			if env.names[i] == name {
				env.values[i] = val
				return true
			}
		}
	}
	return false
}
