package template

import "eventflow/internal/payload"

// Context is the immutable snapshot templates render against. Never
// mutate a Context in place — With returns a copy with one key added.
type Context map[string]interface{}

// NewContext builds the base context every render starts from.
func NewContext(data interface{}, metadata payload.Metadata, state map[string]string) Context {
	return Context{
		"data":     data,
		"metadata": map[string]interface{}(metadata),
		"state":    state,
	}
}

// With returns a copy of c with key set to value, leaving c untouched.
func (c Context) With(key string, value interface{}) Context {
	return Context(MergeContexts(c, Context{key: value}))
}

// MergeContexts merges multiple contexts into a single context; later
// contexts override values from earlier ones.
func MergeContexts(contexts ...map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for _, ctx := range contexts {
		for key, value := range ctx {
			result[key] = value
		}
	}

	return result
}
