package batch

// Header is a single header pair as declared by a collection.
type Header struct {
	Key   string
	Value string
}

// Headers keeps declaration order; a later duplicate overrides an earlier one.
type Headers []Header

// Map flattens the headers, later declarations winning.
func (h Headers) Map() map[string]string {
	out := make(map[string]string, len(h))
	for _, header := range h {
		out[header.Key] = header.Value
	}
	return out
}

// Assemble layers baseline, declared and auth headers into the final set.
// On a key collision the later layer wins. Keys are compared as written.
func Assemble(baseline map[string]string, declared Headers, authLayer map[string]string) map[string]string {
	out := make(map[string]string, len(baseline)+len(declared)+len(authLayer))
	for k, v := range baseline {
		out[k] = v
	}
	for _, header := range declared {
		out[header.Key] = header.Value
	}
	for k, v := range authLayer {
		out[k] = v
	}
	return out
}
