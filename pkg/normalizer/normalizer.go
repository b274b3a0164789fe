package normalizer

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/adrianliechti/imagine/pkg/provider"
)

// Normalize reduces an opaque provider output to its ordered image locators.
// Exactly one shape rule applies per output.
func Normalize(output provider.Output) []string {
	return Detect(output).Locators()
}

// Shape is the recognized form of a provider output.
type Shape interface {
	Locators() []string
}

var (
	_ Shape = Handle{}
	_ Shape = Sequence{}
	_ Shape = Scalar("")
	_ Shape = Keyed{}
	_ Shape = Unrecognized{}
)

// Detect classifies an output. Rules are tried in order: handle, sequence,
// scalar string, keyed structure.
func Detect(output provider.Output) Shape {
	switch v := output.(type) {
	case nil:
		return Unrecognized{}

	case provider.Handle:
		return Handle{v}

	case []any:
		return Sequence(v)

	case []string:
		return Sequence(toAny(v))

	case string:
		return Scalar(v)

	case map[string]any:
		return Keyed(v)

	case map[string]string:
		m := make(Keyed, len(v))

		for key, val := range v {
			m[key] = val
		}

		return m
	}

	return Unrecognized{output}
}

// Handle is a lazy result exposing a URL accessor. Accessor failures are
// logged and yield no locator.
type Handle struct {
	provider.Handle
}

func (h Handle) Locators() []string {
	url, err := h.URL()

	if err != nil {
		slog.Warn("unable to resolve output handle", "error", err)
		return []string{}
	}

	if !isURL(url) {
		return []string{}
	}

	return []string{url}
}

// Sequence keeps the string elements that look like URLs, in order.
type Sequence []any

func (s Sequence) Locators() []string {
	return urls(s)
}

// Scalar is a single string output.
type Scalar string

func (s Scalar) Locators() []string {
	if !isURL(string(s)) {
		return []string{}
	}

	return []string{string(s)}
}

// Keyed scans one level of values: URL strings directly and URL strings
// within slice values. Keys are visited in sorted order.
type Keyed map[string]any

func (k Keyed) Locators() []string {
	keys := make([]string, 0, len(k))

	for key := range k {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	result := []string{}

	for _, key := range keys {
		switch v := k[key].(type) {
		case string:
			if isURL(v) {
				result = append(result, v)
			}

		case []any:
			result = append(result, urls(v)...)

		case []string:
			result = append(result, urls(toAny(v))...)
		}
	}

	return result
}

type Unrecognized struct {
	Value any
}

func (Unrecognized) Locators() []string {
	return []string{}
}

func urls(values []any) []string {
	result := []string{}

	for _, v := range values {
		if s, ok := v.(string); ok && isURL(s) {
			result = append(result, s)
		}
	}

	return result
}

// isURL accepts remote locators and inline image data URIs, which gateways
// returning base64 payloads hand out.
func isURL(s string) bool {
	return strings.HasPrefix(s, "http") || strings.HasPrefix(s, "data:image/")
}

func toAny(values []string) []any {
	result := make([]any, len(values))

	for i, v := range values {
		result[i] = v
	}

	return result
}
