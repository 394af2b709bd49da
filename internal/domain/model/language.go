package model

import (
	"fmt"
	"sort"
)

// LanguageCode is a short identifier for a supported language, e.g. "eng".
type LanguageCode string

// Language pairs a code with its human-readable display name for the UI.
type Language struct {
	Code LanguageCode `json:"code"`
	Name string       `json:"name"`
}

// LanguageRegistry holds the enumerated set of supported languages and the
// pivot language the chat model natively understands. It is immutable after
// construction and safe for concurrent use.
type LanguageRegistry struct {
	pivot LanguageCode
	names map[LanguageCode]string
}

// DefaultLanguageNames is the reference deployment's language set,
// supported by the remote translation model.
func DefaultLanguageNames() map[string]string {
	return map[string]string{
		"eng": "English", "ach": "Acholi", "lgg": "Lugbara",
		"lug": "Luganda", "nyn": "Runyankole", "teo": "Ateso",
	}
}

func NewLanguageRegistry(pivot string, names map[string]string) (*LanguageRegistry, error) {
	if len(names) == 0 {
		names = DefaultLanguageNames()
	}
	m := make(map[LanguageCode]string, len(names))
	for code, name := range names {
		m[LanguageCode(code)] = name
	}
	p := LanguageCode(pivot)
	if _, ok := m[p]; !ok {
		return nil, fmt.Errorf("pivot language %q is not in the supported set", pivot)
	}
	return &LanguageRegistry{pivot: p, names: m}, nil
}

// Pivot returns the language the chat model converses in.
func (r *LanguageRegistry) Pivot() LanguageCode { return r.pivot }

func (r *LanguageRegistry) Supported(code LanguageCode) bool {
	_, ok := r.names[code]
	return ok
}

// DisplayName returns the human-readable name, falling back to the code
// itself for unknown entries.
func (r *LanguageRegistry) DisplayName(code LanguageCode) string {
	if name, ok := r.names[code]; ok {
		return name
	}
	return string(code)
}

// Codes returns the supported codes sorted alphabetically.
func (r *LanguageRegistry) Codes() []string {
	out := make([]string, 0, len(r.names))
	for code := range r.names {
		out = append(out, string(code))
	}
	sort.Strings(out)
	return out
}

// List returns the languages sorted by display name, for rendering.
func (r *LanguageRegistry) List() []Language {
	out := make([]Language, 0, len(r.names))
	for code, name := range r.names {
		out = append(out, Language{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
