// internal/models/themes.go
package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	maxThemeNameLength = 100
	unsetTokenColor    = "#000000"
	primitiveVarPrefix = "--p-"
	colorVarPrefix     = "--c-"
)

var (
	ErrInvalidToken    = errors.New("invalid semantic token")
	ErrInvalidDocument = errors.New("invalid theme document")
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// Metadata carries provenance fields. Nothing in the theme engine reads them.
type Metadata struct {
	Author      string   `json:"author,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// Document is the serializable theme state. Semantic may be partial; unset
// roles render as black.
type Document struct {
	Name       string            `json:"name" validate:"required,max=100"`
	Version    string            `json:"version,omitempty"`
	Primitives map[string]string `json:"primitives,omitempty" validate:"dive,keys,required,endkeys,themecolor"`
	Colors     map[string]string `json:"colors,omitempty" validate:"dive,keys,required,endkeys,themecolor"`
	Semantic   map[Token]string  `json:"semantic" validate:"dive,keys,semantictoken,endkeys,themecolor"`
	Metadata   *Metadata         `json:"metadata,omitempty"`
}

// Patch is a shallow update: every non-nil field replaces the whole field of
// the target document.
type Patch struct {
	Name       *string           `json:"name,omitempty"`
	Version    *string           `json:"version,omitempty"`
	Primitives map[string]string `json:"primitives,omitempty"`
	Colors     map[string]string `json:"colors,omitempty"`
	Semantic   map[Token]string  `json:"semantic,omitempty"`
	Metadata   *Metadata         `json:"metadata,omitempty"`
}

// StyleVariable is one projected runtime style value, e.g.
// {"--color-primary", "#3b82f6"}.
type StyleVariable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func DefaultDocument() Document {
	return Document{
		Name: "default",
		Primitives: map[string]string{
			"white": "#ffffff",
			"black": "#000000",
		},
		Colors: map[string]string{
			"primary": "#3b82f6",
			"accent":  "#34d399",
			"muted":   "#a1a1aa",
			"border":  "#e2e8f0",
		},
		Semantic: map[Token]string{
			TokenBackground:        "#0f172a",
			TokenSurface:           "#0b1220",
			TokenForeground:        "#e6eef8",
			TokenMuted:             "#71717a",
			TokenPrimary:           "#3b82f6",
			TokenPrimaryForeground: "#ffffff",
			TokenAccent:            "#34d399",
			TokenSuccess:           "#10b981",
			TokenInfo:              "#3b82f6",
			TokenDanger:            "#ef4444",
			TokenBorder:            "#e2e8f0",
			TokenRing:              "#93c5fd",
		},
	}
}

// Color returns the color assigned to token, or black when unset.
func (d Document) Color(token Token) string {
	if value := d.Semantic[token]; value != "" {
		return value
	}
	return unsetTokenColor
}

func (d Document) Clone() Document {
	clone := d
	clone.Primitives = cloneStringMap(d.Primitives)
	clone.Colors = cloneStringMap(d.Colors)
	if d.Semantic != nil {
		clone.Semantic = make(map[Token]string, len(d.Semantic))
		for token, value := range d.Semantic {
			clone.Semantic[token] = value
		}
	}
	if d.Metadata != nil {
		meta := *d.Metadata
		if d.Metadata.Tags != nil {
			meta.Tags = append([]string(nil), d.Metadata.Tags...)
		}
		clone.Metadata = &meta
	}
	return clone
}

// Merge returns a copy of d with every field set in patch replaced.
func (d Document) Merge(patch Patch) Document {
	merged := d.Clone()
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Version != nil {
		merged.Version = *patch.Version
	}
	if patch.Primitives != nil {
		merged.Primitives = cloneStringMap(patch.Primitives)
	}
	if patch.Colors != nil {
		merged.Colors = cloneStringMap(patch.Colors)
	}
	if patch.Semantic != nil {
		merged.Semantic = make(map[Token]string, len(patch.Semantic))
		for token, value := range patch.Semantic {
			merged.Semantic[token] = value
		}
	}
	if patch.Metadata != nil {
		meta := *patch.Metadata
		merged.Metadata = &meta
	}
	return merged
}

// WithToken returns a copy of d with a single semantic role reassigned.
func (d Document) WithToken(token Token, value string) Document {
	updated := d.Clone()
	if updated.Semantic == nil {
		updated.Semantic = make(map[Token]string, 1)
	}
	updated.Semantic[token] = value
	return updated
}

// StyleVariables lists the style variables d projects: semantic roles in
// canonical token order, then primitives and colors sorted by key. Empty
// values and unknown roles are skipped.
func (d Document) StyleVariables() []StyleVariable {
	vars := make([]StyleVariable, 0, len(d.Semantic)+len(d.Primitives)+len(d.Colors))
	for _, token := range allTokens {
		if value := d.Semantic[token]; value != "" {
			vars = append(vars, StyleVariable{Name: token.CSSVar(), Value: value})
		}
	}
	vars = appendPrefixed(vars, primitiveVarPrefix, d.Primitives)
	vars = appendPrefixed(vars, colorVarPrefix, d.Colors)
	return vars
}

func (d Document) Validate() error {
	trimmedName := strings.TrimSpace(d.Name)
	if trimmedName == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDocument)
	}
	if len(trimmedName) > maxThemeNameLength {
		return fmt.Errorf("%w: name must be %d characters or fewer", ErrInvalidDocument, maxThemeNameLength)
	}

	if err := documentValidator().Struct(d); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalidDocument, describeFieldError(validationErrs[0]))
		}
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

// ValidatePatch checks the result of merging patch into d, looking only at
// the fields patch sets. Fields carried over from d are not re-checked, so a
// loosely imported theme can still be renamed.
func (d Document) ValidatePatch(patch Patch) error {
	merged := d.Merge(patch)
	partial := Document{Name: merged.Name}
	if patch.Version != nil {
		partial.Version = merged.Version
	}
	if patch.Primitives != nil {
		partial.Primitives = merged.Primitives
	}
	if patch.Colors != nil {
		partial.Colors = merged.Colors
	}
	if patch.Semantic != nil {
		partial.Semantic = merged.Semantic
	}
	if patch.Metadata != nil {
		partial.Metadata = merged.Metadata
	}
	return partial.Validate()
}

func documentValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("themecolor", func(fl validator.FieldLevel) bool {
			return IsValidHexColor(fl.Field().String())
		})

		_ = v.RegisterValidation("semantictoken", func(fl validator.FieldLevel) bool {
			return Token(fl.Field().String()).Valid()
		})

		validateInst = v
	})
	return validateInst
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "themecolor":
		return fmt.Sprintf("%s must be a hex color like #AABBCC or #ABC, got %q", fe.Field(), fe.Value())
	case "semantictoken":
		return fmt.Sprintf("%s is not a semantic token", fe.Field())
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be %s characters or fewer", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func appendPrefixed(vars []StyleVariable, prefix string, values map[string]string) []StyleVariable {
	keys := make([]string, 0, len(values))
	for key, value := range values {
		if value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		vars = append(vars, StyleVariable{Name: prefix + key, Value: values[key]})
	}
	return vars
}

// cloneStringMap returns nil for an empty map. Export omits empty palette
// maps, so nil is the only form that survives a round trip.
func cloneStringMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	clone := make(map[string]string, len(values))
	for key, value := range values {
		clone[key] = value
	}
	return clone
}
