package theming

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/folio/internal/models"
)

const (
	ExportContentType   = "application/json"
	fallbackFilename    = "theme"
	maxImportBytes      = 1 << 20
	sharePath           = "/theme"
	shareQueryParameter = "share"
)

var (
	ErrInvalidFormat = errors.New("invalid theme format")
	ErrInvalidColor  = errors.New("invalid color")
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ColorPolicy decides what Import does with color values that are not valid
// hex colors, and with unknown semantic roles.
type ColorPolicy int

const (
	// ColorsStrict rejects the whole document on the first bad entry.
	ColorsStrict ColorPolicy = iota
	// ColorsLoose only checks that name and semantic are present.
	ColorsLoose
	// ColorsDropInvalid keeps the document but drops every bad entry.
	ColorsDropInvalid
)

func (p ColorPolicy) String() string {
	switch p {
	case ColorsStrict:
		return "strict"
	case ColorsLoose:
		return "loose"
	case ColorsDropInvalid:
		return "drop"
	default:
		return fmt.Sprintf("ColorPolicy(%d)", int(p))
	}
}

func ParseColorPolicy(raw string) (ColorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "strict":
		return ColorsStrict, nil
	case "loose":
		return ColorsLoose, nil
	case "drop":
		return ColorsDropInvalid, nil
	default:
		return ColorsStrict, fmt.Errorf("unknown color policy %q (want strict, loose or drop)", raw)
	}
}

type ImportOptions struct {
	Colors ColorPolicy
}

// ExportFile is a theme serialized for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Marshal renders doc as indented JSON. Struct fields keep declaration order
// and map keys are sorted, so output is stable and diffable.
func Marshal(doc models.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode theme: %w", err)
	}
	return append(data, '\n'), nil
}

func Export(doc models.Document) (ExportFile, error) {
	data, err := Marshal(doc)
	if err != nil {
		return ExportFile{}, err
	}
	return ExportFile{
		Filename:    ExportFilename(doc.Name),
		ContentType: ExportContentType,
		Data:        data,
	}, nil
}

// ExportFilename derives "<name>.json" from a theme name, replacing runs of
// unsafe characters with "-". Empty results fall back to "theme.json".
func ExportFilename(name string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "-")
	sanitized = strings.Trim(sanitized, "-.")
	if sanitized == "" {
		sanitized = fallbackFilename
	}
	return sanitized + ".json"
}

// Import reads a theme file. Structural problems, and color problems under
// ColorsStrict, are reported as ErrInvalidFormat.
func Import(r io.Reader, opts ImportOptions) (models.Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImportBytes+1))
	if err != nil {
		return models.Document{}, fmt.Errorf("read theme file: %w", err)
	}
	if len(data) > maxImportBytes {
		return models.Document{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidFormat, maxImportBytes)
	}
	return Parse(data, opts)
}

func Parse(data []byte, opts ImportOptions) (models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if strings.TrimSpace(doc.Name) == "" {
		return models.Document{}, fmt.Errorf("%w: name is required", ErrInvalidFormat)
	}
	if doc.Semantic == nil {
		return models.Document{}, fmt.Errorf("%w: semantic is required", ErrInvalidFormat)
	}

	// Clone folds empty palette maps to nil so imports compare equal to the
	// document that was exported.
	switch opts.Colors {
	case ColorsLoose:
		return doc.Clone(), nil
	case ColorsDropInvalid:
		return dropInvalidEntries(doc).Clone(), nil
	default:
		if err := checkColors(doc); err != nil {
			return models.Document{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		if err := doc.Validate(); err != nil {
			return models.Document{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		return doc.Clone(), nil
	}
}

// checkColors reports the first bad entry, walking semantic roles in
// canonical order and palette maps by sorted key.
func checkColors(doc models.Document) error {
	for _, token := range sortedTokens(doc.Semantic) {
		if !token.Valid() {
			return fmt.Errorf("%w: semantic.%s", models.ErrInvalidToken, token)
		}
		if value := doc.Semantic[token]; !models.IsValidHexColor(value) {
			return fmt.Errorf("%w: semantic.%s = %q", ErrInvalidColor, token, value)
		}
	}
	for _, group := range []struct {
		name   string
		values map[string]string
	}{
		{name: "primitives", values: doc.Primitives},
		{name: "colors", values: doc.Colors},
	} {
		for _, key := range sortedKeys(group.values) {
			if value := group.values[key]; !models.IsValidHexColor(value) {
				return fmt.Errorf("%w: %s.%s = %q", ErrInvalidColor, group.name, key, value)
			}
		}
	}
	return nil
}

func dropInvalidEntries(doc models.Document) models.Document {
	cleaned := doc.Clone()
	for token, value := range cleaned.Semantic {
		if !token.Valid() || !models.IsValidHexColor(value) {
			log.Warn().Str("theme_name", doc.Name).Str("token", string(token)).Str("value", value).Msg("Dropping invalid semantic entry from imported theme")
			delete(cleaned.Semantic, token)
		}
	}
	for _, values := range []map[string]string{cleaned.Primitives, cleaned.Colors} {
		for key, value := range values {
			if !models.IsValidHexColor(value) {
				log.Warn().Str("theme_name", doc.Name).Str("key", key).Str("value", value).Msg("Dropping invalid palette entry from imported theme")
				delete(values, key)
			}
		}
	}
	return cleaned
}

// EncodeShareLink returns the standard base64 encoding of doc's compact JSON.
func EncodeShareLink(doc models.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode theme: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeShareLink reverses EncodeShareLink. Only base64 and structural
// problems fail; color values pass through as in a loose import, so any
// document the server can hold round-trips. Any failure yields ok == false.
func DecodeShareLink(encoded string) (doc models.Document, ok bool) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return models.Document{}, false
	}
	// An unescaped "+" arrives as a space once the query string is parsed.
	encoded = strings.ReplaceAll(encoded, " ", "+")

	for _, encoding := range []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	} {
		data, err := encoding.DecodeString(encoded)
		if err != nil {
			continue
		}
		parsed, err := Parse(data, ImportOptions{Colors: ColorsLoose})
		if err != nil {
			return models.Document{}, false
		}
		return parsed, true
	}
	return models.Document{}, false
}

// ShareURL builds "<base>/theme?share=<encoded>".
func ShareURL(baseURL string, doc models.Document) (string, error) {
	encoded, err := EncodeShareLink(doc)
	if err != nil {
		return "", err
	}
	query := url.Values{shareQueryParameter: []string{encoded}}
	return strings.TrimRight(baseURL, "/") + sharePath + "?" + query.Encode(), nil
}

func sortedTokens(values map[models.Token]string) []models.Token {
	ordered := make([]models.Token, 0, len(values))
	for _, token := range models.AllTokens() {
		if _, ok := values[token]; ok {
			ordered = append(ordered, token)
		}
	}
	var unknown []models.Token
	for token := range values {
		if !token.Valid() {
			unknown = append(unknown, token)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return append(ordered, unknown...)
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
