package themes

import (
	"github.com/codr1/folio/internal/models"
)

// TokenRow is one editable semantic role in the builder.
type TokenRow struct {
	Token    models.Token
	Label    string
	CSSVar   string
	Value    string
	Set      bool
	TextOn   string
	TextGood bool
}

type PresetOption struct {
	Index  int
	Name   string
	Active bool
}

// BuilderData is everything the builder page renders.
type BuilderData struct {
	Document models.Document
	Tokens   []TokenRow
	Checks   []models.ContrastCheck
	Presets  []PresetOption
	CanUndo  bool
	CanRedo  bool
	ShareURL string
}

func NewTokenRows(doc models.Document) []TokenRow {
	tokens := models.AllTokens()
	rows := make([]TokenRow, len(tokens))
	for i, token := range tokens {
		value, set := doc.Semantic[token]
		if !set {
			value = doc.Color(token)
		}
		text, ratio, ok := models.BestTextColor(value)
		rows[i] = TokenRow{
			Token:    token,
			Label:    token.Label(),
			CSSVar:   token.CSSVar(),
			Value:    value,
			Set:      set,
			TextOn:   text,
			TextGood: ok && ratio >= models.WCAGAAMinContrastRatio,
		}
	}
	return rows
}

func NewPresetOptions(names []string, activeName string) []PresetOption {
	options := make([]PresetOption, len(names))
	for i, name := range names {
		options[i] = PresetOption{Index: i, Name: name, Active: name == activeName}
	}
	return options
}

// FailingChecks counts audit pairs below AA.
func (d BuilderData) FailingChecks() int {
	count := 0
	for _, check := range d.Checks {
		if !check.AA {
			count++
		}
	}
	return count
}
