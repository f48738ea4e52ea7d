// internal/models/tokens.go
package models

import (
	"fmt"
	"strings"
	"unicode"
)

// Token names a semantic color role. The set is closed.
type Token string

const (
	TokenBackground        Token = "background"
	TokenSurface           Token = "surface"
	TokenForeground        Token = "foreground"
	TokenMuted             Token = "muted"
	TokenMutedForeground   Token = "mutedForeground"
	TokenPrimary           Token = "primary"
	TokenPrimaryForeground Token = "primaryForeground"
	TokenAccent            Token = "accent"
	TokenAccentForeground  Token = "accentForeground"
	TokenSuccess           Token = "success"
	TokenSuccessForeground Token = "successForeground"
	TokenInfo              Token = "info"
	TokenInfoForeground    Token = "infoForeground"
	TokenWarning           Token = "warning"
	TokenWarningForeground Token = "warningForeground"
	TokenDanger            Token = "danger"
	TokenDangerForeground  Token = "dangerForeground"
	TokenBorder            Token = "border"
	TokenRing              Token = "ring"
)

const cssVarPrefix = "--color-"

var allTokens = []Token{
	TokenBackground,
	TokenSurface,
	TokenForeground,
	TokenMuted,
	TokenMutedForeground,
	TokenPrimary,
	TokenPrimaryForeground,
	TokenAccent,
	TokenAccentForeground,
	TokenSuccess,
	TokenSuccessForeground,
	TokenInfo,
	TokenInfoForeground,
	TokenWarning,
	TokenWarningForeground,
	TokenDanger,
	TokenDangerForeground,
	TokenBorder,
	TokenRing,
}

// tokenCSSVars is built once from allTokens and never modified.
var tokenCSSVars = buildTokenCSSVars()

func buildTokenCSSVars() map[Token]string {
	vars := make(map[Token]string, len(allTokens))
	for _, token := range allTokens {
		vars[token] = cssVarPrefix + kebabCase(string(token))
	}
	return vars
}

// AllTokens returns every semantic token in canonical display order.
func AllTokens() []Token {
	tokens := make([]Token, len(allTokens))
	copy(tokens, allTokens)
	return tokens
}

func (t Token) Valid() bool {
	_, ok := tokenCSSVars[t]
	return ok
}

// CSSVar returns the style variable the token is projected onto, e.g.
// "--color-muted-foreground".
func (t Token) CSSVar() string {
	return tokenCSSVars[t]
}

// Label formats the token for display: "mutedForeground" -> "Muted Foreground".
func (t Token) Label() string {
	var b strings.Builder
	for i, r := range string(t) {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func ParseToken(raw string) (Token, error) {
	token := Token(strings.TrimSpace(raw))
	if !token.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidToken, raw)
	}
	return token, nil
}

func kebabCase(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
