package layouts

import (
	"context"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/a-h/templ"

	"github.com/codr1/folio/internal/models"
)

var (
	cssVarNamePattern  = regexp.MustCompile(`^--[A-Za-z0-9_-]+$`)
	cssVarValuePattern = regexp.MustCompile(`^[#A-Za-z0-9(),.% -]+$`)
)

// StyleSheet holds the runtime style variables of the active theme. Each
// ApplyVariables call replaces the whole set, so variables from a previous
// theme never linger.
type StyleSheet struct {
	mu      sync.RWMutex
	vars    map[string]string
	version uint64
}

func NewStyleSheet() *StyleSheet {
	return &StyleSheet{vars: make(map[string]string)}
}

func (s *StyleSheet) ApplyVariables(vars []models.StyleVariable) {
	next := make(map[string]string, len(vars))
	for _, v := range vars {
		next[v.Name] = v.Value
	}

	s.mu.Lock()
	s.vars = next
	s.version++
	s.mu.Unlock()
}

// Value returns the current value of one variable.
func (s *StyleSheet) Value(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.vars[name]
	return value, ok
}

// Version increases on every apply. It doubles as an ETag for /theme.css.
func (s *StyleSheet) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// CSS renders the variables as a single :root rule sorted by name. Names or
// values that could break out of the declaration are skipped.
func (s *StyleSheet) CSS() string {
	s.mu.RLock()
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(":root{")
	for _, name := range names {
		value := strings.TrimSpace(s.vars[name])
		if !cssVarNamePattern.MatchString(name) || !cssVarValuePattern.MatchString(value) {
			continue
		}
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(value)
		b.WriteByte(';')
	}
	s.mu.RUnlock()

	b.WriteString("}")
	return b.String()
}

// Style renders the sheet inside a <style> element for inlining in pages.
func (s *StyleSheet) Style() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_ = ctx
		_, err := io.WriteString(w, `<style id="theme-vars">`+s.CSS()+`</style>`)
		return err
	})
}
