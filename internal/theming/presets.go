package theming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sahilm/fuzzy"

	"github.com/codr1/folio/assets"
	"github.com/codr1/folio/internal/models"
)

var ErrPresetIndexOutOfRange = errors.New("preset index out of range")

// Catalog is the fixed, ordered list of built-in themes.
type Catalog struct {
	presets []models.Document
}

// LoadCatalog parses the preset file embedded in the binary.
func LoadCatalog() (*Catalog, error) {
	file, err := assets.PresetsFS.Open(assets.PresetsPath)
	if err != nil {
		return nil, fmt.Errorf("open embedded presets file: %w", err)
	}
	defer file.Close()

	return ParseCatalog(file)
}

// ParseCatalog reads a JSON array of theme documents. Every preset must pass
// strict import and names must be unique.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read presets file: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse presets file: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("presets file defines no themes")
	}

	presets := make([]models.Document, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for i, entry := range raw {
		doc, err := Parse(entry, ImportOptions{Colors: ColorsStrict})
		if err != nil {
			return nil, fmt.Errorf("invalid preset at index %d: %w", i, err)
		}
		key := strings.ToLower(doc.Name)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("duplicate preset name %q at index %d and %d", doc.Name, prev, i)
		}
		seen[key] = i
		presets = append(presets, doc)
	}
	return &Catalog{presets: presets}, nil
}

func (c *Catalog) Len() int {
	return len(c.presets)
}

func (c *Catalog) All() []models.Document {
	docs := make([]models.Document, len(c.presets))
	for i, preset := range c.presets {
		docs[i] = preset.Clone()
	}
	return docs
}

func (c *Catalog) Names() []string {
	names := make([]string, len(c.presets))
	for i, preset := range c.presets {
		names[i] = preset.Name
	}
	return names
}

// At returns preset index. Callers must check the index; out of range is
// reported, never clamped.
func (c *Catalog) At(index int) (models.Document, error) {
	if index < 0 || index >= len(c.presets) {
		return models.Document{}, fmt.Errorf("%w: %d (have %d presets)", ErrPresetIndexOutOfRange, index, len(c.presets))
	}
	return c.presets[index].Clone(), nil
}

// Find fuzzy-matches query against preset names and returns the best match.
func (c *Catalog) Find(query string) (models.Document, int, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Document{}, -1, false
	}
	matches := fuzzy.Find(query, c.Names())
	if len(matches) == 0 {
		return models.Document{}, -1, false
	}
	best := matches[0]
	return c.presets[best.Index].Clone(), best.Index, true
}

// FetchPreset downloads a single theme file and validates it like a strict
// import. The request is bound to ctx.
func FetchPreset(ctx context.Context, client *http.Client, url string) (models.Document, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Document{}, fmt.Errorf("build preset request: %w", err)
	}
	req.Header.Set("Accept", ExportContentType)

	resp, err := client.Do(req)
	if err != nil {
		return models.Document{}, fmt.Errorf("fetch preset %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Document{}, fmt.Errorf("fetch preset %s: unexpected status %d", url, resp.StatusCode)
	}
	return Import(resp.Body, ImportOptions{Colors: ColorsStrict})
}

// RemotePresets caches themes fetched from configured URLs. It is refreshed
// by a scheduled job and never changes the built-in Catalog.
type RemotePresets struct {
	client *http.Client
	urls   []string

	mu        sync.RWMutex
	presets   []models.Document
	fetchedAt time.Time
}

func NewRemotePresets(client *http.Client, urls []string) *RemotePresets {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemotePresets{
		client: client,
		urls:   append([]string(nil), urls...),
	}
}

// Refresh fetches every URL. Successful fetches replace the cache even when
// some URLs fail; the failures are joined into the returned error.
func (r *RemotePresets) Refresh(ctx context.Context) error {
	logger := log.Ctx(ctx)

	fetched := make([]models.Document, 0, len(r.urls))
	var errs []error
	for _, url := range r.urls {
		doc, err := FetchPreset(ctx, r.client, url)
		if err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("Failed to fetch remote preset")
			errs = append(errs, err)
			continue
		}
		fetched = append(fetched, doc)
	}

	r.mu.Lock()
	if len(fetched) > 0 || len(errs) == 0 {
		r.presets = fetched
		r.fetchedAt = time.Now().UTC()
	}
	r.mu.Unlock()

	logger.Info().Int("fetched", len(fetched)).Int("failed", len(errs)).Msg("Remote presets refreshed")
	return errors.Join(errs...)
}

func (r *RemotePresets) All() []models.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]models.Document, len(r.presets))
	for i, preset := range r.presets {
		docs[i] = preset.Clone()
	}
	return docs
}

func (r *RemotePresets) FetchedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fetchedAt
}
