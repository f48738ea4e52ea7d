package themes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/codr1/folio/internal/models"
	"github.com/codr1/folio/internal/ratelimit"
	"github.com/codr1/folio/internal/templates/layouts"
	"github.com/codr1/folio/internal/theming"
)

const oceanJSON = `{"name":"Ocean","semantic":{"primary":"#3b82f6","background":"#ffffff"}}`

type themeTestEnv struct {
	handler *Handler
	mux     *http.ServeMux
	storage *theming.MemoryStorage
	store   *theming.Store
	sheet   *layouts.StyleSheet
}

func setupThemeHandler(t *testing.T, limiter *ratelimit.Limiter) *themeTestEnv {
	t.Helper()

	catalog, err := theming.LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	storage := theming.NewMemoryStorage()
	sheet := layouts.NewStyleSheet()
	store := theming.NewStore(storage, sheet, theming.StoreOptions{})
	store.Hydrate(context.Background())

	handler := NewHandler(Deps{
		Store:      store,
		History:    theming.NewHistory(20),
		Catalog:    catalog,
		Remote:     theming.NewRemotePresets(nil, nil),
		StyleSheet: sheet,
		Limiter:    limiter,
		BaseURL:    "https://folio.example.com/",
	})
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return &themeTestEnv{handler: handler, mux: mux, storage: storage, store: store, sheet: sheet}
}

func (e *themeTestEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	e.mux.ServeHTTP(recorder, req)
	return recorder
}

func decodeDocument(t *testing.T, recorder *httptest.ResponseRecorder) models.Document {
	t.Helper()

	var doc models.Document
	if err := json.NewDecoder(recorder.Body).Decode(&doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return doc
}

func TestGetTheme_Default(t *testing.T) {
	env := setupThemeHandler(t, nil)

	recorder := env.serve(httptest.NewRequest(http.MethodGet, "/api/v1/theme", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	if doc := decodeDocument(t, recorder); doc.Name != "default" {
		t.Fatalf("unexpected theme: %s", doc.Name)
	}
}

func TestReplaceTheme_ValidInput(t *testing.T) {
	env := setupThemeHandler(t, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/theme", strings.NewReader(oceanJSON))
	req.Header.Set("Content-Type", "application/json")
	recorder := env.serve(req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	if env.store.Current().Name != "Ocean" {
		t.Fatalf("active theme = %q", env.store.Current().Name)
	}
	if value, _ := env.sheet.Value("--color-primary"); value != "#3b82f6" {
		t.Fatalf("--color-primary = %q", value)
	}
	raw, err := env.storage.Get(context.Background(), theming.DefaultStorageKey)
	if err != nil || !strings.Contains(raw, `"Ocean"`) {
		t.Fatalf("persisted = %q, %v", raw, err)
	}
}

func TestReplaceTheme_InvalidColor(t *testing.T) {
	env := setupThemeHandler(t, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/theme", strings.NewReader(`{"name":"Bad","semantic":{"primary":"#12345G"}}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := env.serve(req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "semantic.primary") {
		t.Fatalf("unexpected error: %s", recorder.Body.String())
	}
	if env.store.Current().Name != "default" {
		t.Fatalf("active theme changed after invalid input")
	}
}

func TestPatchTheme(t *testing.T) {
	env := setupThemeHandler(t, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/theme", strings.NewReader(`{"name":"Renamed"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := env.serve(req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	doc := decodeDocument(t, recorder)
	if doc.Name != "Renamed" || doc.Semantic[models.TokenPrimary] != models.DefaultDocument().Semantic[models.TokenPrimary] {
		t.Fatalf("patched theme = %+v", doc)
	}

	bad := httptest.NewRequest(http.MethodPatch, "/api/v1/theme", strings.NewReader(`{"semantic":{"primary":"blue"}}`))
	bad.Header.Set("Content-Type", "application/json")
	if recorder := env.serve(bad); recorder.Code != http.StatusBadRequest {
		t.Fatalf("invalid patch status: %d", recorder.Code)
	}
	if env.store.Current().Semantic[models.TokenPrimary] == "blue" {
		t.Fatalf("invalid patch was applied")
	}
}

func TestSetToken(t *testing.T) {
	env := setupThemeHandler(t, nil)

	tests := []struct {
		name        string
		token       string
		body        string
		contentType string
		wantStatus  int
	}{
		{name: "json", token: "warning", body: `{"value":"#f59e0b"}`, contentType: "application/json", wantStatus: http.StatusOK},
		{name: "form", token: "ring", body: "value=%23aabbcc", contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusOK},
		{name: "unknown_token", token: "sidebar", body: `{"value":"#f59e0b"}`, contentType: "application/json", wantStatus: http.StatusBadRequest},
		{name: "invalid_color", token: "warning", body: `{"value":"orange"}`, contentType: "application/json", wantStatus: http.StatusBadRequest},
		{name: "missing_value", token: "warning", body: "", contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusBadRequest},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/v1/theme/tokens/"+test.token, strings.NewReader(test.body))
			req.Header.Set("Content-Type", test.contentType)
			recorder := env.serve(req)

			if recorder.Code != test.wantStatus {
				t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
			}
		})
	}

	current := env.store.Current()
	if current.Semantic[models.TokenWarning] != "#f59e0b" || current.Semantic[models.TokenRing] != "#aabbcc" {
		t.Fatalf("tokens not applied: %#v", current.Semantic)
	}
}

func TestSetToken_HTMXRendersBuilder(t *testing.T) {
	env := setupThemeHandler(t, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/theme/tokens/primary", strings.NewReader("value=%23ef4444"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	recorder := env.serve(req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	if recorder.Header().Get("HX-Trigger") != "themeChanged" {
		t.Fatalf("HX-Trigger = %q", recorder.Header().Get("HX-Trigger"))
	}
	if !strings.Contains(recorder.Body.String(), `id="theme-builder"`) {
		t.Fatalf("unexpected body: %s", recorder.Body.String())
	}
}

func TestApplyPreset(t *testing.T) {
	env := setupThemeHandler(t, nil)

	recorder := env.serve(httptest.NewRequest(http.MethodPost, "/api/v1/theme/presets/3", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	if doc := decodeDocument(t, recorder); doc.Name != "Ocean" {
		t.Fatalf("applied preset = %q", doc.Name)
	}

	for _, index := range []string{"99", "-1", "abc"} {
		recorder := env.serve(httptest.NewRequest(http.MethodPost, "/api/v1/theme/presets/"+index, nil))
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("preset %s status: %d", index, recorder.Code)
		}
	}
	if env.store.Current().Name != "Ocean" {
		t.Fatalf("invalid preset index changed the active theme")
	}
}

func TestListPresets(t *testing.T) {
	env := setupThemeHandler(t, nil)

	recorder := env.serve(httptest.NewRequest(http.MethodGet, "/api/v1/theme/presets", nil))
	var resp struct {
		Presets []presetResponse `json:"presets"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Presets) != 5 || resp.Presets[3].Name != "Ocean" || resp.Presets[3].Index != 3 {
		t.Fatalf("presets = %+v", resp.Presets)
	}

	recorder = env.serve(httptest.NewRequest(http.MethodGet, "/api/v1/theme/presets?q=contrast", nil))
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Presets) != 1 || resp.Presets[0].Name != "High Contrast" {
		t.Fatalf("fuzzy presets = %+v", resp.Presets)
	}

	if recorder := env.serve(httptest.NewRequest(http.MethodGet, "/api/v1/theme/presets?q=zzzz", nil)); recorder.Code != http.StatusNotFound {
		t.Fatalf("no-match status: %d", recorder.Code)
	}
}

func TestRemotePresetsEmpty(t *testing.T) {
	env := setupThemeHandler(t, nil)

	recorder := env.serve(httptest.NewRequest(http.MethodGet, "/api/v1/theme/presets/remote", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	if strings.TrimSpace(recorder.Body.String()) != `{"presets":[]}` {
		t.Fatalf("unexpected body: %s", recorder.Body.String())
	}
}

func TestExportTheme(t *testing.T) {
	env := setupThemeHandler(t, nil)

	recorder := env.serve(httptest.NewRequest(http.MethodGet, "/api/v1/theme/export", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	if got := recorder.Header().Get("Content-Disposition"); got != `attachment; filename="default.json"` {
		t.Fatalf("Content-Disposition = %q", got)
	}
	if got := recorder.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("Content-Type = %q", got)
	}
	if doc := decodeDocument(t, recorder); doc.Name != "default" {
		t.Fatalf("exported theme = %q", doc.Name)
	}
}

func multipartImport(t *testing.T, target, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "theme.json")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestImportTheme_Multipart(t *testing.T) {
	env := setupThemeHandler(t, nil)

	recorder := env.serve(multipartImport(t, "/api/v1/theme/import", oceanJSON))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	if env.store.Current().Name != "Ocean" {
		t.Fatalf("active theme = %q", env.store.Current().Name)
	}
}

func TestImportTheme_Invalid(t *testing.T) {
	env := setupThemeHandler(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "not_json", body: "not a theme"},
		{name: "missing_name", body: `{"semantic":{}}`},
		{name: "bad_color", body: `{"name":"x","semantic":{"primary":"blue"}}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/theme/import", strings.NewReader(test.body))
			req.Header.Set("Content-Type", "application/json")
			recorder := env.serve(req)

			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("status: %d", recorder.Code)
			}
			if !strings.Contains(recorder.Body.String(), "Invalid theme file") {
				t.Fatalf("unexpected body: %s", recorder.Body.String())
			}
			if env.store.Current().Name != "default" {
				t.Fatalf("active theme changed after invalid import")
			}
		})
	}
}

func TestImportTheme_ColorPolicies(t *testing.T) {
	env := setupThemeHandler(t, nil)
	body := `{"name":"Mixed","semantic":{"primary":"#3b82f6","accent":"green"}}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/theme/import?colors=drop", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := env.serve(req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("drop status: %d", recorder.Code)
	}
	if _, ok := env.store.Current().Semantic[models.TokenAccent]; ok {
		t.Fatalf("invalid accent should have been dropped")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/theme/import?colors=lenient", strings.NewReader(body))
	if recorder := env.serve(req); recorder.Code != http.StatusBadRequest {
		t.Fatalf("unknown policy status: %d", recorder.Code)
	}
}

func TestImportTheme_HTMXError(t *testing.T) {
	env := setupThemeHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/theme/import", strings.NewReader("{"))
	req.Header.Set("HX-Request", "true")
	recorder := env.serve(req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
	if recorder.Header().Get("HX-Retarget") != "#theme-feedback" {
		t.Fatalf("HX-Retarget = %q", recorder.Header().Get("HX-Retarget"))
	}
	if !strings.Contains(recorder.Body.String(), `class="feedback"`) {
		t.Fatalf("unexpected body: %s", recorder.Body.String())
	}
}

func TestImportTheme_RateLimited(t *testing.T) {
	limiter := ratelimit.New(&ratelimit.Config{
		ImportCooldown:     time.Hour,
		ImportMaxIPPerHour: 10,
		ShareMaxIPPerHour:  10,
	})
	t.Cleanup(limiter.Close)
	env := setupThemeHandler(t, limiter)

	first := env.serve(multipartImport(t, "/api/v1/theme/import", oceanJSON))
	if first.Code != http.StatusOK {
		t.Fatalf("first import status: %d", first.Code)
	}

	second := env.serve(multipartImport(t, "/api/v1/theme/import", oceanJSON))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second import status: %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatalf("Retry-After header missing")
	}
}

func TestShareRoundTrip(t *testing.T) {
	env := setupThemeHandler(t, nil)
	source := setupThemeHandler(t, nil)
	source.serve(httptest.NewRequest(http.MethodPost, "/api/v1/theme/presets/3", nil))

	recorder := source.serve(httptest.NewRequest(http.MethodGet, "/api/v1/theme/share", nil))
	var resp shareResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(resp.URL, "https://folio.example.com/theme?share=") {
		t.Fatalf("share url = %q", resp.URL)
	}

	link, err := url.Parse(resp.URL)
	if err != nil {
		t.Fatalf("parse share url: %v", err)
	}
	page := env.serve(httptest.NewRequest(http.MethodGet, link.RequestURI(), nil))
	if page.Code != http.StatusOK {
		t.Fatalf("share page status: %d", page.Code)
	}
	if env.store.Current().Name != "Ocean" {
		t.Fatalf("shared theme not applied: %q", env.store.Current().Name)
	}
}

func TestShareRoundTrip_LooseImport(t *testing.T) {
	env := setupThemeHandler(t, nil)
	source := setupThemeHandler(t, nil)
	body := `{"name":"Loose","semantic":{"primary":"#3b82f6"},"primitives":{"transparent":"transparent"}}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/theme/import?colors=loose", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if recorder := source.serve(req); recorder.Code != http.StatusOK {
		t.Fatalf("loose import status: %d body: %s", recorder.Code, recorder.Body.String())
	}

	recorder := source.serve(httptest.NewRequest(http.MethodGet, "/api/v1/theme/share", nil))
	var resp shareResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	link, err := url.Parse(resp.URL)
	if err != nil {
		t.Fatalf("parse share url: %v", err)
	}

	page := env.serve(httptest.NewRequest(http.MethodGet, link.RequestURI(), nil))
	if page.Code != http.StatusOK {
		t.Fatalf("share page status: %d body: %s", page.Code, page.Body.String())
	}
	if got := env.store.Current(); got.Name != "Loose" || got.Primitives["transparent"] != "transparent" {
		t.Fatalf("shared theme = %+v", got)
	}
}

func TestSharePage_InvalidLink(t *testing.T) {
	env := setupThemeHandler(t, nil)

	recorder := env.serve(httptest.NewRequest(http.MethodGet, "/theme?share=not-a-theme", nil))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
	if env.store.Current().Name != "default" {
		t.Fatalf("active theme changed after invalid share link")
	}
}

func TestUndoRedo(t *testing.T) {
	env := setupThemeHandler(t, nil)

	if recorder := env.serve(httptest.NewRequest(http.MethodPost, "/api/v1/theme/undo", nil)); recorder.Code != http.StatusConflict {
		t.Fatalf("undo on fresh history status: %d", recorder.Code)
	}

	env.serve(httptest.NewRequest(http.MethodPost, "/api/v1/theme/presets/3", nil))

	recorder := env.serve(httptest.NewRequest(http.MethodPost, "/api/v1/theme/undo", nil))
	if recorder.Code != http.StatusOK || decodeDocument(t, recorder).Name != "default" {
		t.Fatalf("undo did not restore default (status %d)", recorder.Code)
	}
	if env.store.Current().Name != "default" {
		t.Fatalf("active theme after undo = %q", env.store.Current().Name)
	}

	recorder = env.serve(httptest.NewRequest(http.MethodPost, "/api/v1/theme/redo", nil))
	if recorder.Code != http.StatusOK || decodeDocument(t, recorder).Name != "Ocean" {
		t.Fatalf("redo did not restore Ocean (status %d)", recorder.Code)
	}

	if recorder := env.serve(httptest.NewRequest(http.MethodPost, "/api/v1/theme/redo", nil)); recorder.Code != http.StatusConflict {
		t.Fatalf("redo at newest entry status: %d", recorder.Code)
	}
}

func TestConcurrentEditsKeepHistoryInApplyOrder(t *testing.T) {
	env := setupThemeHandler(t, nil)
	presets := env.handler.catalog.Len()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			target := fmt.Sprintf("/api/v1/theme/presets/%d", index%presets)
			env.serve(httptest.NewRequest(http.MethodPost, target, nil))
		}(i)
	}
	wg.Wait()

	active := env.store.Current()
	if _, ok := env.handler.history.Undo(); !ok {
		t.Fatalf("history should hold the concurrent edits")
	}
	newest, ok := env.handler.history.Redo()
	if !ok {
		t.Fatalf("redo back to the newest entry failed")
	}
	if !reflect.DeepEqual(newest, active) {
		t.Fatalf("newest history entry %q does not match active theme %q", newest.Name, active.Name)
	}
}

func TestThemePatch_AfterLooseImport(t *testing.T) {
	env := setupThemeHandler(t, nil)
	body := `{"name":"Loose","semantic":{"primary":"#3b82f6","accent":"green"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/theme/import?colors=loose", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if recorder := env.serve(req); recorder.Code != http.StatusOK {
		t.Fatalf("loose import status: %d", recorder.Code)
	}

	rename := httptest.NewRequest(http.MethodPatch, "/api/v1/theme", strings.NewReader(`{"name":"Renamed"}`))
	rename.Header.Set("Content-Type", "application/json")
	recorder := env.serve(rename)
	if recorder.Code != http.StatusOK {
		t.Fatalf("rename status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	if doc := env.store.Current(); doc.Name != "Renamed" || doc.Semantic[models.TokenAccent] != "green" {
		t.Fatalf("patched theme = %+v", doc)
	}

	bad := httptest.NewRequest(http.MethodPatch, "/api/v1/theme", strings.NewReader(`{"semantic":{"primary":"red"}}`))
	bad.Header.Set("Content-Type", "application/json")
	if recorder := env.serve(bad); recorder.Code != http.StatusBadRequest {
		t.Fatalf("invalid patch status: %d", recorder.Code)
	}
	if env.store.Current().Semantic[models.TokenPrimary] != "#3b82f6" {
		t.Fatalf("invalid patch changed the active theme")
	}
}

func TestResetTheme(t *testing.T) {
	env := setupThemeHandler(t, nil)
	env.serve(httptest.NewRequest(http.MethodPost, "/api/v1/theme/presets/3", nil))

	recorder := env.serve(httptest.NewRequest(http.MethodDelete, "/api/v1/theme", nil))

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("status: %d", recorder.Code)
	}
	if env.store.Current().Name != "default" {
		t.Fatalf("active theme after reset = %q", env.store.Current().Name)
	}
	if _, err := env.storage.Get(context.Background(), theming.DefaultStorageKey); err == nil {
		t.Fatalf("persisted theme not removed")
	}
}

func TestAudit(t *testing.T) {
	env := setupThemeHandler(t, nil)
	env.serve(httptest.NewRequest(http.MethodPost, "/api/v1/theme/presets/4", nil))

	recorder := env.serve(httptest.NewRequest(http.MethodGet, "/api/v1/theme/audit", nil))
	var resp struct {
		Checks  []models.ContrastCheck `json:"checks"`
		Failing int                    `json:"failing"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Checks) != len(models.AuditPairs()) || resp.Failing != 0 {
		t.Fatalf("High Contrast audit = %+v", resp)
	}
}

func TestPalette(t *testing.T) {
	env := setupThemeHandler(t, nil)

	recorder := env.serve(httptest.NewRequest(http.MethodGet, "/api/v1/theme/palette?family=blue", nil))
	var family models.ColorFamily
	if err := json.NewDecoder(recorder.Body).Decode(&family); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if family.Name != "Blue" || len(family.Shades) == 0 {
		t.Fatalf("family = %+v", family)
	}

	if recorder := env.serve(httptest.NewRequest(http.MethodGet, "/api/v1/theme/palette?family=mauve", nil)); recorder.Code != http.StatusNotFound {
		t.Fatalf("unknown family status: %d", recorder.Code)
	}
}

func TestComplement(t *testing.T) {
	env := setupThemeHandler(t, nil)

	recorder := env.serve(httptest.NewRequest(http.MethodGet, "/api/v1/theme/complement?color=%23ff0000", nil))
	var resp map[string]any
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["complement"] != "#00ffff" {
		t.Fatalf("complement = %v", resp["complement"])
	}

	if recorder := env.serve(httptest.NewRequest(http.MethodGet, "/api/v1/theme/complement?color=red", nil)); recorder.Code != http.StatusBadRequest {
		t.Fatalf("invalid color status: %d", recorder.Code)
	}
}

func TestStyleSheetETag(t *testing.T) {
	env := setupThemeHandler(t, nil)

	recorder := env.serve(httptest.NewRequest(http.MethodGet, "/theme.css", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "--color-primary:#3b82f6;") {
		t.Fatalf("unexpected css: %s", recorder.Body.String())
	}
	etag := recorder.Header().Get("ETag")

	req := httptest.NewRequest(http.MethodGet, "/theme.css", nil)
	req.Header.Set("If-None-Match", etag)
	if recorder := env.serve(req); recorder.Code != http.StatusNotModified {
		t.Fatalf("conditional status: %d", recorder.Code)
	}

	env.serve(httptest.NewRequest(http.MethodPost, "/api/v1/theme/presets/3", nil))
	req = httptest.NewRequest(http.MethodGet, "/theme.css", nil)
	req.Header.Set("If-None-Match", etag)
	if recorder := env.serve(req); recorder.Code != http.StatusOK {
		t.Fatalf("stale etag status: %d", recorder.Code)
	}
}

func TestThemePage(t *testing.T) {
	env := setupThemeHandler(t, nil)

	recorder := env.serve(httptest.NewRequest(http.MethodGet, "/theme", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.HasPrefix(body, "<!DOCTYPE html>") || !strings.Contains(body, `id="theme-builder"`) {
		t.Fatalf("unexpected page: %s", body)
	}

	req := httptest.NewRequest(http.MethodGet, "/theme", nil)
	req.Header.Set("HX-Request", "true")
	fragment := env.serve(req).Body.String()
	if strings.Contains(fragment, "<!DOCTYPE html>") {
		t.Fatalf("htmx request should get the builder fragment only")
	}
}
