// internal/api/themes/handlers.go
package themes

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/folio/internal/api/apiutil"
	"github.com/codr1/folio/internal/api/htmx"
	"github.com/codr1/folio/internal/models"
	"github.com/codr1/folio/internal/ratelimit"
	themetempl "github.com/codr1/folio/internal/templates/components/themes"
	"github.com/codr1/folio/internal/templates/layouts"
	"github.com/codr1/folio/internal/theming"
)

const (
	tokenParam        = "token"
	presetIndexParam  = "index"
	shareQueryKey     = "share"
	colorsQueryKey    = "colors"
	importFormField   = "file"
	maxMultipartBytes = 2 << 20
	themeChangedEvent = "themeChanged"
	pageTitle         = "Theme builder"
	feedbackTarget    = "#theme-feedback"
)

// Deps are the collaborators a Handler needs. Remote and Limiter are
// optional.
type Deps struct {
	Store      *theming.Store
	History    *theming.History
	Catalog    *theming.Catalog
	Remote     *theming.RemotePresets
	StyleSheet *layouts.StyleSheet
	Limiter    *ratelimit.Limiter
	BaseURL    string
	TrustProxy bool
}

type Handler struct {
	// mu orders store changes and history entries together so undo always
	// steps back from the active document.
	mu sync.Mutex

	store      *theming.Store
	history    *theming.History
	catalog    *theming.Catalog
	remote     *theming.RemotePresets
	sheet      *layouts.StyleSheet
	limiter    *ratelimit.Limiter
	baseURL    string
	trustProxy bool
}

type tokenRequest struct {
	Value string `json:"value"`
}

type presetResponse struct {
	Index    int             `json:"index"`
	Name     string          `json:"name"`
	Document models.Document `json:"document"`
}

type shareResponse struct {
	URL     string `json:"url"`
	Encoded string `json:"encoded"`
}

// NewHandler seeds the history with the active document so the first change
// can be undone.
func NewHandler(deps Deps) *Handler {
	h := &Handler{
		store:      deps.Store,
		history:    deps.History,
		catalog:    deps.Catalog,
		remote:     deps.Remote,
		sheet:      deps.StyleSheet,
		limiter:    deps.Limiter,
		baseURL:    strings.TrimRight(deps.BaseURL, "/"),
		trustProxy: deps.TrustProxy,
	}
	if h.history == nil {
		h.history = theming.NewHistory(theming.DefaultHistorySize)
	}
	if h.history.Len() == 0 {
		h.history.Push(h.store.Current())
	}
	return h
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /theme", h.HandleThemePage)
	mux.HandleFunc("GET /theme.css", h.HandleStyleSheet)

	mux.HandleFunc("GET /api/v1/theme", h.HandleThemeGet)
	mux.HandleFunc("PUT /api/v1/theme", h.HandleThemeReplace)
	mux.HandleFunc("PATCH /api/v1/theme", h.HandleThemePatch)
	mux.HandleFunc("DELETE /api/v1/theme", h.HandleThemeReset)
	mux.HandleFunc("PUT /api/v1/theme/tokens/{token}", h.HandleTokenSet)

	mux.HandleFunc("GET /api/v1/theme/presets", h.HandlePresetsList)
	mux.HandleFunc("POST /api/v1/theme/presets/{index}", h.HandlePresetApply)
	mux.HandleFunc("GET /api/v1/theme/presets/remote", h.HandleRemotePresets)

	mux.HandleFunc("GET /api/v1/theme/export", h.HandleExport)
	mux.HandleFunc("POST /api/v1/theme/import", h.HandleImport)
	mux.HandleFunc("GET /api/v1/theme/share", h.HandleShare)

	mux.HandleFunc("POST /api/v1/theme/undo", h.HandleUndo)
	mux.HandleFunc("POST /api/v1/theme/redo", h.HandleRedo)

	mux.HandleFunc("GET /api/v1/theme/audit", h.HandleAudit)
	mux.HandleFunc("GET /api/v1/theme/palette", h.HandlePalette)
	mux.HandleFunc("GET /api/v1/theme/complement", h.HandleComplement)
}

// /theme
func (h *Handler) HandleThemePage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if encoded := r.URL.Query().Get(shareQueryKey); encoded != "" {
		if h.limiter != nil {
			ip := ratelimit.GetClientIP(r, h.trustProxy)
			if result := h.limiter.AllowShare(ip); !result.Allowed {
				ratelimit.LogRateLimitExceeded("share", ip, result.Reason)
				writeRetryAfter(w, result.RetryAfter)
				http.Error(w, "Too many shared themes, try again later", http.StatusTooManyRequests)
				return
			}
		}

		doc, ok := theming.DecodeShareLink(encoded)
		if !ok {
			logger.Warn().Msg("Rejected undecodable share link")
			http.Error(w, "Invalid share link", http.StatusBadRequest)
			return
		}
		h.commit(r, doc)
		logger.Info().Str("theme_name", doc.Name).Msg("Applied shared theme")
	}

	builder := themetempl.ThemeBuilder(h.builderData(r))
	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, builder, nil, "Failed to render theme builder", "Failed to render builder")
		return
	}

	page := layouts.Base(pageTitle, h.sheet, builder)
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render theme page", "Failed to render page")
}

// /theme.css
func (h *Handler) HandleStyleSheet(w http.ResponseWriter, r *http.Request) {
	etag := `W/"theme-` + strconv.FormatUint(h.sheet.Version(), 10) + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = io.WriteString(w, h.sheet.CSS())
}

// /api/v1/theme
func (h *Handler) HandleThemeGet(w http.ResponseWriter, r *http.Request) {
	h.respondDocument(w, r, http.StatusOK, h.store.Current())
}

func (h *Handler) HandleThemeReplace(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
	doc, err := theming.Import(r.Body, theming.ImportOptions{Colors: theming.ColorsStrict})
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.commit(r, doc)
	h.respondDocument(w, r, http.StatusOK, h.store.Current())
}

func (h *Handler) HandleThemePatch(w http.ResponseWriter, r *http.Request) {
	var patch models.Patch
	if err := apiutil.DecodeJSON(r, &patch); err != nil {
		h.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid patch: %v", err))
		return
	}

	doc, err := h.edit(func() (models.Document, error) {
		if err := h.store.Current().ValidatePatch(patch); err != nil {
			return models.Document{}, err
		}
		return h.store.Patch(r.Context(), patch), nil
	})
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.respondDocument(w, r, http.StatusOK, doc)
}

func (h *Handler) HandleThemeReset(w http.ResponseWriter, r *http.Request) {
	_, _ = h.edit(func() (models.Document, error) {
		return h.store.Reset(r.Context()), nil
	})
	log.Ctx(r.Context()).Info().Msg("Theme reset to default")

	if htmx.IsRequest(r) {
		h.renderBuilder(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// /api/v1/theme/tokens/{token}
func (h *Handler) HandleTokenSet(w http.ResponseWriter, r *http.Request) {
	token, err := models.ParseToken(r.PathValue(tokenParam))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Unknown theme token")
		return
	}

	value, err := decodeTokenValue(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !models.IsValidHexColor(value) {
		h.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("%s must be a hex color like #AABBCC or #ABC", token))
		return
	}

	doc, err := h.edit(func() (models.Document, error) {
		return h.store.SetToken(r.Context(), token, value)
	})
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.respondDocument(w, r, http.StatusOK, doc)
}

// /api/v1/theme/presets
func (h *Handler) HandlePresetsList(w http.ResponseWriter, r *http.Request) {
	if query := strings.TrimSpace(r.URL.Query().Get("q")); query != "" {
		doc, index, ok := h.catalog.Find(query)
		if !ok {
			http.Error(w, "No matching preset", http.StatusNotFound)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]any{
			"presets": []presetResponse{{Index: index, Name: doc.Name, Document: doc}},
		})
		return
	}

	presets := h.catalog.All()
	resp := make([]presetResponse, len(presets))
	for i, doc := range presets {
		resp[i] = presetResponse{Index: i, Name: doc.Name, Document: doc}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"presets": resp})
}

// /api/v1/theme/presets/{index}
func (h *Handler) HandlePresetApply(w http.ResponseWriter, r *http.Request) {
	index, err := apiutil.ParseIntField(r.PathValue(presetIndexParam), "preset index")
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.edit(func() (models.Document, error) {
		return h.store.ApplyPreset(r.Context(), h.catalog, index)
	})
	if err != nil {
		if errors.Is(err, theming.ErrPresetIndexOutOfRange) {
			h.writeError(w, r, http.StatusBadRequest, "Preset index out of range")
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Int("preset_index", index).Msg("Failed to apply preset")
		http.Error(w, "Failed to apply preset", http.StatusInternalServerError)
		return
	}

	h.respondDocument(w, r, http.StatusOK, doc)
}

// /api/v1/theme/presets/remote
func (h *Handler) HandleRemotePresets(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"presets": []models.Document{}}
	if h.remote != nil {
		resp["presets"] = h.remote.All()
		if fetchedAt := h.remote.FetchedAt(); !fetchedAt.IsZero() {
			resp["fetchedAt"] = fetchedAt.Format(time.RFC3339)
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// /api/v1/theme/export
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	file, err := theming.Export(h.store.Current())
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to export theme")
		http.Error(w, "Failed to export theme", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	_, _ = w.Write(file.Data)
}

// /api/v1/theme/import
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if h.limiter != nil {
		ip := ratelimit.GetClientIP(r, h.trustProxy)
		if result := h.limiter.CheckImport(ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded("import", ip, result.Reason)
			writeRetryAfter(w, result.RetryAfter)
			h.writeError(w, r, http.StatusTooManyRequests, "Too many imports, try again later")
			return
		}
		h.limiter.RecordImport(ip)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
	policy, err := theming.ParseColorPolicy(r.URL.Query().Get(colorsQueryKey))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	body, closeBody, err := importBody(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	defer closeBody()

	doc, err := theming.Import(body, theming.ImportOptions{Colors: policy})
	if err != nil {
		logger.Warn().Err(err).Str("policy", policy.String()).Msg("Rejected theme import")
		h.writeError(w, r, http.StatusBadRequest, "Invalid theme file: "+err.Error())
		return
	}

	h.commit(r, doc)
	logger.Info().Str("theme_name", doc.Name).Str("policy", policy.String()).Msg("Imported theme")
	h.respondDocument(w, r, http.StatusOK, h.store.Current())
}

// /api/v1/theme/share
func (h *Handler) HandleShare(w http.ResponseWriter, r *http.Request) {
	doc := h.store.Current()
	encoded, err := theming.EncodeShareLink(doc)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode share link")
		http.Error(w, "Failed to build share link", http.StatusInternalServerError)
		return
	}
	shareURL, err := theming.ShareURL(h.requestBaseURL(r), doc)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to build share URL")
		http.Error(w, "Failed to build share link", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, shareResponse{URL: shareURL, Encoded: encoded})
}

// /api/v1/theme/undo
func (h *Handler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.history.Undo, "Nothing to undo")
}

// /api/v1/theme/redo
func (h *Handler) HandleRedo(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.history.Redo, "Nothing to redo")
}

// step moves the history cursor and applies the entry it lands on.
func (h *Handler) step(w http.ResponseWriter, r *http.Request, move func() (models.Document, bool), emptyMessage string) {
	h.mu.Lock()
	doc, ok := move()
	if ok {
		doc = h.store.Apply(r.Context(), doc)
	}
	h.mu.Unlock()

	if !ok {
		h.writeError(w, r, http.StatusConflict, emptyMessage)
		return
	}
	h.respondDocument(w, r, http.StatusOK, doc)
}

// /api/v1/theme/audit
func (h *Handler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	checks := models.Audit(h.store.Current())
	failing := 0
	for _, check := range checks {
		if !check.AA {
			failing++
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"checks": checks, "failing": failing})
}

// /api/v1/theme/palette
func (h *Handler) HandlePalette(w http.ResponseWriter, r *http.Request) {
	if name := strings.TrimSpace(r.URL.Query().Get("family")); name != "" {
		family, ok := models.PaletteFamily(name)
		if !ok {
			http.Error(w, "Unknown color family", http.StatusNotFound)
			return
		}
		writeJSON(w, r, http.StatusOK, family)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"families": models.Palette()})
}

// /api/v1/theme/complement
func (h *Handler) HandleComplement(w http.ResponseWriter, r *http.Request) {
	color := strings.TrimSpace(r.URL.Query().Get("color"))
	complement, ok := models.ComplementaryColor(color)
	if !ok {
		http.Error(w, "color must be a hex color like #AABBCC or #ABC", http.StatusBadRequest)
		return
	}
	ratio, _ := models.ContrastRatio(color, complement)
	writeJSON(w, r, http.StatusOK, map[string]any{
		"color":      color,
		"complement": complement,
		"contrast":   math.Round(ratio*100) / 100,
	})
}

// commit applies doc and records it for undo.
func (h *Handler) commit(r *http.Request, doc models.Document) {
	_, _ = h.edit(func() (models.Document, error) {
		return h.store.Apply(r.Context(), doc), nil
	})
}

// edit runs one store change and pushes its result under h.mu, so history
// order always matches apply order. Nothing is pushed when change fails.
func (h *Handler) edit(change func() (models.Document, error)) (models.Document, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	doc, err := change()
	if err != nil {
		return models.Document{}, err
	}
	h.history.Push(doc)
	return doc, nil
}

func (h *Handler) builderData(r *http.Request) themetempl.BuilderData {
	doc := h.store.Current()
	data := themetempl.BuilderData{
		Document: doc,
		Tokens:   themetempl.NewTokenRows(doc),
		Checks:   models.Audit(doc),
		Presets:  themetempl.NewPresetOptions(h.catalog.Names(), doc.Name),
		CanUndo:  h.history.CanUndo(),
		CanRedo:  h.history.CanRedo(),
	}
	if shareURL, err := theming.ShareURL(h.requestBaseURL(r), doc); err == nil {
		data.ShareURL = shareURL
	}
	return data
}

func (h *Handler) renderBuilder(w http.ResponseWriter, r *http.Request) {
	headers := http.Header{}
	htmx.Trigger(headers, themeChangedEvent)
	apiutil.RenderHTMLComponent(r.Context(), w, themetempl.ThemeBuilder(h.builderData(r)), headers, "Failed to render theme builder", "Failed to render builder")
}

// respondDocument answers htmx requests with the refreshed builder and API
// clients with the document as JSON.
func (h *Handler) respondDocument(w http.ResponseWriter, r *http.Request, status int, doc models.Document) {
	if htmx.IsRequest(r) {
		h.renderBuilder(w, r)
		return
	}
	writeJSON(w, r, status, doc)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if htmx.IsRequest(r) {
		htmx.Retarget(w.Header(), feedbackTarget, "innerHTML")
		apiutil.WriteHTMLFeedback(w, status, message)
		return
	}
	http.Error(w, message, status)
}

func (h *Handler) requestBaseURL(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func decodeTokenValue(r *http.Request) (string, error) {
	if apiutil.IsJSONRequest(r) {
		var req tokenRequest
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return "", apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err}
		}
		return strings.TrimSpace(req.Value), nil
	}

	if err := r.ParseForm(); err != nil {
		return "", apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid form body", Err: err}
	}
	value := apiutil.FirstNonEmpty(r.FormValue("value"), r.FormValue("color"))
	if value == "" {
		return "", apiutil.HandlerError{Status: http.StatusBadRequest, Message: "value is required"}
	}
	return value, nil
}

// importBody returns the uploaded theme file for multipart requests and the
// raw body otherwise.
func importBody(r *http.Request) (io.Reader, func(), error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return r.Body, func() {}, nil
	}

	if err := r.ParseMultipartForm(maxMultipartBytes); err != nil {
		return nil, nil, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid upload", Err: err}
	}
	file, _, err := r.FormFile(importFormField)
	if err != nil {
		return nil, nil, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "file is required", Err: err}
	}
	return file, func() { _ = file.Close() }, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write JSON response")
	}
}

func writeRetryAfter(w http.ResponseWriter, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
}
