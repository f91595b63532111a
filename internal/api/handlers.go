package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/nilszeilon/promptimg/internal/i18n"
	"github.com/nilszeilon/promptimg/internal/imageref"
	"github.com/nilszeilon/promptimg/internal/preview"
)

// Prompts may carry inline base64 images, so the limit is generous.
const maxBodyBytes = 32 << 20

type TextRequest struct {
	Text string `json:"text"`
}

type ExtractResponse struct {
	Images []string `json:"images"`
}

type PlaceholderRequest struct {
	Reference string `json:"reference"`
	Base64    bool   `json:"base64"`
}

type PlaceholderResponse struct {
	Placeholder string `json:"placeholder"`
}

type Handler struct {
	renderer *preview.Renderer
	catalog  *i18n.Catalog
	token    string
}

func NewHandler(renderer *preview.Renderer, catalog *i18n.Catalog, token string) *Handler {
	return &Handler{renderer: renderer, catalog: catalog, token: token}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/extract", h.authMiddleware(h.handleExtract))
	mux.HandleFunc("/api/placeholder", h.authMiddleware(h.handlePlaceholder))
	mux.HandleFunc("/api/preview", h.authMiddleware(h.handlePreview))
	mux.HandleFunc("/api/i18n/", h.authMiddleware(h.handleTranslations))
}

func (h *Handler) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.token != "" {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || auth[7:] != h.token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decodePost(w, r, &req) {
		return
	}
	images := imageref.Extract(req.Text)
	log.WithField("images", len(images)).Debug("extracted image references")
	writeJSON(w, ExtractResponse{Images: images})
}

func (h *Handler) handlePlaceholder(w http.ResponseWriter, r *http.Request) {
	var req PlaceholderRequest
	if !decodePost(w, r, &req) {
		return
	}
	writeJSON(w, PlaceholderResponse{Placeholder: imageref.Encode(req.Reference, req.Base64)})
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decodePost(w, r, &req) {
		return
	}
	out, err := h.renderer.RenderString(req.Text)
	if err != nil {
		log.Printf("preview render error: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(out))
}

func (h *Handler) handleTranslations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	lang := strings.TrimPrefix(r.URL.Path, "/api/i18n/")
	if lang == "" {
		lang = h.catalog.Language()
	}
	all, err := h.catalog.All(lang)
	if err != nil {
		if errors.Is(err, i18n.ErrUnsupportedLanguage) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, all)
}

func decodePost(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
