package proxy

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sorabridge/internal/videoapi"
)

const hashHeader = "x-password-hash"

type remixRequest struct {
	Prompt       string `json:"prompt"`
	PasswordHash string `json:"passwordHash"`
}

// CreateVideo handles POST /api/videos (multipart form).
func (a *App) CreateVideo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.MaxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}
	if !a.authorized(r.FormValue("passwordHash")) {
		a.error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	req := videoapi.CreateRequest{
		Model:   r.FormValue("model"),
		Prompt:  r.FormValue("prompt"),
		Size:    r.FormValue("size"),
		Seconds: r.FormValue("seconds"),
	}
	file, header, err := r.FormFile("input_reference")
	switch {
	case err == nil:
		data, readErr := io.ReadAll(file)
		file.Close()
		if readErr != nil {
			a.error(w, http.StatusBadRequest, "unreadable input_reference")
			return
		}
		mime := header.Header.Get("Content-Type")
		if mime == "" {
			mime = http.DetectContentType(data)
		}
		req.InputReference = &videoapi.InputReference{
			Filename: header.Filename,
			MIME:     mime,
			Data:     data,
		}
	case errors.Is(err, http.ErrMissingFile):
	default:
		a.error(w, http.StatusBadRequest, "invalid input_reference part")
		return
	}

	job, err := a.Client.Create(r.Context(), req)
	if err != nil {
		a.clientError(w, err)
		return
	}
	a.json(w, http.StatusOK, job)
}

// RemixVideo handles POST /api/videos/{id}/remix (JSON body).
func (a *App) RemixVideo(w http.ResponseWriter, r *http.Request) {
	var req remixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if !a.authorized(req.PasswordHash) {
		a.error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	job, err := a.Client.Remix(r.Context(), chi.URLParam(r, "id"), req.Prompt)
	if err != nil {
		a.clientError(w, err)
		return
	}
	a.json(w, http.StatusOK, job)
}

// GetVideo handles GET /api/videos/{id}.
func (a *App) GetVideo(w http.ResponseWriter, r *http.Request) {
	if !a.authorized(r.Header.Get(hashHeader)) {
		a.error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	job, err := a.Client.Retrieve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.clientError(w, err)
		return
	}
	a.json(w, http.StatusOK, job)
}

// DeleteVideo handles DELETE /api/videos/{id}.
func (a *App) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	if !a.authorized(r.Header.Get(hashHeader)) {
		a.error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := a.Client.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.clientError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadVideoContent handles GET /api/videos/{id}/content. The hash
// may arrive as a query parameter or the usual header.
func (a *App) DownloadVideoContent(w http.ResponseWriter, r *http.Request) {
	presented := r.URL.Query().Get("password-hash")
	if presented == "" {
		presented = r.Header.Get(hashHeader)
	}
	if !a.authorized(presented) {
		a.error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	variant := videoapi.ContentVariant(r.URL.Query().Get("variant"))
	blob, err := a.Client.DownloadContent(r.Context(), chi.URLParam(r, "id"), variant)
	if err != nil {
		a.clientError(w, err)
		return
	}
	w.Header().Set("Content-Type", blob.MIME)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	_, _ = w.Write(blob.Data)
}
