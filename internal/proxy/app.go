package proxy

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"sorabridge/internal/infra"
	"sorabridge/internal/videoapi"
)

// App holds the proxy's collaborators: a provider-direct media job
// client plus the expected credential hash. The raw provider key lives
// only inside the client; callers prove authorization with the hash.
type App struct {
	Client         *videoapi.Client
	PasswordHash   string
	MaxUploadBytes int64
	Logger         infra.Logger
}

func NewApp(client *videoapi.Client, passwordHash string, maxUploadBytes int64, logger infra.Logger) *App {
	if maxUploadBytes <= 0 {
		maxUploadBytes = videoapi.MaxInputReferenceBytes
	}
	return &App{
		Client:         client,
		PasswordHash:   passwordHash,
		MaxUploadBytes: maxUploadBytes,
		Logger:         logger,
	}
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authorized compares a presented hash against the configured one in
// constant time. An unset hash disables the check.
func (a *App) authorized(presented string) bool {
	if a.PasswordHash == "" {
		return true
	}
	if len(presented) != len(a.PasswordHash) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(a.PasswordHash)) == 1
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes the wire error shape the client contract expects: a JSON
// object whose error field is the human-readable message.
func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}

// clientError maps a media job client failure onto a response. Provider
// statuses pass through when known.
func (a *App) clientError(w http.ResponseWriter, err error) {
	var verr *videoapi.ValidationError
	if errors.As(err, &verr) {
		a.error(w, http.StatusBadRequest, verr.Error())
		return
	}
	var ierr *videoapi.InvalidCredentialError
	if errors.As(err, &ierr) {
		a.Logger.Error().Err(err).Msg("provider rejected server credential")
		a.error(w, http.StatusBadGateway, ierr.Error())
		return
	}
	var terr *videoapi.TransportError
	if errors.As(err, &terr) {
		code := http.StatusBadGateway
		if terr.Status >= 400 {
			code = terr.Status
		}
		a.error(w, code, terr.Error())
		return
	}
	a.Logger.Error().Err(err).Msg("video operation failed")
	a.error(w, http.StatusInternalServerError, "internal error")
}
