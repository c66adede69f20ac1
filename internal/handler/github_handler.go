package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/portfolio/internal/github"
	"github.com/hitoshi/portfolio/internal/middleware"
	"github.com/hitoshi/portfolio/internal/model"
)

// GitHubHandler はGitHubプロフィールのJSON APIハンドラー。
type GitHubHandler struct {
	fetcher github.ProfileFetcher
	logger  *slog.Logger
}

// NewGitHubHandler はGitHubHandlerを生成する。
func NewGitHubHandler(fetcher github.ProfileFetcher, logger *slog.Logger) *GitHubHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GitHubHandler{fetcher: fetcher, logger: logger}
}

// GetProfile はGitHubプロフィールを返す。
// GET /api/github/{login}
func (h *GitHubHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")
	if !github.ValidLogin(login) {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidLoginError(login))
		return
	}

	profile, err := h.fetcher.FetchProfile(r.Context(), login)
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadGateway, model.NewProfileFetchFailedError(login))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}
