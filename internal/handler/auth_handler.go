package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/portfolio/internal/middleware"
	"github.com/hitoshi/portfolio/internal/model"
	"github.com/hitoshi/portfolio/internal/router"
)

// AuthHandler はログイン・ログアウト関連のHTTPハンドラー。
// いずれもレイアウトミドルウェアの内側に配置し、Shellを経由してLifecycleを呼び出す。
type AuthHandler struct {
	logger *slog.Logger
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{logger: logger}
}

// Login は認可URLへリダイレクトする。
// GET /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	shell, ok := h.shell(w, r)
	if !ok {
		return
	}
	shell.Lifecycle.BeginLogin()
}

// Callback は認可コードを交換し、成功時はProfile、失敗時はHomeへリダイレクトする。
// 失敗はログのみに記録し、ユーザーには表示しない。
// GET /auth/callback?code=xxx
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	shell, ok := h.shell(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	if !query.Has("code") {
		shell.Lifecycle.AbandonLogin()
		return
	}
	shell.Lifecycle.CompleteLogin(r.Context(), query.Get("code"))
}

// Logout はセッションを破棄してHomeへリダイレクトする。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	shell, ok := h.shell(w, r)
	if !ok {
		return
	}
	shell.Lifecycle.Logout()
	shell.Navigator.Push(router.Home)
}

// Me は現在のセッションを返す。未ログインの場合は401を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	shell, ok := h.shell(w, r)
	if !ok {
		return
	}

	user := shell.User()
	if user == nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(user)
}

func (h *AuthHandler) shell(w http.ResponseWriter, r *http.Request) (*Shell, bool) {
	shell := ShellFromContext(r.Context())
	if shell == nil {
		h.logger.Error("auth handler mounted outside of the shell middleware", slog.String("path", r.URL.Path))
		middleware.WriteInternalServerError(w)
		return nil, false
	}
	return shell, true
}
