package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/portfolio/internal/model"
)

// ErrorResponseBody は /api/github/{login} や /auth/me などJSONを返すエンドポイントのエラー本文。
// HTMLページは描画エラー時もこの形式を使わない。
type ErrorResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// WriteErrorResponse はapiErrをJSONで書き込む。
// 不正なGitHubユーザー名(400)、未ログイン(401)、GitHub取得失敗(502)、レート制限超過(429)で使う。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// WriteInternalServerError はパニック回復時と、認証APIがシェル外で呼ばれた場合の500応答を書き込む。
// 原因はログにのみ残し、本文には含めない。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}
