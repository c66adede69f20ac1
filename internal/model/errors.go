package model

import (
	"errors"
	"fmt"
)

// 呼び出し元が errors.Is で判定するためのエラー種別。
var (
	// ErrProfileFetchFailed はGitHubプロフィールの取得またはパースに失敗したことを示す。
	ErrProfileFetchFailed = errors.New("profile fetch failed")
	// ErrAuthExchangeFailed は認可コードの交換またはユーザー情報の取得に失敗したことを示す。
	ErrAuthExchangeFailed = errors.New("auth exchange failed")
	// ErrPersistenceUnavailable はセッションマーカーの保存先にアクセスできないことを示す。
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, github, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeProfileFetchFailed = "PROFILE_FETCH_FAILED"
	ErrCodeInvalidLogin       = "INVALID_LOGIN"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeRateLimited        = "RATE_LIMITED"
)

// NewProfileFetchFailedError はGitHubプロフィール取得失敗エラーを生成する。
func NewProfileFetchFailedError(login string) *APIError {
	return &APIError{
		Code:     ErrCodeProfileFetchFailed,
		Message:  fmt.Sprintf("GitHubプロフィールを取得できませんでした: %s", login),
		Category: "github",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewInvalidLoginError は不正なGitHubユーザー名のエラーを生成する。
func NewInvalidLoginError(login string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLogin,
		Message:  fmt.Sprintf("無効なGitHubユーザー名です: %s", login),
		Category: "validation",
		Action:   "英数字とハイフンのみで構成されたユーザー名を指定してください。",
	}
}

// NewUnauthorizedError は未ログイン時のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "ログインしていません。",
		Category: "auth",
		Action:   "Googleでログインしてください。",
	}
}

// NewRateLimitedError はレート制限超過エラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "リクエストが多すぎます。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
