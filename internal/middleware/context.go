// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"sync"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var (
	requestIDContextKey = contextKey("request_id")
	logFieldsContextKey = contextKey("log_fields")
)

// logFields はハンドラーの内側からリクエストログへ値を渡すための入れ物。
// ロギングミドルウェアがリクエストごとに1つ生成する。
type logFields struct {
	mu    sync.Mutex
	email string
}

// SetUserEmail はリクエストログに記録するログイン中ユーザーのメールアドレスを設定する。
// ロギングミドルウェアを通過していないコンテキストでは何もしない。
func SetUserEmail(ctx context.Context, email string) {
	fields, ok := ctx.Value(logFieldsContextKey).(*logFields)
	if !ok {
		return
	}
	fields.mu.Lock()
	fields.email = email
	fields.mu.Unlock()
}

// UserEmailFromContext はSetUserEmailで設定されたメールアドレスを返す。
func UserEmailFromContext(ctx context.Context) string {
	fields, ok := ctx.Value(logFieldsContextKey).(*logFields)
	if !ok {
		return ""
	}
	fields.mu.Lock()
	defer fields.mu.Unlock()
	return fields.email
}

func contextWithLogFields(ctx context.Context, fields *logFields) context.Context {
	return context.WithValue(ctx, logFieldsContextKey, fields)
}

// RequestIDFromContext はリクエストIDを返す。未設定の場合は空文字列を返す。
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// ContextWithRequestID はコンテキストにリクエストIDを注入する。
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}
