package auth

import "strings"

const (
	// MockCode は開発用モック認可URLに付与される認可コード。
	MockCode = "mock_code_for_dev"
	// MockEmail はモック交換で返される開発用ユーザーのメールアドレス。
	MockEmail = "dev.user@example.com"
)

// placeholderClientIDs はサンプル設定に残りがちなダミー値。
var placeholderClientIDs = map[string]struct{}{
	"your_client_id": {},
	"changeme":       {},
}

// IsPlaceholderClientID はクライアントIDが未設定またはダミー値かを判定する。
func IsPlaceholderClientID(clientID string) bool {
	id := strings.TrimSpace(clientID)
	if id == "" {
		return true
	}
	if _, ok := placeholderClientIDs[strings.ToLower(id)]; ok {
		return true
	}
	return strings.HasPrefix(id, "your_") || strings.HasPrefix(id, "YOUR_")
}
