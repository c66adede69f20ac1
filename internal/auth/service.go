// Package auth はモックOAuthによるログインとセッションライフサイクルを提供する。
package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hitoshi/portfolio/internal/config"
	"github.com/hitoshi/portfolio/internal/model"
)

// CodeExchanger は認可コードをメールアドレスへ交換する実プロバイダーのインターフェース。
type CodeExchanger interface {
	// LoginURL はプロバイダーの認可URLを返す。
	LoginURL() string
	// Exchange は認可コードを検証し、ユーザーのメールアドレスを返す。
	Exchange(ctx context.Context, code string) (string, error)
}

// Config は認証サービスの設定。
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	BaseURL      string
	Environment  config.Environment
}

// Service は認可URLの生成と認可コード交換を提供する。
// StoreやPersistenceには一切触れない。
type Service struct {
	config   Config
	provider CodeExchanger
}

// NewService はServiceを生成する。providerがnilの場合はGoogleOAuthProviderを使う。
func NewService(cfg Config, provider CodeExchanger) *Service {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if provider == nil {
		provider = NewGoogleOAuthProvider(GoogleOAuthConfig{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
		})
	}
	return &Service{config: cfg, provider: provider}
}

// MockMode はモック認可URLを返す設定かどうかを返す。
func (s *Service) MockMode() bool {
	return IsPlaceholderClientID(s.config.ClientID) || s.config.Environment.IsDevelopmentOrTest()
}

// AuthorizationURL はブラウザを遷移させる認可URLを返す。
// モック時はコールバックへ直接戻るURLになる。
func (s *Service) AuthorizationURL() string {
	if s.MockMode() {
		return s.config.BaseURL + "/auth/callback?code=" + url.QueryEscape(MockCode)
	}
	return s.provider.LoginURL()
}

// ExchangeCode は認可コードをユーザーへ交換する。
// モックコードまたは開発・テスト環境では任意のコードに対して開発用ユーザーを返す。
func (s *Service) ExchangeCode(ctx context.Context, code string) (*model.AuthUser, error) {
	if code == MockCode || s.config.Environment.IsDevelopmentOrTest() {
		return &model.AuthUser{Email: MockEmail}, nil
	}

	email, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrAuthExchangeFailed, err)
	}
	return &model.AuthUser{Email: email}, nil
}
