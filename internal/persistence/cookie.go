package persistence

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/hitoshi/portfolio/internal/model"
)

// CookieName はセッションマーカーを格納する署名付きCookieの名前。
const CookieName = "portfolio_session"

// MaxEmailBytes はCookieに保存できるメールアドレスの上限（UTF-8バイト数）。
// 署名とエンコード後の値がブラウザのCookie上限4096バイトに収まる長さ。
// 上限を超える値のSaveは何も書き込まず、以降のLoadは未保存を返す。
const MaxEmailBytes = 2048

// CookieOptions はセッションCookieの属性。
type CookieOptions struct {
	Domain string
	MaxAge int // 秒
	Secure bool
}

// NewCookieStore は署名付きCookieストアを生成する。
// Cookieはブラウザ側に保持され、サーバーはセッションを保存しない。
func NewCookieStore(secret string, opts CookieOptions) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   opts.MaxAge,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Cookie は1つのリクエスト/レスポンスの組に束縛されたCookieベースのAdapter。
// Saveで書き込んだ値は同じリクエスト内のLoadからも参照できる。
type Cookie struct {
	store  *sessions.CookieStore
	w      http.ResponseWriter
	r      *http.Request
	logger *slog.Logger
}

// NewCookie はCookieを生成する。
func NewCookie(store *sessions.CookieStore, w http.ResponseWriter, r *http.Request, logger *slog.Logger) *Cookie {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cookie{store: store, w: w, r: r, logger: logger}
}

// Load はCookieからメールアドレスを読み取る。
// Cookieが存在しない、または署名の検証に失敗した場合は未保存として扱う。
func (c *Cookie) Load() (string, bool) {
	sess, err := c.store.Get(c.r, CookieName)
	if err != nil {
		c.debug("load", err)
		return "", false
	}
	email, ok := sess.Values[Key].(string)
	if !ok || email == "" {
		return "", false
	}
	return email, true
}

// Save はメールアドレスをCookieに書き込む。
// MaxEmailBytesを超える値は保存しない。
func (c *Cookie) Save(email string) {
	if len(email) > MaxEmailBytes {
		c.logger.Warn("session email exceeds cookie quota",
			slog.Int("bytes", len(email)),
			slog.Int("max_bytes", MaxEmailBytes),
		)
		return
	}
	sess, err := c.store.Get(c.r, CookieName)
	if sess == nil {
		c.debug("save", err)
		return
	}
	sess.Values[Key] = email
	if sess.Options.MaxAge < 0 && c.store.Options != nil {
		sess.Options.MaxAge = c.store.Options.MaxAge
	}
	if err := sess.Save(c.r, c.w); err != nil {
		c.logger.Warn("failed to write session cookie", slog.String("error", err.Error()))
	}
}

// Clear はCookieを失効させる。
func (c *Cookie) Clear() {
	sess, err := c.store.Get(c.r, CookieName)
	if sess == nil {
		c.debug("clear", err)
		return
	}
	delete(sess.Values, Key)
	sess.Options.MaxAge = -1
	if err := sess.Save(c.r, c.w); err != nil {
		c.debug("clear", err)
	}
}

func (c *Cookie) debug(op string, err error) {
	if err == nil {
		return
	}
	c.logger.Debug("session cookie access failed",
		slog.String("op", op),
		slog.String("error", fmt.Errorf("%w: %w", model.ErrPersistenceUnavailable, err).Error()),
	)
}

// compile-time interface check
var _ Adapter = (*Cookie)(nil)
