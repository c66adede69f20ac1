// Package security は外部由来のコンテンツと外部URLを安全に扱う機能を提供する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizer は外部由来テキストのサニタイズ機能のインターフェース。
// GitHubプロフィールのbioとブログフィードの概要に使用する。
type ContentSanitizer interface {
	// SanitizeSummary はフィード概要のHTMLを許可タグのみに絞って返す。
	SanitizeSummary(rawHTML string) string
	// PlainText は全てのタグを除去したプレーンテキストを返す。
	PlainText(raw string) string
}

// contentSanitizer はContentSanitizerの実装。bluemondayのポリシーはスレッドセーフ。
type contentSanitizer struct {
	summary *bluemonday.Policy
	strict  *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerを生成する。
// 概要ポリシーの内容:
//   - 許可タグ: p, br, strong, em, code, a
//   - aのhref: http/httpsの絶対URLのみ
//   - aタグ: target="_blank" と rel="noopener noreferrer" を自動付与
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "em", "code")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https")
	p.AllowRelativeURLs(false)
	p.RequireParseableURLs(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	return &contentSanitizer{
		summary: p,
		strict:  bluemonday.StrictPolicy(),
	}
}

// SanitizeSummary はフィード概要のHTMLをサニタイズする。
func (s *contentSanitizer) SanitizeSummary(rawHTML string) string {
	return strings.TrimSpace(s.summary.Sanitize(rawHTML))
}

// PlainText はタグを除去し、テンプレートで再エスケープされる前提のテキストを返す。
func (s *contentSanitizer) PlainText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(s.strict.Sanitize(raw)))
}

// compile-time interface check
var _ ContentSanitizer = (*contentSanitizer)(nil)
