// Package model はドメインモデルを定義する。
package model

import (
	"unicode"
	"unicode/utf8"
)

// AuthUser はログイン中のユーザーを表す。
// セッションが保持する唯一の識別属性はメールアドレスで、
// パスワード・トークン・有効期限は保持しない。
type AuthUser struct {
	Email string `json:"email"`
}

// Initial はナビゲーションのアバターに表示する頭文字を返す。
// メールアドレスが空の場合は "?" を返す。
func (u *AuthUser) Initial() string {
	if u == nil || u.Email == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(u.Email)
	return string(unicode.ToUpper(r))
}
