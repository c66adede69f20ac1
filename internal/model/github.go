package model

// GitHubProfile はGitHub公開APIから取得したプロフィール情報を表す。
// 読み取り専用で、取得後に変更されることはない。
type GitHubProfile struct {
	Login       string  `json:"login"`
	AvatarURL   string  `json:"avatar_url"`
	PublicRepos uint32  `json:"public_repos"`
	Followers   uint32  `json:"followers"`
	Bio         *string `json:"bio"`
}

// HasBio は自己紹介文が設定されているかを返す。
func (p *GitHubProfile) HasBio() bool {
	return p != nil && p.Bio != nil && *p.Bio != ""
}
