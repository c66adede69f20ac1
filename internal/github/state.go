package github

import (
	"context"

	"github.com/hitoshi/portfolio/internal/model"
)

// Status はプロフィールカードの表示状態。
type Status int

const (
	// Loading は取得が完了していない状態。
	Loading Status = iota
	// Loaded は取得に成功した状態。
	Loaded
	// Unavailable は取得に失敗した状態。表示上はLoadingと同じプレースホルダーになる。
	Unavailable
)

// String は状態名を返す。
func (s Status) String() string {
	switch s {
	case Loading:
		return "Loading"
	case Loaded:
		return "Loaded"
	case Unavailable:
		return "Unavailable"
	default:
		return "Status(?)"
	}
}

// ProfileState はプロフィールカードの状態タグ。
// ProfileはStatusがLoadedの場合のみ非nil。
type ProfileState struct {
	Status  Status
	Profile *model.GitHubProfile
}

// LoadingState は初期状態を返す。
func LoadingState() ProfileState {
	return ProfileState{Status: Loading}
}

// LoadedState は取得済みの状態を返す。profileがnilの場合はUnavailableになる。
func LoadedState(profile *model.GitHubProfile) ProfileState {
	if profile == nil {
		return ProfileState{Status: Unavailable}
	}
	return ProfileState{Status: Loaded, Profile: profile}
}

// Placeholder はプレースホルダーを表示すべきかを返す。
func (s ProfileState) Placeholder() bool {
	return s.Status != Loaded
}

// LoadState はプロフィールを取得し、結果を状態タグに変換する。
// 取得失敗はエラーではなくUnavailableとして返す。
func LoadState(ctx context.Context, fetcher ProfileFetcher, login string) ProfileState {
	if fetcher == nil {
		return LoadingState()
	}
	profile, err := fetcher.FetchProfile(ctx, login)
	if err != nil {
		return ProfileState{Status: Unavailable}
	}
	return LoadedState(profile)
}
