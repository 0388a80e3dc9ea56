// Package model はドメインモデルを定義する。
package model

import "time"

// User はコメント投稿者を表す。
// GitHub認証で初回ログインしたときに作成され、以降は変更されない。
// UsernameはGitHubのログイン名で、ユーザーの重複排除キーとして使用する。
type User struct {
	ID        string
	Username  string
	Name      string
	Email     string
	Avatar    string
	CreatedAt time.Time
}
