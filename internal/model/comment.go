package model

import "time"

// Comment は投稿されたコメントを表す。
// 作成後は不変で、編集・削除の操作は存在しない。
type Comment struct {
	ID        string
	PostID    string
	UserID    string
	Text      string
	CreatedAt time.Time

	// User は読み取り時にJOINで取得する投稿者情報。
	User CommentUser
}

// CommentUser はAPIレスポンスに含めるコメント投稿者の公開情報。
// メールアドレスは含めない。
type CommentUser struct {
	Username string
	Name     string
	Avatar   string
}
