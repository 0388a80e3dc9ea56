package model

import "time"

// Post はコメントの親となる記事ページを表す。
// Slugは埋め込み先ページを識別するクライアント指定の文字列で、一意。
// 未知のslugへの最初のコメント投稿時に遅延作成され、以降は変更されない。
type Post struct {
	ID        string
	Slug      string
	CreatedAt time.Time
}
