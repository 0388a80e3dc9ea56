// Package security はアプリケーションのセキュリティ機能を提供する。
//
// CommentSanitizer は投稿されたコメント本文をサニタイズする。
// コメントは第三者の静的サイトに埋め込まれて表示されるため、
// HTMLタグを保存前にすべて除去し、XSSの持ち込みを防ぐ。
package security

import "github.com/microcosm-cc/bluemonday"

// CommentSanitizer はコメント本文サニタイズ機能のインターフェース。
type CommentSanitizer interface {
	// Sanitize はコメント本文からHTML要素をすべて除去して返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(text string) string
}

// commentSanitizer はCommentSanitizerの実装。
// bluemondayのStrictPolicy（全要素除去）を保持し、スレッドセーフに動作する。
type commentSanitizer struct {
	policy *bluemonday.Policy
}

// NewCommentSanitizer はCommentSanitizerの新しいインスタンスを生成する。
// コメントはクライアント側でMarkdownとして描画されるため、
// サーバー側ではHTMLをまったく許可しない。
func NewCommentSanitizer() *commentSanitizer {
	return &commentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はコメント本文からHTML要素をすべて除去して返す。
func (s *commentSanitizer) Sanitize(text string) string {
	return s.policy.Sanitize(text)
}

// compile-time interface check
var _ CommentSanitizer = (*commentSanitizer)(nil)
