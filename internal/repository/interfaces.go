// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/kament/internal/model"
	"github.com/lib/pq"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername はGitHubログイン名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error
}

// PostRepository は記事ページデータの永続化インターフェース。
type PostRepository interface {
	// FindBySlug はslugで記事ページを検索する。見つからない場合はnilを返す。
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)

	// Create は記事ページを作成する。
	// 同一slugが既に存在する場合は一意制約違反エラーを返す（IsUniqueViolationで判定可能）。
	Create(ctx context.Context, post *model.Post) error
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// Create はコメントを作成する。
	Create(ctx context.Context, comment *model.Comment) error

	// ListBySlug は指定slugの記事ページに対するコメント一覧を投稿者情報付きで返す。
	// 順序はストアに記録された挿入順。記事ページ未作成・コメント0件はどちらも
	// 空スライスであり、エラーではない。
	ListBySlug(ctx context.Context, slug string) ([]model.Comment, error)
}

// IsUniqueViolation はPostgreSQLの一意制約違反（23505）かどうかを判定する。
// 同一slugに対する同時作成を冪等に扱うために使用する。
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
