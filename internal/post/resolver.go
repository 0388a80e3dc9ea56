// Package post はslugから記事ページへの解決を提供する。
package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/kament/internal/model"
	"github.com/hitoshi/kament/internal/repository"
)

// Resolver はslugから記事ページを解決する。
// 未知のslugは初回参照時に透過的に作成する（create-on-demand）。
type Resolver struct {
	posts repository.PostRepository
}

// NewResolver はResolverを生成する。
func NewResolver(posts repository.PostRepository) *Resolver {
	return &Resolver{posts: posts}
}

// Resolve はslugに対応する記事ページを返す。存在しない場合は作成する。
// 同一slugへの同時解決でも記事ページが2つ作られることはない:
// 作成が一意制約違反で失敗した場合は並行作成の勝者を再検索して返す。
// それ以外のストア障害はサーバーエラー。
func (r *Resolver) Resolve(ctx context.Context, slug string) (*model.Post, error) {
	post, err := r.posts.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to look up post: %w", err)
	}
	if post != nil {
		return post, nil
	}

	newPost := &model.Post{
		ID:        uuid.New().String(),
		Slug:      slug,
		CreatedAt: time.Now(),
	}

	err = r.posts.Create(ctx, newPost)
	if err == nil {
		slog.Info("post created",
			slog.String("post_id", newPost.ID),
			slog.String("slug", slug),
		)
		return newPost, nil
	}

	if repository.IsUniqueViolation(err) {
		// 並行する解決が先に作成した。勝者を採用する
		post, findErr := r.posts.FindBySlug(ctx, slug)
		if findErr != nil {
			return nil, fmt.Errorf("failed to look up post after create race: %w", findErr)
		}
		if post == nil {
			return nil, fmt.Errorf("post vanished after create race for slug %q", slug)
		}
		return post, nil
	}

	return nil, fmt.Errorf("failed to create post: %w", err)
}
