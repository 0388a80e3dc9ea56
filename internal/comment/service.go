// Package comment はコメントの取得と投稿のビジネスロジックを提供する。
package comment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/kament/internal/cache"
	"github.com/hitoshi/kament/internal/metrics"
	"github.com/hitoshi/kament/internal/model"
	"github.com/hitoshi/kament/internal/repository"
	"github.com/hitoshi/kament/internal/security"
)

// PostResolver はslugから記事ページを解決するインターフェース。
// post.Resolverの部分集合として定義する。
type PostResolver interface {
	Resolve(ctx context.Context, slug string) (*model.Post, error)
}

// Service はコメントに関するビジネスロジックを提供する。
// キャッシュは注入されたハンドルとして保持し、ハンドラーロジックから
// キャッシュ実装の差し替えを切り離す。
type Service struct {
	resolver  PostResolver
	comments  repository.CommentRepository
	users     repository.UserRepository
	cache     *cache.Store
	sanitizer security.CommentSanitizer
	metrics   metrics.MetricsCollector
}

// NewService はServiceを生成する。
func NewService(
	resolver PostResolver,
	comments repository.CommentRepository,
	users repository.UserRepository,
	cacheStore *cache.Store,
	sanitizer security.CommentSanitizer,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		resolver:  resolver,
		comments:  comments,
		users:     users,
		cache:     cacheStore,
		sanitizer: sanitizer,
		metrics:   collector,
	}
}

// List は指定slugのコメント一覧を挿入順で返す。
// キャッシュヒット時はストアに問い合わせない。ミス時はストアから取得して
// キャッシュを再投入する。未知のslugは空スライスであり、エラーではない。
func (s *Service) List(ctx context.Context, slug string) ([]model.Comment, error) {
	if comments, ok := s.cache.Get(slug); ok {
		s.metrics.RecordCacheHit()
		return comments, nil
	}
	s.metrics.RecordCacheMiss()

	comments, err := s.comments.ListBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	s.cache.Set(slug, comments)
	return comments, nil
}

// Create はコメントを投稿する。
// 本文をサニタイズし、slugを記事ページに解決（必要なら作成）してから永続化する。
// 書き込み成功後、このメソッドが返る前に該当slugのキャッシュを無効化する。
// 同一プロセス内の後続のGetが古い一覧を観測することはない（read-your-writes）。
func (s *Service) Create(ctx context.Context, slug, userID, text string) (*model.Comment, error) {
	clean := s.sanitizer.Sanitize(text)
	if strings.TrimSpace(clean) == "" {
		return nil, model.NewEmptyCommentError()
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find comment author: %w", err)
	}
	if user == nil {
		// 検証済みトークンが未知のユーザーを指している
		return nil, model.NewInvalidTokenError()
	}

	resolved, err := s.resolver.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:        uuid.New().String(),
		PostID:    resolved.ID,
		UserID:    user.ID,
		Text:      clean,
		CreatedAt: time.Now(),
		User: model.CommentUser{
			Username: user.Username,
			Name:     user.Name,
			Avatar:   user.Avatar,
		},
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	// 書き込みが成功した時点でキャッシュを破棄する。レスポンスより先に
	// 完了させることで同一プロセス内のread-your-writesを保証する
	s.cache.Invalidate(slug)
	s.metrics.RecordCommentCreated()

	return comment, nil
}
