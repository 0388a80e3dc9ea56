package comment

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/kament/internal/cache"
	"github.com/hitoshi/kament/internal/model"
	"github.com/hitoshi/kament/internal/repository"
	"github.com/hitoshi/kament/internal/security"
)

// --- モック定義 ---

type mockResolver struct {
	resolveFn func(ctx context.Context, slug string) (*model.Post, error)
}

func (m *mockResolver) Resolve(ctx context.Context, slug string) (*model.Post, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, slug)
	}
	return &model.Post{ID: "post-1", Slug: slug}, nil
}

type mockCommentRepo struct {
	createFn     func(ctx context.Context, comment *model.Comment) error
	listBySlugFn func(ctx context.Context, slug string) ([]model.Comment, error)
	listCalls    int
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	return nil
}

func (m *mockCommentRepo) ListBySlug(ctx context.Context, slug string) ([]model.Comment, error) {
	m.listCalls++
	if m.listBySlugFn != nil {
		return m.listBySlugFn(ctx, slug)
	}
	return []model.Comment{}, nil
}

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &model.User{ID: id, Username: "alice", Name: "Alice", Avatar: "https://a/alice"}, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return nil
}

type mockCollector struct {
	commentsCreated int
	cacheHits       int
	cacheMisses     int
}

func (m *mockCollector) RecordCommentCreated()       { m.commentsCreated++ }
func (m *mockCollector) RecordTokenIssued()          {}
func (m *mockCollector) RecordCacheHit()             { m.cacheHits++ }
func (m *mockCollector) RecordCacheMiss()            { m.cacheMisses++ }
func (m *mockCollector) RecordHTTPStatus(status int) {}

var _ PostResolver = (*mockResolver)(nil)
var _ repository.CommentRepository = (*mockCommentRepo)(nil)
var _ repository.UserRepository = (*mockUserRepo)(nil)

func newTestService(comments *mockCommentRepo, users *mockUserRepo, collector *mockCollector) *Service {
	return NewService(
		&mockResolver{},
		comments,
		users,
		cache.New(),
		security.NewCommentSanitizer(),
		collector,
	)
}

// --- テスト ---

// 未知のslugの一覧は空スライスでありエラーではないことを検証
func TestList_UnknownSlug_ReturnsEmptyList(t *testing.T) {
	svc := newTestService(&mockCommentRepo{}, &mockUserRepo{}, &mockCollector{})

	got, err := svc.List(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("got %d comments, want 0", len(got))
	}
}

// キャッシュヒット時はストアに問い合わせないことを検証
func TestList_CacheHit_SkipsStore(t *testing.T) {
	comments := &mockCommentRepo{
		listBySlugFn: func(ctx context.Context, slug string) ([]model.Comment, error) {
			return []model.Comment{{ID: "c1", Text: "cached later"}}, nil
		},
	}
	collector := &mockCollector{}
	svc := newTestService(comments, &mockUserRepo{}, collector)
	ctx := context.Background()

	// 1回目はミスでストアから取得、2回目はキャッシュヒット
	if _, err := svc.List(ctx, "hello-world"); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	got, err := svc.List(ctx, "hello-world")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if comments.listCalls != 1 {
		t.Errorf("store list calls = %d, want 1", comments.listCalls)
	}
	if len(got) != 1 || got[0].ID != "c1" {
		t.Errorf("got %v, want cached comments", got)
	}
	if collector.cacheMisses != 1 || collector.cacheHits != 1 {
		t.Errorf("misses = %d, hits = %d, want 1 and 1", collector.cacheMisses, collector.cacheHits)
	}
}

// ストア障害は一覧取得エラーとして伝播することを検証
func TestList_StoreFailure_ReturnsError(t *testing.T) {
	storeErr := errors.New("connection reset")
	comments := &mockCommentRepo{
		listBySlugFn: func(ctx context.Context, slug string) ([]model.Comment, error) {
			return nil, storeErr
		},
	}
	svc := newTestService(comments, &mockUserRepo{}, &mockCollector{})

	if _, err := svc.List(context.Background(), "hello-world"); !errors.Is(err, storeErr) {
		t.Errorf("error = %v, want wrapped store error", err)
	}
}

// 投稿が成功すると投稿者情報つきのコメントが返ることを検証
func TestCreate_Success_ReturnsCommentWithAuthor(t *testing.T) {
	var stored *model.Comment
	comments := &mockCommentRepo{
		createFn: func(ctx context.Context, comment *model.Comment) error {
			stored = comment
			return nil
		},
	}
	collector := &mockCollector{}
	svc := newTestService(comments, &mockUserRepo{}, collector)

	got, err := svc.Create(context.Background(), "hello-world", "user-1", "nice post")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if got.Text != "nice post" {
		t.Errorf("text = %q, want %q", got.Text, "nice post")
	}
	if got.User.Username != "alice" {
		t.Errorf("author = %q, want %q", got.User.Username, "alice")
	}
	if stored == nil || stored.PostID != "post-1" {
		t.Errorf("stored = %v, want comment bound to resolved post", stored)
	}
	if collector.commentsCreated != 1 {
		t.Errorf("comments created = %d, want 1", collector.commentsCreated)
	}
}

// 投稿後の一覧は新しいコメントを含むことを検証（read-your-writes）
func TestCreate_ThenList_ReturnsFreshComments(t *testing.T) {
	var stored []model.Comment
	comments := &mockCommentRepo{
		createFn: func(ctx context.Context, comment *model.Comment) error {
			stored = append(stored, *comment)
			return nil
		},
		listBySlugFn: func(ctx context.Context, slug string) ([]model.Comment, error) {
			return append([]model.Comment{}, stored...), nil
		},
	}
	svc := newTestService(comments, &mockUserRepo{}, &mockCollector{})
	ctx := context.Background()

	// 空の一覧をキャッシュに載せてから投稿する
	if _, err := svc.List(ctx, "hello-world"); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if _, err := svc.Create(ctx, "hello-world", "user-1", "first!"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.List(ctx, "hello-world")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Text != "first!" {
		t.Errorf("got %v, want list containing new comment", got)
	}
}

// サニタイズ後に空になる本文は拒否されることを検証
func TestCreate_EmptyAfterSanitize_ReturnsError(t *testing.T) {
	created := false
	comments := &mockCommentRepo{
		createFn: func(ctx context.Context, comment *model.Comment) error {
			created = true
			return nil
		},
	}
	svc := newTestService(comments, &mockUserRepo{}, &mockCollector{})

	tests := []struct {
		name string
		text string
	}{
		{name: "whitespace only", text: "   \n\t"},
		{name: "markup only", text: "<script>alert(1)</script>"},
		{name: "empty string", text: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "hello-world", "user-1", tt.text)
			if err == nil {
				t.Fatal("expected error for empty comment")
			}

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmptyComment {
				t.Errorf("error = %v, want empty comment error", err)
			}
		})
	}
	if created {
		t.Error("expected no store writes for rejected comments")
	}
}

// トークンが未知のユーザーを指す場合は無効トークン扱いになることを検証
func TestCreate_UnknownUser_ReturnsInvalidToken(t *testing.T) {
	users := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}
	svc := newTestService(&mockCommentRepo{}, users, &mockCollector{})

	_, err := svc.Create(context.Background(), "hello-world", "ghost-user", "hi")
	if err == nil {
		t.Fatal("expected error for unknown user")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidToken {
		t.Errorf("error = %v, want invalid token error", err)
	}
}

// 永続化の失敗時はキャッシュが無効化されないことを検証
func TestCreate_StoreFailure_KeepsCache(t *testing.T) {
	storeErr := errors.New("connection reset")
	comments := &mockCommentRepo{
		createFn: func(ctx context.Context, comment *model.Comment) error {
			return storeErr
		},
	}
	svc := newTestService(comments, &mockUserRepo{}, &mockCollector{})
	ctx := context.Background()

	if _, err := svc.List(ctx, "hello-world"); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if _, err := svc.Create(ctx, "hello-world", "user-1", "doomed"); !errors.Is(err, storeErr) {
		t.Fatalf("error = %v, want wrapped store error", err)
	}

	// キャッシュは残っているのでストアへの再問い合わせは起きない
	if _, err := svc.List(ctx, "hello-world"); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if comments.listCalls != 1 {
		t.Errorf("store list calls = %d, want 1", comments.listCalls)
	}
}
