package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/kament/internal/middleware"
	"github.com/hitoshi/kament/internal/model"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	StatusCollector   middleware.StatusCollector
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// ヘルスチェック
	HealthChecker HealthChecker

	// サービス
	CommentService CommentServiceInterface
	TokenService   TokenServiceInterface
	TokenVerifier  TokenVerifier
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを
// 構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → CORS → RateLimit
//
// OPTIONSプリフライトはCORSミドルウェアが204で短絡するため、
// ハンドラーには到達しない。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger, deps.StatusCollector))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware())
	}

	// 未宣言メソッドもJSONエラーボディで応答する。サブルーターに引き継がれる
	// ようにルート登録より先に設定する
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, model.NewMethodNotAllowedError(req.Method))
	})

	commentHandler := NewCommentHandler(deps.CommentService, deps.TokenVerifier)
	tokenHandler := NewTokenHandler(deps.TokenService)

	r.Route("/comments/{slug}", func(r chi.Router) {
		r.Get("/", commentHandler.List)
		r.Post("/", commentHandler.Create)
	})

	r.Get("/token", tokenHandler.Exchange)

	r.Get("/health", healthHandler(deps.HealthChecker))

	return r
}

// healthHandler はストア接続を確認するヘルスチェックハンドラーを返す。
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := checker.PingContext(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
