package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/kament/internal/auth"
	"github.com/hitoshi/kament/internal/model"
	"github.com/hitoshi/kament/internal/validate"
)

// commentTerms は/comments/{slug}のメソッド別検証契約。
// OPTIONSはCORSミドルウェアが204で短絡するため契約は空。
var commentTerms = validate.MethodTerms{
	http.MethodGet:     {},
	http.MethodOptions: {},
	http.MethodPost: {
		Headers: []string{"Authorization"},
		Body:    []string{"comment"},
	},
}

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	// List は指定slugのコメント一覧を挿入順で返す。
	List(ctx context.Context, slug string) ([]model.Comment, error)
	// Create はコメントを投稿し、該当slugのキャッシュを無効化する。
	Create(ctx context.Context, slug, userID, text string) (*model.Comment, error)
}

// TokenVerifier はセッショントークン検証のインターフェース。
// auth.TokenIssuerの部分集合として定義する。
type TokenVerifier interface {
	Verify(token string) (*auth.TokenClaims, error)
}

// CommentHandler はコメント取得・投稿のHTTPハンドラー。
type CommentHandler struct {
	service  CommentServiceInterface
	verifier TokenVerifier
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface, verifier TokenVerifier) *CommentHandler {
	return &CommentHandler{
		service:  service,
		verifier: verifier,
	}
}

// commentsResponse はコメント一覧のAPIレスポンス。
type commentsResponse struct {
	Comments []commentResponse `json:"comments"`
}

// List はコメント一覧を返す。
// GET /comments/{slug}
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, apiErr := validate.Request(r, commentTerms); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	slug := chi.URLParam(r, "slug")
	comments, err := h.service.List(r.Context(), slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]commentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, toCommentResponse(&comments[i]))
	}

	writeJSON(w, http.StatusOK, commentsResponse{Comments: responses})
}

// Create はコメントを投稿する。
// POST /comments/{slug}（要 Authorization: Bearer <session token>）
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, apiErr := validate.Request(r, commentTerms)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found || token == "" {
		writeError(w, model.NewInvalidTokenError())
		return
	}

	claims, err := h.verifier.Verify(token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	text, ok := validate.StringField(body, "comment")
	if !ok {
		writeError(w, model.NewMissingBodyFieldError("comment"))
		return
	}

	slug := chi.URLParam(r, "slug")
	comment, err := h.service.Create(r.Context(), slug, claims.UserID, text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}
