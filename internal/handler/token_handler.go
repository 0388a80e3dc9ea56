package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/kament/internal/auth"
	"github.com/hitoshi/kament/internal/validate"
)

// tokenTerms は/tokenのメソッド別検証契約。
var tokenTerms = validate.MethodTerms{
	http.MethodGet: {
		Params: []string{"code"},
	},
	http.MethodOptions: {},
}

// TokenServiceInterface はトークンハンドラーが必要とするサービスインターフェース。
type TokenServiceInterface interface {
	// ExchangeToken は認可コードをセッショントークンに交換する。
	ExchangeToken(ctx context.Context, code string) (*auth.TokenResult, error)
}

// TokenHandler はセッショントークン発行のHTTPハンドラー。
type TokenHandler struct {
	service TokenServiceInterface
}

// NewTokenHandler はTokenHandlerを生成する。
func NewTokenHandler(service TokenServiceInterface) *TokenHandler {
	return &TokenHandler{service: service}
}

// tokenResponse はトークン発行のAPIレスポンス。
type tokenResponse struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Exchange はGitHubの認可コードをセッショントークンに交換する。
// GET /token?code=xxx
// ユーザーレコードがこの交換で新規作成された場合は201、既存ユーザーは200を返す。
func (h *TokenHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	if _, apiErr := validate.Request(r, tokenTerms); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	code := r.URL.Query().Get("code")
	result, err := h.service.ExchangeToken(r.Context(), code)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	writeJSON(w, status, tokenResponse{
		Token:    result.Token,
		Name:     result.Name,
		Username: result.Username,
		Avatar:   result.Avatar,
	})
}
