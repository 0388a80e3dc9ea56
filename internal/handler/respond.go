// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/kament/internal/model"
)

// errorResponse はAPIエラーレスポンスの統一フォーマット。
// クライアントにはメッセージのみを返す。
type errorResponse struct {
	Error string `json:"error"`
}

// commentUserResponse はコメント投稿者のAPIレスポンス。
type commentUserResponse struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
}

// commentResponse はコメントのAPIレスポンス。
type commentResponse struct {
	ID        string              `json:"id"`
	Text      string              `json:"text"`
	CreatedAt time.Time           `json:"createdAt"`
	User      commentUserResponse `json:"user"`
}

// toCommentResponse はドメインモデルをAPIレスポンスに変換する。
func toCommentResponse(c *model.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		User: commentUserResponse{
			Username: c.User.Username,
			Name:     c.User.Name,
			Avatar:   c.User.Avatar,
		},
	}
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// writeError はAPIErrorをステータスコードにマッピングし、
// {"error": <message>} 形式で書き込む。
func writeError(w http.ResponseWriter, apiErr *model.APIError) {
	writeJSON(w, mapAPIErrorToHTTPStatus(apiErr), errorResponse{Error: apiErr.Message})
}

// handleServiceError はサービス層から返されたエラーをHTTPレスポンスに変換する。
// APIError以外のエラー（ストア障害等）は詳細をログのみに記録し、
// クライアントには一般的なメッセージで500を返す。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Category == "config" {
			// 設定エラーは全リクエストに影響するため必ずログに残す
			slog.Error("configuration error", slog.String("error", apiErr.Message))
		}
		writeError(w, apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
// 認証エラーは401ではなく400を返す。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case model.ErrCodeMissingHeader,
		model.ErrCodeMissingParam,
		model.ErrCodeMissingBodyField,
		model.ErrCodeInvalidBody,
		model.ErrCodeEmptyComment,
		model.ErrCodeInvalidToken,
		model.ErrCodeProviderRejected,
		model.ErrCodeScopeMissing:
		return http.StatusBadRequest
	case model.ErrCodeConfigMissing, model.ErrCodeStoreFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
