// Package cache はslug単位のコメント一覧レスポンスキャッシュを提供する。
//
// キャッシュはプロセス寿命のベストエフォートであり、真実の源ではない。
// 有効期限タイマーは持たず、鮮度は書き込み成功時の明示的な無効化のみで
// 保証する。このプロセスが唯一の書き込み経路であることが前提。
package cache

import (
	"sync"

	"github.com/hitoshi/kament/internal/model"
)

// Store はslugからコメント一覧へのインメモリキャッシュ。
// 異なるslugに対するGet/Set/Invalidateは互いにブロックしない
// （読み取りはRLockで並行、書き込みのみ排他）。
type Store struct {
	mu      sync.RWMutex
	entries map[string][]model.Comment
}

// New は空のStoreを生成する。
func New() *Store {
	return &Store{
		entries: make(map[string][]model.Comment),
	}
}

// Get は指定slugのキャッシュ済みコメント一覧を返す。
// エントリが存在しない場合は(nil, false)を返す。
func (s *Store) Get(slug string) ([]model.Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments, ok := s.entries[slug]
	return comments, ok
}

// Set は指定slugのコメント一覧をキャッシュに格納する。
func (s *Store) Set(slug string, comments []model.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[slug] = comments
}

// Invalidate は指定slugのエントリを削除する。
// コメント書き込み成功後、レスポンスを返す前に呼び出すこと。
// 次のGetは必ずストアから再取得する（read-your-writes）。
func (s *Store) Invalidate(slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, slug)
}
