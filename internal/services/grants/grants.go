// Package grants хранит в памяти гранты разблокировки текущей сессии.
package grants

import (
	"sort"
	"sync"
	"time"

	"github.com/magabrotheeeer/content-gate/internal/models"
)

type itemKey struct {
	contentType models.ContentType
	contentID   string
}

// Store множество грантов с ключом (тип, идентификатор).
type Store struct {
	mu    sync.RWMutex
	items map[itemKey]models.UnlockGrant
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{items: make(map[itemKey]models.UnlockGrant)}
}

// Load заменяет содержимое хранилища грантами из реестра.
func (s *Store) Load(list []models.UnlockGrant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[itemKey]models.UnlockGrant, len(list))
	for _, g := range list {
		s.addLocked(g)
	}
}

// Add добавляет грант. Для уже известного элемента остаётся более поздний срок.
func (s *Store) Add(g models.UnlockGrant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(g)
}

func (s *Store) addLocked(g models.UnlockGrant) {
	k := itemKey{contentType: g.ContentType, contentID: g.ContentID}
	if cur, ok := s.items[k]; ok && !g.ExpiresAt.After(cur.ExpiresAt) {
		return
	}
	s.items[k] = g
}

// Has сообщает, есть ли у элемента действующий грант в момент now.
// Истёкший грант удаляется и никогда не считается действующим.
func (s *Store) Has(ct models.ContentType, id string, now time.Time) bool {
	k := itemKey{contentType: ct, contentID: id}

	s.mu.RLock()
	g, ok := s.items[k]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if g.Live(now) {
		return true
	}

	s.mu.Lock()
	if cur, ok := s.items[k]; ok && !cur.Live(now) {
		delete(s.items, k)
	}
	s.mu.Unlock()
	return false
}

// Snapshot возвращает действующие гранты, отсортированные по типу и идентификатору.
func (s *Store) Snapshot(now time.Time) []models.UnlockGrant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UnlockGrant, 0, len(s.items))
	for _, g := range s.items {
		if g.Live(now) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ContentType != out[j].ContentType {
			return out[i].ContentType < out[j].ContentType
		}
		return out[i].ContentID < out[j].ContentID
	})
	return out
}

// Reset очищает хранилище.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[itemKey]models.UnlockGrant)
}
