package books_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/5w1tchy/ai-books-api/internal/models"
	storebooks "github.com/5w1tchy/ai-books-api/internal/store/books"
)

// memStore is an in-memory books.Store. The err/miss hooks let tests force
// failure paths.
type memStore struct {
	mu     sync.Mutex
	rows   map[int64]models.Book
	nextID int64

	err           error // returned by every call when set
	updateNoop    bool  // Update reports zero rows
	loseOnInsert  bool  // Insert succeeds but the row is never readable
	inserts       int
	updates       int
	lastUpdateSet storebooks.Fields
}

func newMemStore() *memStore {
	return &memStore{rows: map[int64]models.Book{}, nextID: 1}
}

func (m *memStore) List(_ context.Context, offset, limit int) ([]models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []models.Book{}
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, m.rows[ids[i]])
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id int64) (models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Book{}, m.err
	}
	b, ok := m.rows[id]
	if !ok {
		return models.Book{}, storebooks.ErrNotFound
	}
	return b, nil
}

func (m *memStore) Insert(_ context.Context, f storebooks.Fields) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.inserts++
	id := m.nextID
	m.nextID++
	if m.loseOnInsert {
		return id, nil
	}
	b := models.Book{ID: id, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	apply(&b, f)
	m.rows[id] = b
	return id, nil
}

func (m *memStore) Update(_ context.Context, id int64, f storebooks.Fields) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	m.updates++
	m.lastUpdateSet = f
	b, ok := m.rows[id]
	if !ok || m.updateNoop {
		return false, nil
	}
	apply(&b, f)
	m.rows[id] = b
	return true, nil
}

func (m *memStore) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func apply(b *models.Book, f storebooks.Fields) {
	ptr := func(v any) *string {
		if v == nil {
			return nil
		}
		s := v.(string)
		return &s
	}
	for c, v := range f {
		switch c {
		case storebooks.ColTitle:
			b.Title = v.(string)
		case storebooks.ColAuthor:
			b.Author = v.(string)
		case storebooks.ColPrice:
			b.Price = v.(int64)
		case storebooks.ColPublisher:
			b.Publisher = ptr(v)
		case storebooks.ColPublishDate:
			b.PublishDate = ptr(v)
		case storebooks.ColISBN:
			b.ISBN = ptr(v)
		case storebooks.ColCoverURL:
			b.CoverURL = ptr(v)
		}
	}
}
