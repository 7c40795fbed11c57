package handlers_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/kevinaaaquil/books-api/models"
	"github.com/kevinaaaquil/books-api/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// This file contains the store fakes used by the handler tests.

// MockBookStore fails the test through a nil func call when an unexpected method is used.
type MockBookStore struct {
	ListBooksFunc  func(ctx context.Context, q store.ListQuery) ([]models.Book, int64, error)
	BookByIDFunc   func(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	InsertBookFunc func(ctx context.Context, book *models.Book) (primitive.ObjectID, error)
	UpdateBookFunc func(ctx context.Context, id primitive.ObjectID, patch models.BookPatch) (*models.Book, error)
	PatchBookFunc  func(ctx context.Context, id primitive.ObjectID, patch models.BookPatch) (store.UpdateResult, error)
	DeleteBookFunc func(ctx context.Context, id primitive.ObjectID) error
}

func (m *MockBookStore) ListBooks(ctx context.Context, q store.ListQuery) ([]models.Book, int64, error) {
	return m.ListBooksFunc(ctx, q)
}

func (m *MockBookStore) BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	return m.BookByIDFunc(ctx, id)
}

func (m *MockBookStore) InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	return m.InsertBookFunc(ctx, book)
}

func (m *MockBookStore) UpdateBook(ctx context.Context, id primitive.ObjectID, patch models.BookPatch) (*models.Book, error) {
	return m.UpdateBookFunc(ctx, id, patch)
}

func (m *MockBookStore) PatchBook(ctx context.Context, id primitive.ObjectID, patch models.BookPatch) (store.UpdateResult, error) {
	return m.PatchBookFunc(ctx, id, patch)
}

func (m *MockBookStore) DeleteBook(ctx context.Context, id primitive.ObjectID) error {
	return m.DeleteBookFunc(ctx, id)
}

type mockPinger struct{ err error }

func (p mockPinger) Ping(context.Context) error { return p.err }

var errStoreDown = errors.New("connection refused: mongodb://secret-host:27017")

// memStore is an in-memory BookStore and UserStore with the same
// not-found and duplicate semantics as the MongoDB store.
type memStore struct {
	mu    sync.Mutex
	books []models.Book
	users []models.User
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) ListBooks(_ context.Context, q store.ListQuery) ([]models.Book, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := append([]models.Book(nil), s.books...)
	if q.SortByAuthor {
		sort.SliceStable(all, func(i, j int) bool { return all[i].Author < all[j].Author })
	}
	total := int64(len(all))
	start := q.Skip
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return append([]models.Book{}, all[start:end]...), total, nil
}

func (s *memStore) find(id primitive.ObjectID) int {
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *memStore) BookByID(_ context.Context, id primitive.ObjectID) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	b := s.books[i]
	return &b, nil
}

func (s *memStore) InsertBook(_ context.Context, book *models.Book) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	book.ID = primitive.NewObjectID()
	book.CreatedAt, book.UpdatedAt = now, now
	s.books = append(s.books, *book)
	return book.ID, nil
}

func (s *memStore) UpdateBook(_ context.Context, id primitive.ObjectID, patch models.BookPatch) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	patch.Apply(&s.books[i])
	s.books[i].UpdatedAt = time.Now().UTC()
	b := s.books[i]
	return &b, nil
}

func (s *memStore) PatchBook(_ context.Context, id primitive.ObjectID, patch models.BookPatch) (store.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return store.UpdateResult{}, store.ErrNotFound
	}
	before := s.books[i]
	patch.Apply(&s.books[i])
	res := store.UpdateResult{MatchedCount: 1}
	if !sameBook(before, s.books[i]) {
		res.ModifiedCount = 1
		s.books[i].UpdatedAt = time.Now().UTC()
	}
	return res, nil
}

func sameBook(a, b models.Book) bool {
	if a.Title != b.Title || a.Author != b.Author || a.Pages != b.Pages || a.Rating != b.Rating ||
		len(a.Genres) != len(b.Genres) || len(a.Reviews) != len(b.Reviews) {
		return false
	}
	for i := range a.Genres {
		if a.Genres[i] != b.Genres[i] {
			return false
		}
	}
	for i := range a.Reviews {
		if a.Reviews[i] != b.Reviews[i] {
			return false
		}
	}
	return true
}

func (s *memStore) DeleteBook(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return store.ErrNotFound
	}
	s.books = append(s.books[:i], s.books[i+1:]...)
	return nil
}

func (s *memStore) UserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Username == username {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateUser(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Username == user.Username {
			return primitive.NilObjectID, store.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	s.users = append(s.users, *user)
	return user.ID, nil
}

func (s *memStore) bookCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.books)
}

func (s *memStore) userCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
