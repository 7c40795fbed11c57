package handlers

import (
	"context"

	"github.com/kevinaaaquil/books-api/models"
	"github.com/kevinaaaquil/books-api/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookStore interface {
	ListBooks(ctx context.Context, q store.ListQuery) ([]models.Book, int64, error)
	BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error)
	UpdateBook(ctx context.Context, id primitive.ObjectID, patch models.BookPatch) (*models.Book, error)
	PatchBook(ctx context.Context, id primitive.ObjectID, patch models.BookPatch) (store.UpdateResult, error)
	DeleteBook(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	_ BookStore = (*store.DB)(nil)
	_ UserStore = (*store.DB)(nil)
	_ Pinger    = (*store.DB)(nil)
)
