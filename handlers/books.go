package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kevinaaaquil/books-api/config"
	"github.com/kevinaaaquil/books-api/middleware"
	"github.com/kevinaaaquil/books-api/models"
	"github.com/kevinaaaquil/books-api/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type BooksHandler struct {
	DB         BookStore
	Pagination config.Pagination
	Log        *zap.Logger
}

type ListBooksResponse struct {
	Books []models.Book `json:"books"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type PatchBookResponse struct {
	Message string `json:"message"`
	store.UpdateResult
}

const (
	msgBookUpdated   = "Book updated successfully"
	msgBookUnchanged = "Book found, but no changes were applied"
)

// pageParams reads page (or its short form p) and limit from the query, falling
// back to the configured defaults for missing or unusable values and clamping
// limit to MaxLimit.
func (h *BooksHandler) pageParams(r *http.Request) (page, limit int) {
	p := h.Pagination
	q := r.URL.Query()

	raw := q.Get("page")
	if raw == "" {
		raw = q.Get("p")
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < p.FirstPage {
		page = p.FirstPage
	}
	limit, err = strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = p.DefaultLimit
	}
	if limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	return page, limit
}

func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := h.pageParams(r)
	q := store.ListQuery{
		Skip:         skipFor(page-h.Pagination.FirstPage, limit),
		Limit:        int64(limit),
		SortByAuthor: h.Pagination.Sort == config.SortAuthor,
	}
	books, total, err := h.DB.ListBooks(r.Context(), q)
	if err != nil {
		serverError(h.Log, w, r, "could not fetch books", err)
		return
	}
	writeJSON(w, http.StatusOK, ListBooksResponse{Books: books, Total: total, Page: page, Limit: limit})
}

// skipFor saturates at math.MaxInt64, which the store treats as past the end.
func skipFor(pages, limit int) int64 {
	if int64(pages) > math.MaxInt64/int64(limit) {
		return math.MaxInt64
	}
	return int64(pages) * int64(limit)
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		serverError(h.Log, w, r, "could not fetch book", err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := models.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	book := req.Book()
	if _, err := h.DB.InsertBook(r.Context(), book); err != nil {
		serverError(h.Log, w, r, "could not create book", err)
		return
	}
	if who, ok := middleware.IdentityFromContext(r.Context()); ok {
		h.Log.Info("book created", zap.String("id", book.ID.Hex()), zap.String("by", who.Username))
	}
	writeJSON(w, http.StatusCreated, book)
}

// Update handles PUT: present fields are replaced and the stored document is returned.
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	var patch models.BookPatch
	if err := decodeJSON(w, r, &patch); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := models.Validate(patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	book, err := h.DB.UpdateBook(r.Context(), id, patch)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		serverError(h.Log, w, r, "could not update book", err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// Patch handles PATCH: like Update but an empty body is rejected and the
// response says whether anything changed.
func (h *BooksHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	var patch models.BookPatch
	err := decodeJSON(w, r, &patch)
	if err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if patch.IsEmpty() {
		writeError(w, http.StatusBadRequest, "request body cannot be empty for update")
		return
	}
	if err := models.Validate(patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.DB.PatchBook(r.Context(), id, patch)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		serverError(h.Log, w, r, "could not update book", err)
		return
	}
	msg := msgBookUpdated
	if res.ModifiedCount == 0 {
		msg = msgBookUnchanged
	}
	writeJSON(w, http.StatusOK, PatchBookResponse{Message: msg, UpdateResult: res})
}

func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	err := h.DB.DeleteBook(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		serverError(h.Log, w, r, "could not delete book", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// bookID parses the {id} URL parameter, answering 400 itself when it is not an ObjectID.
func bookID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return primitive.NilObjectID, false
	}
	return id, true
}
