package store

import (
	"context"
	"time"

	"github.com/kevinaaaquil/books-api/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// ListQuery selects one page of the books collection.
type ListQuery struct {
	Skip         int64
	Limit        int64
	SortByAuthor bool
}

func (q ListQuery) sort() bson.D {
	if q.SortByAuthor {
		return bson.D{{Key: "author", Value: 1}, {Key: "_id", Value: 1}}
	}
	return bson.D{{Key: "_id", Value: 1}}
}

// UpdateResult reports how many documents a patch matched and modified.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// ListBooks returns the requested page together with the collection size.
func (db *DB) ListBooks(ctx context.Context, q ListQuery) ([]models.Book, int64, error) {
	var (
		books []models.Book
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		opts := options.Find().SetSort(q.sort()).SetSkip(q.Skip).SetLimit(q.Limit)
		cur, err := db.Books().Find(gctx, bson.M{}, opts)
		if err != nil {
			return errors.Wrap(err, "find books")
		}
		defer cur.Close(gctx)
		return errors.Wrap(cur.All(gctx, &books), "decode books")
	})
	g.Go(func() error {
		n, err := db.Books().CountDocuments(gctx, bson.M{})
		total = n
		return errors.Wrap(err, "count books")
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if books == nil {
		books = []models.Book{}
	}
	return books, total, nil
}

func (db *DB) BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := db.Books().FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find book")
	}
	return &book, nil
}

// InsertBook stores book, filling in its ID and timestamps.
func (db *DB) InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	now := db.now()
	book.ID = primitive.NilObjectID
	book.CreatedAt, book.UpdatedAt = now, now
	res, err := db.Books().InsertOne(ctx, book)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert book")
	}
	book.ID = res.InsertedID.(primitive.ObjectID)
	return book.ID, nil
}

// UpdateBook sets the present patch fields and returns the document as stored afterwards.
func (db *DB) UpdateBook(ctx context.Context, id primitive.ObjectID, patch models.BookPatch) (*models.Book, error) {
	set := append(patch.SetDoc(), bson.E{Key: "updatedAt", Value: db.now()})
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var book models.Book
	err := db.Books().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "update book")
	}
	return &book, nil
}

// PatchBook sets the present patch fields. updatedAt only moves when a field
// actually changed, so ModifiedCount tells callers whether the write was a no-op.
// The comparison and both writes happen in one pipeline update.
func (db *DB) PatchBook(ctx context.Context, id primitive.ObjectID, patch models.BookPatch) (UpdateResult, error) {
	res, err := db.Books().UpdateOne(ctx, bson.M{"_id": id}, patchPipeline(patch.SetDoc(), db.now()))
	if err != nil {
		return UpdateResult{}, errors.Wrap(err, "patch book")
	}
	if res.MatchedCount == 0 {
		return UpdateResult{}, ErrNotFound
	}
	return UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

// patchPipeline sets each field and keeps the stored updatedAt unless one of
// them differs from the current value. Values go through $literal so strings
// starting with "$" are not read as field paths.
func patchPipeline(fields bson.D, now time.Time) mongo.Pipeline {
	set := make(bson.D, 0, len(fields)+1)
	same := make(bson.A, 0, len(fields))
	for _, f := range fields {
		lit := bson.D{{Key: "$literal", Value: f.Value}}
		set = append(set, bson.E{Key: f.Key, Value: lit})
		same = append(same, bson.D{{Key: "$eq", Value: bson.A{"$" + f.Key, lit}}})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: bson.D{{Key: "$cond", Value: bson.D{
		{Key: "if", Value: bson.D{{Key: "$and", Value: same}}},
		{Key: "then", Value: "$updatedAt"},
		{Key: "else", Value: now},
	}}}})
	return mongo.Pipeline{{{Key: "$set", Value: set}}}
}

func (db *DB) DeleteBook(ctx context.Context, id primitive.ObjectID) error {
	res, err := db.Books().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete book")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
