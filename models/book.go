package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	Name string `bson:"name" json:"name" validate:"required"`
	Body string `bson:"body" json:"body" validate:"required"`
}

type Book struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Author    string             `bson:"author" json:"author"`
	Genres    []string           `bson:"genres" json:"genres"`
	Pages     int                `bson:"pages" json:"pages"`
	Rating    float64            `bson:"rating" json:"rating"`
	Reviews   []Review           `bson:"reviews" json:"reviews"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateBookRequest is the body of POST /api/books. Every field must be present;
// genres and reviews may be empty arrays but not null.
type CreateBookRequest struct {
	Title   string   `json:"title" validate:"required"`
	Author  string   `json:"author" validate:"required"`
	Genres  []string `json:"genres" validate:"required"`
	Pages   int      `json:"pages" validate:"required,gt=0"`
	Rating  float64  `json:"rating" validate:"required"`
	Reviews []Review `json:"reviews" validate:"required,dive"`
}

func (r CreateBookRequest) Book() *Book {
	return &Book{
		Title:   r.Title,
		Author:  r.Author,
		Genres:  r.Genres,
		Pages:   r.Pages,
		Rating:  r.Rating,
		Reviews: r.Reviews,
	}
}

// BookPatch is the body of PUT and PATCH /api/books/{id}. A nil field is left untouched.
// Keys outside this set, _id included, are dropped by the decoder.
type BookPatch struct {
	Title   *string   `json:"title" validate:"omitempty,min=1"`
	Author  *string   `json:"author" validate:"omitempty,min=1"`
	Genres  *[]string `json:"genres" validate:"omitempty"`
	Pages   *int      `json:"pages" validate:"omitempty,gt=0"`
	Rating  *float64  `json:"rating" validate:"omitempty"`
	Reviews *[]Review `json:"reviews" validate:"omitempty,dive"`
}

func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Genres == nil &&
		p.Pages == nil && p.Rating == nil && p.Reviews == nil
}

// SetDoc returns the $set document for the present fields, in schema order.
func (p BookPatch) SetDoc() bson.D {
	doc := bson.D{}
	if p.Title != nil {
		doc = append(doc, bson.E{Key: "title", Value: *p.Title})
	}
	if p.Author != nil {
		doc = append(doc, bson.E{Key: "author", Value: *p.Author})
	}
	if p.Genres != nil {
		doc = append(doc, bson.E{Key: "genres", Value: *p.Genres})
	}
	if p.Pages != nil {
		doc = append(doc, bson.E{Key: "pages", Value: *p.Pages})
	}
	if p.Rating != nil {
		doc = append(doc, bson.E{Key: "rating", Value: *p.Rating})
	}
	if p.Reviews != nil {
		doc = append(doc, bson.E{Key: "reviews", Value: *p.Reviews})
	}
	return doc
}

// Apply copies the present fields onto b.
func (p BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Genres != nil {
		b.Genres = *p.Genres
	}
	if p.Pages != nil {
		b.Pages = *p.Pages
	}
	if p.Rating != nil {
		b.Rating = *p.Rating
	}
	if p.Reviews != nil {
		b.Reviews = *p.Reviews
	}
}
