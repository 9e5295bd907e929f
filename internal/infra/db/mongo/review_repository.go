package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincampground "trailblaze/internal/domain/campground"
	domainreview "trailblaze/internal/domain/review"
	domainuser "trailblaze/internal/domain/user"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection("reviews")}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreview.ID) (*domainreview.Review, error) {
	var doc reviewDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreview.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// ByIDs resolves the given ids, preserving input order. Ids with no record
// are skipped rather than failing the whole read.
func (r *ReviewRepository) ByIDs(ctx context.Context, ids []domainreview.ID) ([]*domainreview.Review, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, string(id))
	}
	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": raw}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	found := make(map[domainreview.ID]*domainreview.Review, len(ids))
	for cursor.Next(ctx) {
		var doc reviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rev := doc.toAggregate()
		found[rev.ID] = rev
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	out := make([]*domainreview.Review, 0, len(found))
	for _, id := range ids {
		if rev, ok := found[id]; ok {
			out = append(out, rev)
		}
	}
	return out, nil
}

func (r *ReviewRepository) Save(ctx context.Context, rev *domainreview.Review) error {
	doc := newReviewDocument(rev)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *ReviewRepository) Delete(ctx context.Context, id domainreview.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainreview.ErrNotFound
	}
	return nil
}

type reviewDocument struct {
	ID         string `bson:"_id"`
	Campground string `bson:"campground_id"`
	Author     string `bson:"author"`
	Body       string `bson:"body"`
	Rating     int    `bson:"rating"`
	CreatedAt  int64  `bson:"created_at"`
}

func newReviewDocument(rev *domainreview.Review) reviewDocument {
	return reviewDocument{
		ID:         string(rev.ID),
		Campground: string(rev.Campground),
		Author:     string(rev.Author),
		Body:       rev.Body,
		Rating:     rev.Rating,
		CreatedAt:  rev.CreatedAt.UnixMilli(),
	}
}

func (d reviewDocument) toAggregate() *domainreview.Review {
	return &domainreview.Review{
		ID:         domainreview.ID(d.ID),
		Campground: domaincampground.ID(d.Campground),
		Author:     domainuser.ID(d.Author),
		Body:       d.Body,
		Rating:     d.Rating,
		CreatedAt:  timestampToTime(d.CreatedAt),
	}
}
