package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincampground "trailblaze/internal/domain/campground"
	domainuser "trailblaze/internal/domain/user"
)

type CampgroundRepository struct {
	col *mongo.Collection
}

func NewCampgroundRepository(db *mongo.Database) *CampgroundRepository {
	return &CampgroundRepository{col: db.Collection("campgrounds")}
}

func (r *CampgroundRepository) ByID(ctx context.Context, id domaincampground.ID) (*domaincampground.Campground, error) {
	var doc campgroundDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincampground.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *CampgroundRepository) Save(ctx context.Context, cg *domaincampground.Campground) error {
	doc := newCampgroundDocument(cg)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *CampgroundRepository) Delete(ctx context.Context, id domaincampground.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domaincampground.ErrNotFound
	}
	return nil
}

func (r *CampgroundRepository) List(ctx context.Context) ([]*domaincampground.Campground, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domaincampground.Campground
	for cursor.Next(ctx) {
		var doc campgroundDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type campgroundDocument struct {
	ID          string           `bson:"_id"`
	Owner       string           `bson:"owner"`
	Title       string           `bson:"title"`
	Location    string           `bson:"location"`
	Geometry    geometryDocument `bson:"geometry"`
	Price       float64          `bson:"price"`
	Description string           `bson:"description"`
	Photos      []photoDocument  `bson:"photos"`
	Reviews     []string         `bson:"reviews"`
	CreatedAt   int64            `bson:"created_at"`
	UpdatedAt   int64            `bson:"updated_at"`
}

type geometryDocument struct {
	Type        string     `bson:"type"`
	Coordinates [2]float64 `bson:"coordinates"`
}

type photoDocument struct {
	Filename string `bson:"filename"`
	URL      string `bson:"url"`
}

func newCampgroundDocument(cg *domaincampground.Campground) campgroundDocument {
	photos := make([]photoDocument, 0, len(cg.Photos))
	for _, p := range cg.Photos {
		photos = append(photos, photoDocument{Filename: p.Filename, URL: p.URL})
	}
	reviews := make([]string, 0, len(cg.Reviews))
	for _, ref := range cg.Reviews {
		reviews = append(reviews, string(ref))
	}
	return campgroundDocument{
		ID:          string(cg.ID),
		Owner:       string(cg.Owner),
		Title:       cg.Title,
		Location:    cg.Location,
		Geometry:    geometryDocument{Type: cg.Geometry.Type, Coordinates: cg.Geometry.Coordinates},
		Price:       cg.Price,
		Description: cg.Description,
		Photos:      photos,
		Reviews:     reviews,
		CreatedAt:   cg.CreatedAt.UnixMilli(),
		UpdatedAt:   cg.UpdatedAt.UnixMilli(),
	}
}

func (d campgroundDocument) toAggregate() *domaincampground.Campground {
	photos := make([]domaincampground.Photo, 0, len(d.Photos))
	for _, p := range d.Photos {
		photos = append(photos, domaincampground.Photo{Filename: p.Filename, URL: p.URL})
	}
	reviews := make([]domaincampground.ReviewRef, 0, len(d.Reviews))
	for _, ref := range d.Reviews {
		reviews = append(reviews, domaincampground.ReviewRef(ref))
	}
	return &domaincampground.Campground{
		ID:          domaincampground.ID(d.ID),
		Owner:       domainuser.ID(d.Owner),
		Title:       d.Title,
		Location:    d.Location,
		Geometry:    domaincampground.Geometry{Type: d.Geometry.Type, Coordinates: d.Geometry.Coordinates},
		Price:       d.Price,
		Description: d.Description,
		Photos:      photos,
		Reviews:     reviews,
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
