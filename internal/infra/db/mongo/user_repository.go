package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainuser "trailblaze/internal/domain/user"
)

// UserRepository relies on unique indexes over username_lower and email to
// enforce identity uniqueness under concurrent registration.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

// EnsureIndexes creates the uniqueness indexes. Call once at startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username_lower", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) ByIDs(ctx context.Context, ids []domainuser.ID) (map[domainuser.ID]*domainuser.User, error) {
	if len(ids) == 0 {
		return map[domainuser.ID]*domainuser.User{}, nil
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

	out := make(map[domainuser.ID]*domainuser.User, len(ids))
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		u := doc.toAggregate()
		out[u.ID] = u
	}
	return out, cursor.Err()
}

func (r *UserRepository) ByUsername(ctx context.Context, username string) (*domainuser.User, error) {
	key := usernameKey(username)
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"username_lower": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	doc := newUserDocument(u)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	if _, err := r.col.UpdateOne(ctx, filter, update, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return classifyDuplicate(ctx, r.col, doc)
		}
		return err
	}
	return nil
}

// classifyDuplicate maps a unique-index violation to the field-specific error.
func classifyDuplicate(ctx context.Context, col *mongo.Collection, doc userDocument) error {
	count, err := col.CountDocuments(ctx, bson.M{"username_lower": doc.UsernameLower, "_id": bson.M{"$ne": doc.ID}})
	if err == nil && count > 0 {
		return domainuser.ErrUsernameAlreadyUsed
	}
	return domainuser.ErrEmailAlreadyUsed
}

func usernameKey(username string) string {
	return strings.ToLower(domainuser.NormalizeUsername(username))
}

type userDocument struct {
	ID            string `bson:"_id"`
	Username      string `bson:"username"`
	UsernameLower string `bson:"username_lower"`
	Email         string `bson:"email"`
	PasswordHash  string `bson:"password_hash"`
	CreatedAt     int64  `bson:"created_at"`
}

func newUserDocument(u *domainuser.User) userDocument {
	return userDocument{
		ID:            string(u.ID),
		Username:      u.Username,
		UsernameLower: usernameKey(u.Username),
		Email:         domainuser.NormalizeEmail(u.Email),
		PasswordHash:  u.PasswordHash,
		CreatedAt:     u.CreatedAt.UnixMilli(),
	}
}

func (d userDocument) toAggregate() *domainuser.User {
	return &domainuser.User{
		ID:           domainuser.ID(d.ID),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    timestampToTime(d.CreatedAt),
	}
}
