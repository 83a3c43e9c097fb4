package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tixify/tixify-server/internal/model"
)

// UserRepository handles persistence for identity records.
type UserRepository struct {
	col *mongo.Collection
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

// EnsureIndexes creates the unique email index. The registration flow is
// look-before-insert; the index backstops the race between two concurrent
// registrations of the same email.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

// FindByEmail returns the user with the given email or ErrNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

// FindAll returns every identity record.
func (r *UserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []model.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// Insert stores a new user. A duplicate-key collision on the email index
// surfaces as ErrDuplicateEmail so the caller can treat it as the normal
// already-registered outcome.
func (r *UserRepository) Insert(ctx context.Context, u model.User) (*model.InsertResult, error) {
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return insertResult(res), nil
}

// UpdateRole sets the role attribute of the user with the given id.
func (r *UserRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role model.Role) (*model.UpdateResult, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role}},
	)
	if err != nil {
		return nil, fmt.Errorf("update user role: %w", err)
	}
	return &model.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

// DeleteByID removes the user with the given id. A missing id yields a
// zero-count result, not an error.
func (r *UserRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return &model.DeleteResult{DeletedCount: res.DeletedCount}, nil
}

// insertResult converts the driver's insert acknowledgement, rendering
// the assigned ObjectID as its hex form.
func insertResult(res *mongo.InsertOneResult) *model.InsertResult {
	out := &model.InsertResult{}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		out.InsertedID = id.Hex()
	} else {
		out.InsertedID = fmt.Sprintf("%v", res.InsertedID)
	}
	return out
}
