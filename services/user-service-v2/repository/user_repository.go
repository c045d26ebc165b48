package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yashrajoria/ecommerce-microservices/services/user-service-v2/models"
)

// UserRepository abstracts user persistence so controllers can be tested
// against a mock.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) (*models.User, error)
	UpdateAddress(ctx context.Context, id primitive.ObjectID, address models.Address) (*models.User, error)
}

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.Collection("users"),
	}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) (*models.User, error) {
	return r.findOneAndSet(ctx, id, bson.M{"email": email})
}

func (r *MongoUserRepository) UpdateAddress(ctx context.Context, id primitive.ObjectID, address models.Address) (*models.User, error) {
	return r.findOneAndSet(ctx, id, bson.M{"address": address})
}

// findOneAndSet applies a $set and returns the post-update document, so the
// caller can publish the full post-mutation state.
func (r *MongoUserRepository) findOneAndSet(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	fields["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		opts,
	).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
