package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yashrajoria/ecommerce-microservices/services/order-service/models"
)

// OrderRepository abstracts order persistence. ApplyUserUpdate is the write
// path of the event consumer; the rest serve the HTTP surface.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID string) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) (*models.Order, error)
	UpdateAddress(ctx context.Context, id primitive.ObjectID, deliveryAddress string) (*models.Order, error)
	ApplyUserUpdate(ctx context.Context, userID, email, deliveryAddress string) (int64, error)
}

type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: db.Collection("orders"),
	}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.Status = models.StatusPending
	order.CreatedAt = now
	order.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MongoOrderRepository) FindByUser(ctx context.Context, userID string) ([]*models.Order, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	return r.findOneAndSet(ctx, id, bson.M{"status": status})
}

func (r *MongoOrderRepository) UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) (*models.Order, error) {
	return r.findOneAndSet(ctx, id, bson.M{"email": email})
}

func (r *MongoOrderRepository) UpdateAddress(ctx context.Context, id primitive.ObjectID, deliveryAddress string) (*models.Order, error) {
	return r.findOneAndSet(ctx, id, bson.M{"deliveryAddress": deliveryAddress})
}

// ApplyUserUpdate overwrites the denormalized user fields on every order
// belonging to userID. The overwrite is unconditional, which is what makes
// reapplying the same event idempotent. Zero matched orders is not an
// error.
func (r *MongoOrderRepository) ApplyUserUpdate(ctx context.Context, userID, email, deliveryAddress string) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{
			"email":           email,
			"deliveryAddress": deliveryAddress,
			"updatedAt":       time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *MongoOrderRepository) findOneAndSet(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Order, error) {
	fields["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Order
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
