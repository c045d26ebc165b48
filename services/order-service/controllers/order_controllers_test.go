package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/yashrajoria/ecommerce-microservices/services/order-service/models"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID string) ([]*models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) (*models.Order, error) {
	args := m.Called(ctx, id, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateAddress(ctx context.Context, id primitive.ObjectID, deliveryAddress string) (*models.Order, error) {
	args := m.Called(ctx, id, deliveryAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ApplyUserUpdate(ctx context.Context, userID, email, deliveryAddress string) (int64, error) {
	args := m.Called(ctx, userID, email, deliveryAddress)
	return args.Get(0).(int64), args.Error(1)
}

func orderRouter(repo *MockOrderRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	oc := NewOrderController(repo, zap.NewNop())
	r := gin.New()
	r.POST("/orders", oc.CreateOrder)
	r.GET("/orders", oc.ListOrders)
	r.GET("/orders/:orderId", oc.GetOrder)
	r.PUT("/orders/:orderId/status", oc.UpdateStatus)
	r.PUT("/orders/:orderId/email", oc.UpdateEmail)
	r.PUT("/orders/:orderId/address", oc.UpdateAddress)
	return r
}

func TestCreateOrder(t *testing.T) {
	t.Run("Success - 201 Created with PENDING status", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
			order := args.Get(1).(*models.Order)
			order.ID = primitive.NewObjectID()
			order.Status = models.StatusPending
		}).Return(nil).Once()

		router := orderRouter(repo)

		payload := `{
			"userId": "u1",
			"items": [{"productId": "p1", "quantity": 2}],
			"email": "a@b.com",
			"deliveryAddress": "42 Elm St"
		}`
		req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), models.StatusPending)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - missing items - 400", func(t *testing.T) {
		repo := new(MockOrderRepository)
		router := orderRouter(repo)

		payload := `{"userId": "u1", "email": "a@b.com", "deliveryAddress": "x"}`
		req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		repo.AssertNotCalled(t, "Create")
	})
}

func TestGetOrder(t *testing.T) {
	t.Run("Success - 200 OK", func(t *testing.T) {
		repo := new(MockOrderRepository)
		id := primitive.NewObjectID()
		repo.On("FindByID", mock.Anything, id).Return(&models.Order{
			ID:     id,
			UserID: "u1",
			Status: models.StatusPending,
		}, nil).Once()

		router := orderRouter(repo)

		req, _ := http.NewRequest(http.MethodGet, "/orders/"+id.Hex(), nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), id.Hex())
	})

	t.Run("Failure - unknown order - 404", func(t *testing.T) {
		repo := new(MockOrderRepository)
		id := primitive.NewObjectID()
		repo.On("FindByID", mock.Anything, id).Return(nil, mongo.ErrNoDocuments).Once()

		router := orderRouter(repo)

		req, _ := http.NewRequest(http.MethodGet, "/orders/"+id.Hex(), nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Order not found!")
	})
}

func TestListOrders(t *testing.T) {
	t.Run("Success - orders for user", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindByUser", mock.Anything, "u1").Return([]*models.Order{
			{ID: primitive.NewObjectID(), UserID: "u1"},
			{ID: primitive.NewObjectID(), UserID: "u1"},
		}, nil).Once()

		router := orderRouter(repo)

		req, _ := http.NewRequest(http.MethodGet, "/orders?userId=u1", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - missing userId - 400", func(t *testing.T) {
		repo := new(MockOrderRepository)
		router := orderRouter(repo)

		req, _ := http.NewRequest(http.MethodGet, "/orders", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestUpdateStatus(t *testing.T) {
	repo := new(MockOrderRepository)
	id := primitive.NewObjectID()
	repo.On("UpdateStatus", mock.Anything, id, models.StatusShipped).Return(&models.Order{
		ID:     id,
		Status: models.StatusShipped,
	}, nil).Once()

	router := orderRouter(repo)

	req, _ := http.NewRequest(http.MethodPut, "/orders/"+id.Hex()+"/status", bytes.NewBufferString(`{"status": "SHIPPED"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), models.StatusShipped)
	repo.AssertExpectations(t)
}

func TestUpdateAddress(t *testing.T) {
	repo := new(MockOrderRepository)
	id := primitive.NewObjectID()
	repo.On("UpdateAddress", mock.Anything, id, "9 New Rd").Return(&models.Order{
		ID:              id,
		DeliveryAddress: "9 New Rd",
	}, nil).Once()

	router := orderRouter(repo)

	req, _ := http.NewRequest(http.MethodPut, "/orders/"+id.Hex()+"/address", bytes.NewBufferString(`{"deliveryAddress": "9 New Rd"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	repo.AssertExpectations(t)
}
