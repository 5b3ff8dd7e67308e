package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductService_List(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	catalogue := []model.Product{
		{ID: "P001", Name: "Product 1", Price: 10.00, Category: "Cat1", CreatedAt: time.Now()},
		{ID: "P002", Name: "Product 2", Price: 20.00, Category: "Cat2", CreatedAt: time.Now()},
	}

	tests := []struct {
		name          string
		limit         int
		offset        int
		category      string
		expectedLimit int
		expectedOff   int
	}{
		{
			name:          "defaults applied",
			limit:         0,
			offset:        -5,
			expectedLimit: 10,
			expectedOff:   0,
		},
		{
			name:          "limit clamped",
			limit:         500,
			offset:        20,
			expectedLimit: 100,
			expectedOff:   20,
		},
		{
			name:          "category passthrough",
			limit:         25,
			category:      "Cat1",
			expectedLimit: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			mockRepo.On("List", ctx, testMerchant, tt.expectedLimit, tt.expectedOff, tt.category).
				Return(catalogue, nil)

			svc := NewProductService(mockRepo, logger)

			products, err := svc.List(ctx, testMerchant, tt.limit, tt.offset, tt.category)

			require.NoError(t, err)
			assert.Len(t, products, 2)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_List_RepositoryError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockRepo.On("List", ctx, testMerchant, 10, 0, "").
		Return(nil, errors.New("database unavailable"))

	svc := NewProductService(mockRepo, zerolog.Nop())

	products, err := svc.List(ctx, testMerchant, 0, 0, "")

	assert.Nil(t, products)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list products")
}

func TestProductService_GetByID(t *testing.T) {
	ctx := context.Background()
	product := &model.Product{ID: "P001", Name: "Product 1", Price: 10.00}

	mockRepo := new(MockProductRepository)
	mockRepo.On("GetByID", ctx, testMerchant, "P001").Return(product, nil)

	svc := NewProductService(mockRepo, zerolog.Nop())

	got, err := svc.GetByID(ctx, testMerchant, "P001")

	require.NoError(t, err)
	assert.Equal(t, product, got)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockRepo.On("GetByID", ctx, testMerchant, "missing").Return(nil, nil)

	svc := NewProductService(mockRepo, zerolog.Nop())

	got, err := svc.GetByID(ctx, testMerchant, "missing")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestProductService_GetByID_EmptyID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := NewProductService(mockRepo, zerolog.Nop())

	got, err := svc.GetByID(context.Background(), testMerchant, "")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}
