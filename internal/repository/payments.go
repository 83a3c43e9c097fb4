package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tixify/tixify-server/internal/model"
)

// PaymentRepository handles persistence for payment records. Payments are
// insert-only; nothing in the API reads them back.
type PaymentRepository struct {
	col *mongo.Collection
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection("payments")}
}

// Insert stores a new payment record.
func (r *PaymentRepository) Insert(ctx context.Context, p model.Payment) (*model.InsertResult, error) {
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	return insertResult(res), nil
}
