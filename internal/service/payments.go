package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tixify/tixify-server/internal/model"
)

// PaymentStore is the persistence surface the payment service needs. It
// is implemented by *repository.PaymentRepository.
type PaymentStore interface {
	Insert(ctx context.Context, p model.Payment) (*model.InsertResult, error)
}

// PaymentService records payments. Payment payloads are stored, never
// interpreted; there is no gateway integration at this layer.
type PaymentService struct {
	payments PaymentStore
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(payments PaymentStore) *PaymentService {
	return &PaymentService{payments: payments}
}

// Create validates the request and stores a payment record.
func (s *PaymentService) Create(ctx context.Context, req model.CreatePaymentRequest) (*model.InsertResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	}

	payment := model.Payment{
		Email:         email,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
		Status:        req.Status,
		CreatedAt:     time.Now().UTC(),
	}
	if req.EventID != "" {
		eventID, err := primitive.ObjectIDFromHex(req.EventID)
		if err != nil {
			return nil, fmt.Errorf("%w: event_id is not a valid id", ErrValidation)
		}
		payment.EventID = eventID
	}
	if len(req.Metadata) > 0 {
		payment.Metadata = bson.M(req.Metadata)
	}

	return s.payments.Insert(ctx, payment)
}
