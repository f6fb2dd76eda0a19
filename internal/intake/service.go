package intake

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"

	"github.com/fixly-labs/backend-fixly/internal/common"
)

// LeadInput is a repair enquiry submitted from the public site.
type LeadInput struct {
	Name         string `json:"name" validate:"required,min=2,max=120"`
	Phone        string `json:"phone" validate:"required,min=8,max=20"`
	Email        string `json:"email" validate:"omitempty,email"`
	DeviceTypeID string `json:"deviceTypeId" validate:"required"`
	BrandID      string `json:"brandId" validate:"omitempty"`
	ModelID      string `json:"modelId" validate:"omitempty"`
	ServiceID    string `json:"serviceId" validate:"omitempty"`
	Issue        string `json:"issue" validate:"required,min=5,max=2000"`
}

// CheckInInput is a walk-in customer registering a device at the counter.
type CheckInInput struct {
	Name         string `json:"name" validate:"required,min=2,max=120"`
	Phone        string `json:"phone" validate:"required,min=8,max=20"`
	DeviceTypeID string `json:"deviceTypeId" validate:"required"`
	BrandID      string `json:"brandId" validate:"omitempty"`
	ModelID      string `json:"modelId" validate:"omitempty"`
	Notes        string `json:"notes" validate:"max=2000"`
}

// Lead is a stored enquiry.
type Lead struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	LeadInput
}

// CheckIn is a stored walk-in registration.
type CheckIn struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	CheckInInput
}

// Recorder persists intake rows. Implemented by Store and by test fakes.
type Recorder interface {
	InsertLead(ctx context.Context, in LeadInput) (Lead, error)
	InsertCheckIn(ctx context.Context, in CheckInInput) (CheckIn, error)
}

// ChainVerifier validates that a device selection chain, including the
// requested service, is internally consistent.
type ChainVerifier interface {
	VerifyChain(ctx context.Context, typeID, brandID, modelID, serviceID string) error
}

// Service validates and records guest intake submissions.
type Service struct {
	recorder Recorder
	chains   ChainVerifier
	validate *validator.Validate
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Recorder Recorder
	Chains   ChainVerifier
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Recorder == nil {
		return nil, errors.New("intake: recorder is required")
	}
	if cfg.Chains == nil {
		return nil, errors.New("intake: chain verifier is required")
	}
	return &Service{
		recorder: cfg.Recorder,
		chains:   cfg.Chains,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// CreateLead validates and stores one enquiry.
func (s *Service) CreateLead(ctx context.Context, in LeadInput) (Lead, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Issue = strings.TrimSpace(in.Issue)
	if err := s.validate.Struct(in); err != nil {
		return Lead{}, validationError(err)
	}
	if err := s.chains.VerifyChain(ctx, in.DeviceTypeID, in.BrandID, in.ModelID, in.ServiceID); err != nil {
		return Lead{}, err
	}
	return s.recorder.InsertLead(ctx, in)
}

// CreateCheckIn validates and stores one walk-in registration.
func (s *Service) CreateCheckIn(ctx context.Context, in CheckInInput) (CheckIn, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Notes = strings.TrimSpace(in.Notes)
	if err := s.validate.Struct(in); err != nil {
		return CheckIn{}, validationError(err)
	}
	if err := s.chains.VerifyChain(ctx, in.DeviceTypeID, in.BrandID, in.ModelID, ""); err != nil {
		return CheckIn{}, err
	}
	return s.recorder.InsertCheckIn(ctx, in)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &common.AppError{
			Code:       "VALIDATION",
			Message:    "invalid request",
			HTTPStatus: http.StatusUnprocessableEntity,
			Err:        err,
		}
	}
	fields := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, map[string]string{
			"field": fe.Field(),
			"rule":  fe.Tag(),
		})
	}
	return &common.AppError{
		Code:       "VALIDATION",
		Message:    "invalid request",
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
		Details:    map[string]any{"fields": fields},
	}
}
