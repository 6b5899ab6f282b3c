package service

import (
	"github.com/rs/zerolog/log"

	"github.com/mercadolink/mercado_api/internal/models"
	"github.com/mercadolink/mercado_api/internal/repository"
)

// PaymentService records and lists payments against cartera clients.
type PaymentService struct {
	paymentRepo *repository.PaymentRepository
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(paymentRepo *repository.PaymentRepository) *PaymentService {
	return &PaymentService{paymentRepo: paymentRepo}
}

func (s *PaymentService) ListPayments(clientID, page, limit int) ([]models.Payment, int, error) {
	return s.paymentRepo.ListPaged(clientID, page, limit)
}

// CreatePayment records a payment and settles it against the client
// balance atomically.
func (s *PaymentService) CreatePayment(p *models.Payment) error {
	if err := s.paymentRepo.CreateWithBalance(p); err != nil {
		return err
	}
	log.Info().
		Int("client_id", p.ClientID).
		Int64("amount", p.Amount).
		Int("created_by", p.CreatedBy).
		Msg("Payment recorded")
	return nil
}
