package service

import (
	"github.com/mercadolink/mercado_api/internal/models"
	"github.com/mercadolink/mercado_api/internal/repository"
)

// ClientService manages cartera client accounts.
type ClientService struct {
	clientRepo *repository.ClientRepository
}

// NewClientService constructs a ClientService.
func NewClientService(clientRepo *repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

func (s *ClientService) ListClients(search string, page, limit int) ([]models.Client, int, error) {
	return s.clientRepo.ListPaged(search, page, limit)
}

func (s *ClientService) GetClient(id int) (*models.Client, error) {
	return s.clientRepo.GetByID(id)
}

func (s *ClientService) CreateClient(c *models.Client) error {
	return s.clientRepo.Create(c)
}

func (s *ClientService) UpdateClient(c *models.Client) error {
	return s.clientRepo.Update(c)
}
