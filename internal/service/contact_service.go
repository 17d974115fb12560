package service

import (
	"strings"

	"github.com/mazraa-market/internal/models"
	"github.com/mazraa-market/internal/repository"
)

// ContactInput is a contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactService stores contact form submissions for staff review.
type ContactService struct {
	contactRepo repository.ContactMessageRepository
}

// NewContactService creates the contact service.
func NewContactService(contactRepo repository.ContactMessageRepository) *ContactService {
	return &ContactService{contactRepo: contactRepo}
}

// Submit validates and stores a message.
func (s *ContactService) Submit(in ContactInput) (*models.ContactMessage, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	message := strings.TrimSpace(in.Message)
	if name == "" || message == "" {
		return nil, ErrContactInvalid
	}

	record := &models.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: strings.TrimSpace(in.Subject),
		Message: message,
	}
	if err := s.contactRepo.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

// List returns a page of messages, for the admin inbox.
func (s *ContactService) List(filter repository.ContactMessageListFilter) ([]models.ContactMessage, int64, error) {
	return s.contactRepo.List(filter)
}

// MarkRead flags a message as handled.
func (s *ContactService) MarkRead(id uint) error {
	return s.contactRepo.MarkRead(id)
}
