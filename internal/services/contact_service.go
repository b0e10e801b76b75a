package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/portfolio-cms/internal/constants"
	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/logger"
	"github.com/yukikurage/portfolio-cms/internal/mailer"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/repository"
	"github.com/yukikurage/portfolio-cms/internal/utils"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

// ContactService records contact form submissions and notifies the owner
type ContactService struct {
	tx          database.Transactor
	messageRepo repository.ContactMessageRepository
	notifier    mailer.Notifier
}

// NewContactService creates a new ContactService
func NewContactService(tx database.Transactor, messageRepo repository.ContactMessageRepository, notifier mailer.Notifier) *ContactService {
	return &ContactService{
		tx:          tx,
		messageRepo: messageRepo,
		notifier:    notifier,
	}
}

// ContactInput is a validated contact form submission
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Submit commits the message, then sends the notification. A failed
// notification is logged and reported through notified; the message is kept.
func (s *ContactService) Submit(ctx context.Context, input ContactInput) (notified bool, err error) {
	message := &models.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.messageRepo.Create(ctx, message)
	})
	if err != nil {
		return false, fmt.Errorf("failed to save contact message: %w", err)
	}

	err = s.notifier.SendContactNotification(ctx, mailer.ContactNotification{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
	})
	if err != nil {
		logger.Log.Warnw("contact notification not sent", "message_id", message.ID, "error", err)
		return false, nil
	}
	return true, nil
}

// MessagePage is one page of contact messages with its pager.
type MessagePage struct {
	Messages   []models.ContactMessage
	Pagination utils.Pagination
}

// List lists received messages, newest first.
func (s *ContactService) List(ctx context.Context, page int) (*MessagePage, error) {
	params := utils.NewPaginationParams(page, constants.AdminListPerPage)
	messages, total, err := s.messageRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return &MessagePage{Messages: messages, Pagination: utils.NewPagination(params, total)}, nil
}

// MarkRead flags a message as read.
func (s *ContactService) MarkRead(ctx context.Context, id uint64) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.messageRepo.MarkRead(ctx, id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMessageNotFound
	}
	return err
}
