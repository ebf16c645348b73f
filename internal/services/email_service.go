package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mailpane/core/internal/database/models"
	"gorm.io/gorm"
)

var (
	// ErrEmailNotFound indicates the email was not found
	ErrEmailNotFound = errors.New("email not found")
	// ErrInvalidEmailData indicates invalid email data
	ErrInvalidEmailData = errors.New("invalid email data")
	// ErrInconsistentState indicates a row written moments ago could not be
	// read back. This signals a bug, not a user error.
	ErrInconsistentState = errors.New("store state inconsistent")
)

// ListFilter selects which subset of emails a listing returns
type ListFilter string

const (
	FilterAll      ListFilter = "all"
	FilterUnread   ListFilter = "unread"
	FilterArchived ListFilter = "archived"
)

// ParseListFilter validates a filter query value. The empty string maps to
// FilterAll.
func ParseListFilter(value string) (ListFilter, bool) {
	switch ListFilter(value) {
	case FilterAll, "":
		return FilterAll, true
	case FilterUnread:
		return FilterUnread, true
	case FilterArchived:
		return FilterArchived, true
	default:
		return "", false
	}
}

// ContactInput carries one party of an email in a create or update request
type ContactInput struct {
	Name   string
	Email  string
	Avatar *string
}

// AttachmentInput carries attachment metadata in a create or update request
type AttachmentInput struct {
	Filename string
	Size     string
	URL      string
}

// CreateEmailInput is the validated payload for CreateEmail
type CreateEmailInput struct {
	Recipient   ContactInput
	Subject     string
	Body        string
	Attachments []AttachmentInput
}

// UpdateEmailInput is the partial payload for UpdateEmail. Nil fields are
// left untouched. A non-nil Attachments slice, even an empty one, replaces
// the stored attachment set.
type UpdateEmailInput struct {
	IsRead      *bool
	IsArchived  *bool
	Subject     *string
	Body        *string
	Recipient   *ContactInput
	Attachments []AttachmentInput
}

// EmailService owns all read and write access to emails and attachments
type EmailService struct {
	db     *gorm.DB
	sender models.Contact
}

// NewEmailService creates a new EmailService instance. The sender identity
// is stamped on every created email; it is passed in rather than read from
// process state so the service stays independently testable.
func NewEmailService(db *gorm.DB, sender models.Contact) *EmailService {
	return &EmailService{
		db:     db,
		sender: sender,
	}
}

// listScope composes the filter and search conditions of a listing query.
// The archived view shows archived mail only; every other view excludes it.
func listScope(filter ListFilter, search string) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if filter == FilterArchived {
			query = query.Where("is_archived = ?", true)
		} else {
			query = query.Where("is_archived = ?", false)
			if filter == FilterUnread {
				query = query.Where("is_read = ?", false)
			}
		}

		if term := strings.TrimSpace(search); term != "" {
			pattern := "%" + term + "%"
			query = query.Where(
				"sender_name LIKE ? OR sender_email LIKE ? OR recipient_name LIKE ? OR recipient_email LIKE ?"+
					" OR subject LIKE ? OR preview LIKE ? OR body LIKE ?",
				pattern, pattern, pattern, pattern, pattern, pattern, pattern,
			)
		}

		return query
	}
}

// attachmentOrder preloads attachments in insertion order
func attachmentOrder(query *gorm.DB) *gorm.DB {
	return query.Order("attachments.id ASC")
}

// ListEmails returns the emails matching filter and search, unread first,
// then newest first, then lowest id. Attachments for the whole result are
// loaded in a single query.
func (s *EmailService) ListEmails(filter ListFilter, search string) ([]models.Email, error) {
	emails := []models.Email{}
	err := s.db.
		Scopes(listScope(filter, search)).
		Preload("Attachments", attachmentOrder).
		Order("is_read ASC, date DESC, id ASC").
		Find(&emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

// GetEmailByID retrieves an email with its attachments
func (s *EmailService) GetEmailByID(id uint) (*models.Email, error) {
	var email models.Email
	if err := s.db.Preload("Attachments", attachmentOrder).First(&email, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmailNotFound
		}
		return nil, err
	}
	return &email, nil
}

// CreateEmail stores a new outgoing email. The sender comes from the
// configured identity, the date is the current UTC time at second
// precision, and the preview is derived from the body. New mail starts
// read and not archived.
func (s *EmailService) CreateEmail(input CreateEmailInput) (*models.Email, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	email := models.Email{
		SenderName:     s.sender.Name,
		SenderEmail:    s.sender.Email,
		SenderAvatar:   s.sender.Avatar,
		RecipientName:  input.Recipient.Name,
		RecipientEmail: input.Recipient.Email,
		Subject:        strings.TrimSpace(input.Subject),
		Preview:        BuildPreview(input.Body, PreviewLimit),
		Body:           strings.TrimSpace(input.Body),
		Date:           time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
		IsRead:         true,
		IsArchived:     false,
		Attachments:    toAttachmentRows(input.Attachments),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&email).Error; err != nil {
			return err
		}

		var created models.Email
		if err := tx.Preload("Attachments", attachmentOrder).First(&created, email.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: created email %d vanished", ErrInconsistentState, email.ID)
			}
			return err
		}
		email = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &email, nil
}

// UpdateEmail applies a partial update. Only fields present in the input
// change; a body change recomputes the preview; a present attachments list
// replaces the stored set wholesale. Returns ErrEmailNotFound when the id
// does not exist, including when a concurrent delete races the update.
func (s *EmailService) UpdateEmail(id uint, input UpdateEmailInput) (*models.Email, error) {
	var updated models.Email
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Email
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmailNotFound
			}
			return err
		}

		if columns := collectUpdateColumns(input); len(columns) > 0 {
			if err := tx.Model(&models.Email{}).Where("id = ?", id).Updates(columns).Error; err != nil {
				return err
			}
		}

		if input.Attachments != nil {
			if err := tx.Where("email_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
				return err
			}
			for _, att := range toAttachmentRows(input.Attachments) {
				att.EmailID = id
				if err := tx.Create(&att).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Preload("Attachments", attachmentOrder).First(&updated, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmailNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteEmail removes an email and its attachments. Returns false, without
// an error, when the id does not exist.
func (s *EmailService) DeleteEmail(id uint) (bool, error) {
	deleted := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Email
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		// Attachments go first so a failure never leaves them orphaned
		if err := tx.Where("email_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Email{}, id).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// collectUpdateColumns maps the fields present in a partial update onto the
// storage columns that should change. Absent fields contribute nothing; a
// body change always recomputes the preview from the trimmed body.
func collectUpdateColumns(input UpdateEmailInput) map[string]interface{} {
	columns := map[string]interface{}{}

	if input.IsRead != nil {
		columns["is_read"] = *input.IsRead
	}
	if input.IsArchived != nil {
		columns["is_archived"] = *input.IsArchived
	}
	if input.Subject != nil {
		columns["subject"] = strings.TrimSpace(*input.Subject)
	}
	if input.Body != nil {
		body := strings.TrimSpace(*input.Body)
		columns["body"] = body
		columns["preview"] = BuildPreview(body, PreviewLimit)
	}
	if input.Recipient != nil {
		columns["recipient_name"] = strings.TrimSpace(input.Recipient.Name)
		columns["recipient_email"] = strings.TrimSpace(input.Recipient.Email)
	}

	return columns
}

// toAttachmentRows converts attachment inputs to rows, preserving order
func toAttachmentRows(inputs []AttachmentInput) []models.Attachment {
	rows := make([]models.Attachment, len(inputs))
	for i, input := range inputs {
		rows[i] = models.Attachment{
			Filename: input.Filename,
			Size:     input.Size,
			URL:      input.URL,
		}
	}
	return rows
}

func validateCreateInput(input CreateEmailInput) error {
	if strings.TrimSpace(input.Recipient.Name) == "" {
		return fmt.Errorf("%w: recipient name is required", ErrInvalidEmailData)
	}
	if len(input.Recipient.Email) < 3 {
		return fmt.Errorf("%w: recipient email is too short", ErrInvalidEmailData)
	}
	if strings.TrimSpace(input.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidEmailData)
	}
	if strings.TrimSpace(input.Body) == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidEmailData)
	}
	for _, att := range input.Attachments {
		if att.Filename == "" || att.Size == "" || att.URL == "" {
			return fmt.Errorf("%w: attachment filename, size and url are required", ErrInvalidEmailData)
		}
	}
	return nil
}
