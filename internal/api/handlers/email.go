package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mailpane/core/internal/database/models"
	"github.com/mailpane/core/internal/services"
)

// EmailHandler handles email related requests
type EmailHandler struct {
	emailService *services.EmailService
	logService   *services.LogService
}

// NewEmailHandler creates a new EmailHandler instance
func NewEmailHandler(emailService *services.EmailService, logService *services.LogService) *EmailHandler {
	return &EmailHandler{
		emailService: emailService,
		logService:   logService,
	}
}

// ContactPayload is one party of an email in a request body
type ContactPayload struct {
	Name   string  `json:"name" binding:"required,min=1"`
	Email  string  `json:"email" binding:"required,min=3"`
	Avatar *string `json:"avatar"`
}

// AttachmentPayload is attachment metadata in a request body
type AttachmentPayload struct {
	Filename string `json:"filename" binding:"required,min=1"`
	Size     string `json:"size" binding:"required,min=1"`
	URL      string `json:"url" binding:"required,min=1"`
}

// CreateEmailRequest represents the request to create an email
type CreateEmailRequest struct {
	Recipient   ContactPayload      `json:"recipient" binding:"required"`
	Subject     string              `json:"subject" binding:"required,min=1"`
	Body        string              `json:"body" binding:"required,min=1"`
	Attachments []AttachmentPayload `json:"attachments" binding:"omitempty,dive"`
}

// UpdateEmailRequest represents a partial update. Absent fields change
// nothing; a present attachments list, even an empty one, replaces the
// stored attachments.
type UpdateEmailRequest struct {
	IsRead      *bool                `json:"is_read"`
	IsArchived  *bool                `json:"is_archived"`
	Subject     *string              `json:"subject"`
	Body        *string              `json:"body"`
	Recipient   *ContactPayload      `json:"recipient" binding:"omitempty"`
	Attachments *[]AttachmentPayload `json:"attachments" binding:"omitempty,dive"`
}

// ContactResponse is one party of an email in a response body
type ContactResponse struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar"`
}

// AttachmentResponse is attachment metadata in a response body
type AttachmentResponse struct {
	Filename string `json:"filename"`
	Size     string `json:"size"`
	URL      string `json:"url"`
}

// EmailResponse is the external representation of an email
type EmailResponse struct {
	ID          string               `json:"id"`
	Sender      ContactResponse      `json:"sender"`
	Recipient   ContactResponse      `json:"recipient"`
	Subject     string               `json:"subject"`
	Preview     string               `json:"preview"`
	Body        string               `json:"body"`
	Date        string               `json:"date"`
	IsRead      bool                 `json:"is_read"`
	IsArchived  bool                 `json:"is_archived"`
	Attachments []AttachmentResponse `json:"attachments"`
}

// toEmailResponse converts an Email row to its nested external shape. The
// id travels as text and the recipient avatar is always null.
func toEmailResponse(email *models.Email) EmailResponse {
	attachments := make([]AttachmentResponse, 0, len(email.Attachments))
	for _, att := range email.Attachments {
		attachments = append(attachments, AttachmentResponse{
			Filename: att.Filename,
			Size:     att.Size,
			URL:      att.URL,
		})
	}

	return EmailResponse{
		ID: strconv.FormatUint(uint64(email.ID), 10),
		Sender: ContactResponse{
			Name:   email.SenderName,
			Email:  email.SenderEmail,
			Avatar: email.SenderAvatar,
		},
		Recipient: ContactResponse{
			Name:   email.RecipientName,
			Email:  email.RecipientEmail,
			Avatar: nil,
		},
		Subject:     email.Subject,
		Preview:     email.Preview,
		Body:        email.Body,
		Date:        email.Date,
		IsRead:      email.IsRead,
		IsArchived:  email.IsArchived,
		Attachments: attachments,
	}
}

func toContactInput(payload ContactPayload) services.ContactInput {
	return services.ContactInput{
		Name:   payload.Name,
		Email:  payload.Email,
		Avatar: payload.Avatar,
	}
}

func toAttachmentInputs(payloads []AttachmentPayload) []services.AttachmentInput {
	inputs := make([]services.AttachmentInput, 0, len(payloads))
	for _, payload := range payloads {
		inputs = append(inputs, services.AttachmentInput{
			Filename: payload.Filename,
			Size:     payload.Size,
			URL:      payload.URL,
		})
	}
	return inputs
}

// ListEmails returns emails matching the filter and search query
// GET /emails?filter={all|unread|archived}&search={text}
func (h *EmailHandler) ListEmails(c *gin.Context) {
	filter, ok := services.ParseListFilter(c.DefaultQuery("filter", "all"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Filter must be one of all, unread, archived",
			},
		})
		return
	}

	emails, err := h.emailService.ListEmails(filter, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to retrieve emails: " + err.Error(),
			},
		})
		return
	}

	responses := make([]EmailResponse, 0, len(emails))
	for i := range emails {
		responses = append(responses, toEmailResponse(&emails[i]))
	}

	c.JSON(http.StatusOK, responses)
}

// GetEmail returns a specific email
// GET /emails/:id
func (h *EmailHandler) GetEmail(c *gin.Context) {
	id, ok := parseEmailID(c)
	if !ok {
		return
	}

	email, err := h.emailService.GetEmailByID(id)
	if err != nil {
		if errors.Is(err, services.ErrEmailNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Email not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to retrieve email: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, toEmailResponse(email))
}

// CreateEmail stores a new outgoing email
// POST /emails
func (h *EmailHandler) CreateEmail(c *gin.Context) {
	var req CreateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request body",
				"details": err.Error(),
			},
		})
		return
	}

	email, err := h.emailService.CreateEmail(services.CreateEmailInput{
		Recipient:   toContactInput(req.Recipient),
		Subject:     req.Subject,
		Body:        req.Body,
		Attachments: toAttachmentInputs(req.Attachments),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidEmailData) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to create email: " + err.Error(),
			},
		})
		return
	}

	h.logService.LogEmailCreated(email.ID, email.Subject)

	c.JSON(http.StatusCreated, toEmailResponse(email))
}

// UpdateEmail applies a partial update to an email
// PUT /emails/:id
func (h *EmailHandler) UpdateEmail(c *gin.Context) {
	id, ok := parseEmailID(c)
	if !ok {
		return
	}

	var req UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request body",
				"details": err.Error(),
			},
		})
		return
	}

	input := services.UpdateEmailInput{
		IsRead:     req.IsRead,
		IsArchived: req.IsArchived,
		Subject:    req.Subject,
		Body:       req.Body,
	}
	if req.Recipient != nil {
		recipient := toContactInput(*req.Recipient)
		input.Recipient = &recipient
	}
	if req.Attachments != nil {
		input.Attachments = toAttachmentInputs(*req.Attachments)
	}

	email, err := h.emailService.UpdateEmail(id, input)
	if err != nil {
		if errors.Is(err, services.ErrEmailNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Email not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to update email: " + err.Error(),
			},
		})
		return
	}

	h.logService.LogEmailUpdated(email.ID, email.Subject)

	c.JSON(http.StatusOK, toEmailResponse(email))
}

// DeleteEmail removes an email and its attachments
// DELETE /emails/:id
func (h *EmailHandler) DeleteEmail(c *gin.Context) {
	id, ok := parseEmailID(c)
	if !ok {
		return
	}

	// Fetch the subject first for the activity log
	var subject string
	if email, err := h.emailService.GetEmailByID(id); err == nil {
		subject = email.Subject
	}

	deleted, err := h.emailService.DeleteEmail(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to delete email: " + err.Error(),
			},
		})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Email not found",
			},
		})
		return
	}

	h.logService.LogEmailDeleted(id, subject)

	c.Status(http.StatusNoContent)
}

// parseEmailID reads the id path parameter, answering 400 on garbage
func parseEmailID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid email ID",
			},
		})
		return 0, false
	}
	return uint(id), true
}
