package models

// Contact identifies one party of an email. Avatar is nil when no avatar
// is known for the party; recipients never carry one.
type Contact struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar"`
}

// Email represents a stored email message with its attachment metadata
type Email struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	SenderName     string  `gorm:"size:255;not null" json:"sender_name"`
	SenderEmail    string  `gorm:"size:255;not null" json:"sender_email"`
	SenderAvatar   *string `gorm:"size:500" json:"sender_avatar"`
	RecipientName  string  `gorm:"size:255;not null" json:"recipient_name"`
	RecipientEmail string  `gorm:"size:255;not null" json:"recipient_email"`
	Subject        string  `gorm:"size:500;not null" json:"subject"`
	Preview        string  `gorm:"size:500;not null" json:"preview"`
	Body           string  `gorm:"type:text;not null" json:"body"`
	Date           string  `gorm:"size:64;not null;index" json:"date"`
	IsRead         bool    `gorm:"not null;default:false" json:"is_read"`
	IsArchived     bool    `gorm:"not null;default:false" json:"is_archived"`

	// Relations
	Attachments []Attachment `gorm:"foreignKey:EmailID;constraint:OnDelete:CASCADE" json:"attachments"`
}

// Attachment holds metadata for a file attached to an email. Only metadata
// is persisted; the size is a display string, not a byte count.
type Attachment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	EmailID  uint   `gorm:"index;not null" json:"email_id"`
	Filename string `gorm:"size:500;not null" json:"filename"`
	Size     string `gorm:"size:64;not null" json:"size"`
	URL      string `gorm:"size:500;not null" json:"url"`
}
