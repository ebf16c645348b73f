package database

import (
	"github.com/mailpane/core/internal/database/models"
	"gorm.io/gorm"
)

func avatar(path string) *string {
	return &path
}

// sampleMailbox is the mailbox inserted on first run so the UI has
// something to render before the user writes any mail.
var sampleMailbox = []models.Email{
	{
		SenderName:     "Michael Lee",
		SenderEmail:    "michael.lee@company.com",
		SenderAvatar:   avatar("/avatars/michael.jpg"),
		RecipientName:  "Richard Brown",
		RecipientEmail: "richard@example.com",
		Subject:        "Follow-Up: Product Demo Feedback",
		Preview:        "Hi John, Thank you for attending the product demo yesterday.",
		Body: "Hi John,\n\n" +
			"Thank you for attending the product demo yesterday. We would love to hear your feedback and " +
			"discuss next steps for rollout.\n\n" +
			"Best,\nMichael Lee",
		Date:       "2024-12-10T09:00:00Z",
		IsRead:     false,
		IsArchived: false,
	},
	{
		SenderName:     "Jane Doe",
		SenderEmail:    "jane.doe@business.com",
		SenderAvatar:   avatar("/avatars/jane.jpg"),
		RecipientName:  "Richard Brown",
		RecipientEmail: "richard@example.com",
		Subject:        "Proposal for Partnership",
		Preview:        "Hi John, hope this message finds you well! I am reaching out to explore a partnership.",
		Body: "Hi John,\n\n" +
			"hope this message finds you well! I am reaching out to explore a potential partnership between our " +
			"companies. At Jane Corp, which could complement your offerings at John Organisation Corp.\n\n" +
			"I have attached a proposal detailing how we envision our collaboration, including key benefits, " +
			"timelines, and implementation strategies. I believe this partnership could unlock exciting " +
			"opportunities for both of us!\n\n" +
			"Let me know your thoughts or a convenient time to discuss this further. I am happy to schedule a " +
			"call or meeting at your earliest convenience. Looking forward to hearing from you!\n\n" +
			"Warm regards,\nJane Doe",
		Date:       "2024-12-10T09:00:00Z",
		IsRead:     false,
		IsArchived: false,
		Attachments: []models.Attachment{
			{
				Filename: "Proposal Partnership.pdf",
				Size:     "1.5 MB",
				URL:      "/files/proposal-partnership.pdf",
			},
		},
	},
	{
		SenderName:     "Support Team",
		SenderEmail:    "support@contractor.com",
		SenderAvatar:   avatar("/avatars/support.jpg"),
		RecipientName:  "Richard Brown",
		RecipientEmail: "richard@example.com",
		Subject:        "Contract Renewal Due",
		Preview:        "Dear John, This is a reminder that the contract renewal is due next week.",
		Body: "Dear John,\n\nThis is a reminder that the contract renewal is due next week. " +
			"Please review the terms and confirm if you need changes.\n\nRegards,\nSupport Team",
		Date:       "2024-12-11T08:20:00Z",
		IsRead:     true,
		IsArchived: false,
	},
	{
		SenderName:     "Sarah Connor",
		SenderEmail:    "sarah.connor@strategy.io",
		SenderAvatar:   avatar("/avatars/sarah.jpg"),
		RecipientName:  "Richard Brown",
		RecipientEmail: "richard@example.com",
		Subject:        "Meeting Recap: Strategies for 2025",
		Preview:        "Hi John, Thank you for your insights during yesterday's strategy call.",
		Body: "Hi John,\n\nThank you for your insights during yesterday's strategy call. " +
			"I am sharing the recap and action items for this quarter.\n\nBest,\nSarah Connor",
		Date:       "2024-12-11T07:35:00Z",
		IsRead:     true,
		IsArchived: false,
	},
	{
		SenderName:     "Downe Johnson",
		SenderEmail:    "downe.johnson@events.io",
		SenderAvatar:   avatar("/avatars/downe.jpg"),
		RecipientName:  "Richard Brown",
		RecipientEmail: "richard@example.com",
		Subject:        "Invitation: Annual Client Appreciation",
		Preview:        "Dear John, We are delighted to invite you to our annual appreciation event.",
		Body: "Dear John,\n\nWe are delighted to invite you to our annual client appreciation event this month. " +
			"Please RSVP when convenient.\n\nRegards,\nDowne Johnson",
		Date:       "2024-12-11T07:10:00Z",
		IsRead:     true,
		IsArchived: false,
	},
	{
		SenderName:     "Lily Alexa",
		SenderEmail:    "lily.alexa@supportdesk.io",
		SenderAvatar:   avatar("/avatars/lily.jpg"),
		RecipientName:  "Richard Brown",
		RecipientEmail: "richard@example.com",
		Subject:        "Technical Support Update",
		Preview:        "Dear John, Your issue regarding server connectivity has been resolved.",
		Body: "Dear John,\n\nYour issue regarding server connectivity has been resolved. " +
			"Please let us know if you still experience any interruptions.\n\nThanks,\nLily Alexa",
		Date:       "2024-12-10T15:45:00Z",
		IsRead:     true,
		IsArchived: false,
	},
	{
		SenderName:     "Natasha Brown",
		SenderEmail:    "natasha@kozuki-tea.com",
		SenderAvatar:   avatar("/avatars/natasha.jpg"),
		RecipientName:  "Richard Brown",
		RecipientEmail: "richard@example.com",
		Subject:        "Happy Holidays from Kozuki tea",
		Preview:        "Hi John, As the holiday season approaches, we wanted to share our thanks.",
		Body: "Hi John,\n\nAs the holiday season approaches, we wanted to share our thanks for your partnership " +
			"throughout this year.\n\nWarm wishes,\nNatasha Brown",
		Date:       "2024-12-10T10:50:00Z",
		IsRead:     true,
		IsArchived: false,
	},
	{
		SenderName:     "Downe Johnson",
		SenderEmail:    "downe.johnson@events.io",
		SenderAvatar:   avatar("/avatars/downe.jpg"),
		RecipientName:  "Richard Brown",
		RecipientEmail: "richard@example.com",
		Subject:        "Invitation: Annual Client Appreciation",
		Preview:        "Dear John, Friendly reminder to confirm your attendance for next week.",
		Body: "Dear John,\n\nFriendly reminder to confirm your attendance for next week's event. " +
			"We look forward to hosting you.\n\nRegards,\nDowne Johnson",
		Date:       "2024-12-11T06:00:00Z",
		IsRead:     true,
		IsArchived: true,
	},
}

// SeedIfEmpty inserts the sample mailbox when the emails table has no rows
func SeedIfEmpty(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Email{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return Seed(db)
}

// Seed unconditionally inserts the sample mailbox
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for i := range sampleMailbox {
			email := sampleMailbox[i]
			email.ID = 0
			// Copy the attachments so repeated seeding never reuses the
			// primary keys gorm wrote back on a previous insert.
			email.Attachments = make([]models.Attachment, len(sampleMailbox[i].Attachments))
			for j, att := range sampleMailbox[i].Attachments {
				att.ID = 0
				att.EmailID = 0
				email.Attachments[j] = att
			}
			if err := tx.Create(&email).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
