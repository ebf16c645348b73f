package services

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/mailpane/core/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Property: email store contract
// Create/get round-trips, listing filters and ordering, partial-update
// isolation, attachment replacement and delete signaling all follow the
// store contract for arbitrary inputs.

func setupEmailTestDB(t *testing.T) (*gorm.DB, func()) {
	tmpFile, err := os.CreateTemp("", "email_test_*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tmpFile.Close()

	db, err := gorm.Open(sqlite.Open(tmpFile.Name()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("Failed to open database: %v", err)
	}

	err = db.AutoMigrate(&models.Email{}, &models.Attachment{})
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("Failed to migrate: %v", err)
	}

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		os.Remove(tmpFile.Name())
	}

	return db, cleanup
}

func testSender() models.Contact {
	avatar := "/avatars/richard.jpg"
	return models.Contact{
		Name:   "Richard Brown",
		Email:  "richard@example.com",
		Avatar: &avatar,
	}
}

func wordGen(length int) gopter.Gen {
	return gen.SliceOfN(length, gen.AlphaChar()).Map(func(chars []rune) string {
		return string(chars)
	})
}

func attachmentsGen() gopter.Gen {
	attGen := wordGen(8).Map(func(name string) AttachmentInput {
		return AttachmentInput{
			Filename: name + ".pdf",
			Size:     "1.5 MB",
			URL:      "/files/" + name + ".pdf",
		}
	})
	return gen.SliceOf(attGen)
}

func createInputGen() gopter.Gen {
	return gopter.CombineGens(
		wordGen(8),
		wordGen(10),
		wordGen(30),
		attachmentsGen(),
	).Map(func(values []interface{}) CreateEmailInput {
		name := values[0].(string)
		return CreateEmailInput{
			Recipient: ContactInput{
				Name:  name,
				Email: name + "@test.com",
			},
			Subject:     values[1].(string),
			Body:        values[2].(string),
			Attachments: values[3].([]AttachmentInput),
		}
	})
}

func TestProperty_CreateGetRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("get_returns_record_deep_equal_to_create", prop.ForAll(
		func(input CreateEmailInput) bool {
			db, cleanup := setupEmailTestDB(t)
			defer cleanup()

			service := NewEmailService(db, testSender())

			created, err := service.CreateEmail(input)
			if err != nil {
				return false
			}

			fetched, err := service.GetEmailByID(created.ID)
			if err != nil {
				return false
			}

			return reflect.DeepEqual(created, fetched)
		},
		createInputGen(),
	))

	properties.Property("create_stamps_sender_date_and_flags", prop.ForAll(
		func(input CreateEmailInput) bool {
			db, cleanup := setupEmailTestDB(t)
			defer cleanup()

			sender := testSender()
			service := NewEmailService(db, sender)

			created, err := service.CreateEmail(input)
			if err != nil {
				return false
			}

			if created.SenderName != sender.Name || created.SenderEmail != sender.Email {
				return false
			}
			if created.SenderAvatar == nil || *created.SenderAvatar != *sender.Avatar {
				return false
			}
			if !created.IsRead || created.IsArchived {
				return false
			}
			if created.Preview != BuildPreview(input.Body, PreviewLimit) {
				return false
			}
			if len(created.Attachments) != len(input.Attachments) {
				return false
			}
			for i, att := range created.Attachments {
				if att.Filename != input.Attachments[i].Filename {
					return false
				}
			}

			// Date is RFC 3339 UTC at second precision
			parsed, err := time.Parse(time.RFC3339, created.Date)
			if err != nil {
				return false
			}
			return parsed.Nanosecond() == 0
		},
		createInputGen(),
	))

	properties.TestingRun(t)
}

// flaggedEmail inserts a row directly with the given flags
func flaggedEmail(db *gorm.DB, subject, date string, isRead, isArchived bool) error {
	return db.Create(&models.Email{
		SenderName:     "Sender",
		SenderEmail:    "sender@test.com",
		RecipientName:  "Recipient",
		RecipientEmail: "recipient@test.com",
		Subject:        subject,
		Preview:        subject,
		Body:           subject,
		Date:           date,
		IsRead:         isRead,
		IsArchived:     isArchived,
	}).Error
}

func TestProperty_ListFilters(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	flagsGen := gen.SliceOf(gopter.CombineGens(gen.Bool(), gen.Bool()).Map(func(values []interface{}) [2]bool {
		return [2]bool{values[0].(bool), values[1].(bool)}
	}))

	properties.Property("every_filter_returns_only_matching_rows", prop.ForAll(
		func(flags [][2]bool) bool {
			db, cleanup := setupEmailTestDB(t)
			defer cleanup()

			service := NewEmailService(db, testSender())

			base := time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC)
			for i, f := range flags {
				date := base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339)
				if err := flaggedEmail(db, "subject", date, f[0], f[1]); err != nil {
					return false
				}
			}

			for _, filter := range []ListFilter{FilterAll, FilterUnread, FilterArchived} {
				emails, err := service.ListEmails(filter, "")
				if err != nil {
					return false
				}
				for _, email := range emails {
					if email.IsArchived != (filter == FilterArchived) {
						return false
					}
					if filter == FilterUnread && email.IsRead {
						return false
					}
				}
			}
			return true
		},
		flagsGen,
	))

	properties.Property("listing_orders_unread_first_newest_first_id_last", prop.ForAll(
		func(flags [][2]bool, sameDate bool) bool {
			db, cleanup := setupEmailTestDB(t)
			defer cleanup()

			service := NewEmailService(db, testSender())

			base := time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC)
			for i, f := range flags {
				offset := time.Duration(i) * time.Hour
				if sameDate {
					offset = 0 // force the id tie-break
				}
				date := base.Add(offset).Format(time.RFC3339)
				if err := flaggedEmail(db, "subject", date, f[0], false); err != nil {
					return false
				}
			}

			emails, err := service.ListEmails(FilterAll, "")
			if err != nil {
				return false
			}

			for i := 1; i < len(emails); i++ {
				prev, curr := emails[i-1], emails[i]
				if prev.IsRead && !curr.IsRead {
					return false
				}
				if prev.IsRead == curr.IsRead {
					if prev.Date < curr.Date {
						return false
					}
					if prev.Date == curr.Date && prev.ID >= curr.ID {
						return false
					}
				}
			}
			return true
		},
		flagsGen,
		gen.Bool(),
	))

	properties.Property("archived_rows_never_appear_in_all_even_when_search_matches", prop.ForAll(
		func(token string) bool {
			db, cleanup := setupEmailTestDB(t)
			defer cleanup()

			service := NewEmailService(db, testSender())

			date := "2024-12-01T09:00:00Z"
			if err := flaggedEmail(db, "Proposal "+token, date, true, true); err != nil {
				return false
			}
			if err := flaggedEmail(db, "Unrelated", date, true, false); err != nil {
				return false
			}

			emails, err := service.ListEmails(FilterAll, token)
			if err != nil {
				return false
			}
			return len(emails) == 0
		},
		wordGen(12),
	))

	properties.Property("search_matches_any_of_the_seven_fields", prop.ForAll(
		func(token string) bool {
			db, cleanup := setupEmailTestDB(t)
			defer cleanup()

			service := NewEmailService(db, testSender())

			date := "2024-12-01T09:00:00Z"
			// Token hidden in the body only
			if err := db.Create(&models.Email{
				SenderName:     "Sender",
				SenderEmail:    "sender@test.com",
				RecipientName:  "Recipient",
				RecipientEmail: "recipient@test.com",
				Subject:        "subject",
				Preview:        "preview",
				Body:           "body with " + token + " inside",
				Date:           date,
				IsRead:         true,
			}).Error; err != nil {
				return false
			}
			if err := flaggedEmail(db, "other", date, true, false); err != nil {
				return false
			}

			// Search is trimmed before matching
			emails, err := service.ListEmails(FilterAll, "  "+token+"  ")
			if err != nil {
				return false
			}
			return len(emails) == 1 && strings.Contains(emails[0].Body, token)
		},
		wordGen(12),
	))

	properties.TestingRun(t)
}

func TestProperty_PartialUpdate(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("is_read_update_touches_nothing_else", prop.ForAll(
		func(input CreateEmailInput, isRead bool) bool {
			db, cleanup := setupEmailTestDB(t)
			defer cleanup()

			service := NewEmailService(db, testSender())

			created, err := service.CreateEmail(input)
			if err != nil {
				return false
			}

			updated, err := service.UpdateEmail(created.ID, UpdateEmailInput{IsRead: &isRead})
			if err != nil {
				return false
			}

			if updated.IsRead != isRead {
				return false
			}
			// Everything else stays byte-identical
			expected := *created
			expected.IsRead = isRead
			return reflect.DeepEqual(&expected, updated)
		},
		createInputGen(),
		gen.Bool(),
	))

	properties.Property("body_update_recomputes_preview_only_trims_body", prop.ForAll(
		func(input CreateEmailInput) bool {
			db, cleanup := setupEmailTestDB(t)
			defer cleanup()

			service := NewEmailService(db, testSender())

			created, err := service.CreateEmail(input)
			if err != nil {
				return false
			}

			newBody := "  a   b\nc  "
			updated, err := service.UpdateEmail(created.ID, UpdateEmailInput{Body: &newBody})
			if err != nil {
				return false
			}

			// Preview collapses internal whitespace; the body is only
			// trimmed at the edges
			return updated.Preview == "a b c" && updated.Body == "a   b\nc"
		},
		createInputGen(),
	))

	properties.Property("empty_update_is_a_noop_that_returns_the_record", prop.ForAll(
		func(input CreateEmailInput) bool {
			db, cleanup := setupEmailTestDB(t)
			defer cleanup()

			service := NewEmailService(db, testSender())

			created, err := service.CreateEmail(input)
			if err != nil {
				return false
			}

			updated, err := service.UpdateEmail(created.ID, UpdateEmailInput{})
			if err != nil {
				return false
			}
			return reflect.DeepEqual(created, updated)
		},
		createInputGen(),
	))

	properties.TestingRun(t)
}

func TestProperty_AttachmentReplacement(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("present_attachments_list_replaces_stored_set", prop.ForAll(
		func(input CreateEmailInput, replacement []AttachmentInput) bool {
			db, cleanup := setupEmailTestDB(t)
			defer cleanup()

			service := NewEmailService(db, testSender())

			created, err := service.CreateEmail(input)
			if err != nil {
				return false
			}

			updated, err := service.UpdateEmail(created.ID, UpdateEmailInput{
				Attachments: replacement,
			})
			if err != nil {
				return false
			}

			if len(updated.Attachments) != len(replacement) {
				return false
			}
			for i, att := range updated.Attachments {
				if att.Filename != replacement[i].Filename ||
					att.Size != replacement[i].Size ||
					att.URL != replacement[i].URL {
					return false
				}
			}

			// No orphans left behind
			var count int64
			if err := db.Model(&models.Attachment{}).Where("email_id = ?", created.ID).Count(&count).Error; err != nil {
				return false
			}
			return count == int64(len(replacement))
		},
		createInputGen(),
		attachmentsGen(),
	))

	properties.Property("explicit_empty_list_clears_attachments", prop.ForAll(
		func(input CreateEmailInput) bool {
			db, cleanup := setupEmailTestDB(t)
			defer cleanup()

			service := NewEmailService(db, testSender())

			if len(input.Attachments) == 0 {
				input.Attachments = []AttachmentInput{
					{Filename: "a.pdf", Size: "1 MB", URL: "/files/a.pdf"},
					{Filename: "b.pdf", Size: "2 MB", URL: "/files/b.pdf"},
				}
			}

			created, err := service.CreateEmail(input)
			if err != nil {
				return false
			}

			updated, err := service.UpdateEmail(created.ID, UpdateEmailInput{
				Attachments: []AttachmentInput{},
			})
			if err != nil {
				return false
			}
			return len(updated.Attachments) == 0
		},
		createInputGen(),
	))

	properties.TestingRun(t)
}

func TestProperty_DeleteSignaling(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("delete_reports_true_then_false_and_removes_the_record", prop.ForAll(
		func(input CreateEmailInput) bool {
			db, cleanup := setupEmailTestDB(t)
			defer cleanup()

			service := NewEmailService(db, testSender())

			created, err := service.CreateEmail(input)
			if err != nil {
				return false
			}

			deleted, err := service.DeleteEmail(created.ID)
			if err != nil || !deleted {
				return false
			}

			deletedAgain, err := service.DeleteEmail(created.ID)
			if err != nil || deletedAgain {
				return false
			}

			if _, err := service.GetEmailByID(created.ID); !errors.Is(err, ErrEmailNotFound) {
				return false
			}

			// Attachment rows are gone with the email
			var count int64
			if err := db.Model(&models.Attachment{}).Where("email_id = ?", created.ID).Count(&count).Error; err != nil {
				return false
			}
			return count == 0
		},
		createInputGen(),
	))

	properties.Property("update_after_delete_reports_not_found", prop.ForAll(
		func(input CreateEmailInput, isRead bool) bool {
			db, cleanup := setupEmailTestDB(t)
			defer cleanup()

			service := NewEmailService(db, testSender())

			created, err := service.CreateEmail(input)
			if err != nil {
				return false
			}
			if _, err := service.DeleteEmail(created.ID); err != nil {
				return false
			}

			_, err = service.UpdateEmail(created.ID, UpdateEmailInput{IsRead: &isRead})
			return errors.Is(err, ErrEmailNotFound)
		},
		createInputGen(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestCreateValidation(t *testing.T) {
	db, cleanup := setupEmailTestDB(t)
	defer cleanup()

	service := NewEmailService(db, testSender())

	cases := []struct {
		name  string
		input CreateEmailInput
	}{
		{"empty recipient name", CreateEmailInput{
			Recipient: ContactInput{Name: " ", Email: "a@b.com"},
			Subject:   "s", Body: "b",
		}},
		{"short recipient email", CreateEmailInput{
			Recipient: ContactInput{Name: "n", Email: "ab"},
			Subject:   "s", Body: "b",
		}},
		{"blank subject", CreateEmailInput{
			Recipient: ContactInput{Name: "n", Email: "a@b.com"},
			Subject:   "   ", Body: "b",
		}},
		{"blank body", CreateEmailInput{
			Recipient: ContactInput{Name: "n", Email: "a@b.com"},
			Subject:   "s", Body: " \n ",
		}},
		{"empty attachment field", CreateEmailInput{
			Recipient:   ContactInput{Name: "n", Email: "a@b.com"},
			Subject:     "s", Body: "b",
			Attachments: []AttachmentInput{{Filename: "f.pdf", Size: "", URL: "/f.pdf"}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.CreateEmail(tc.input); !errors.Is(err, ErrInvalidEmailData) {
				t.Errorf("expected ErrInvalidEmailData, got %v", err)
			}
		})
	}
}

func TestPreviewTruncatesLongCreateBody(t *testing.T) {
	db, cleanup := setupEmailTestDB(t)
	defer cleanup()

	service := NewEmailService(db, testSender())

	created, err := service.CreateEmail(CreateEmailInput{
		Recipient: ContactInput{Name: "n", Email: "a@b.com"},
		Subject:   "s",
		Body:      strings.Repeat("x", 100),
	})
	if err != nil {
		t.Fatalf("CreateEmail failed: %v", err)
	}

	if len([]rune(created.Preview)) != PreviewLimit {
		t.Errorf("expected preview of %d runes, got %d", PreviewLimit, len([]rune(created.Preview)))
	}
	if !strings.HasSuffix(created.Preview, "...") {
		t.Errorf("expected preview to end with ellipsis, got %q", created.Preview)
	}
}
