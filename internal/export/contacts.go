package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

var contactHeaders = []string{
	"submitted_at", "name", "email", "phone", "company", "subject", "message",
	"inquiry_type", "status", "priority", "assigned_to", "admin_notes", "resolved_at", "closed_at",
}

// WriteContacts writes contact submissions as an XLSX workbook.
func WriteContacts(out io.Writer, contacts []*models.ContactSubmission) error {
	f := excelize.NewFile()
	defer f.Close()

	w, err := newSheetWriter(f, "Contacts", contactHeaders)
	if err != nil {
		return err
	}

	for _, c := range contacts {
		assignee := ""
		if c.AssigneeName != nil {
			assignee = *c.AssigneeName
		}

		if err = w.append([]any{
			formatTime(&c.CreatedAt),
			c.Name,
			c.Email,
			c.Phone,
			c.Company,
			c.Subject,
			c.Message,
			string(c.InquiryType),
			string(c.Status),
			string(c.Priority),
			assignee,
			c.AdminNotes,
			formatTime(c.ResolvedAt),
			formatTime(c.ClosedAt),
		}); err != nil {
			return err
		}
	}

	return w.finish(out)
}
