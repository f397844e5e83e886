package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	infraevents "github.com/Hayal27/sininning-pro-sub000/infrastructure/events"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/sse"
	"github.com/Hayal27/sininning-pro-sub000/internal/export"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
	"github.com/Hayal27/sininning-pro-sub000/internal/repository"
)

const contactReceivedMessage = "Thank you for contacting us. We will get back to you shortly."

// submitContact stores a public inquiry
// POST /api/v1/contact
func (r *Router) submitContact(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req models.ContactCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	// Bots get the normal answer so they do not learn about the honeypot.
	if req.IsSpam() {
		log.Info("Dropped contact submission caught by honeypot", logger.String("ip", c.ClientIP()))
		c.JSON(http.StatusCreated, gin.H{"id": uuid.New(), "message": contactReceivedMessage})
		return
	}

	submission, err := r.repos.Contacts.Create(ctx, &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		handleRepositoryError(c, err, "contact submission", "create")
		return
	}

	r.metrics.RecordContactSubmission(string(submission.InquiryType))
	log.Info("Contact submission received",
		logger.String("contact_id", submission.ID.String()),
		logger.String("inquiry_type", string(submission.InquiryType)),
	)

	r.events.PublishAsync(infraevents.SiteEvent{
		EventType: infraevents.ContactSubmitted,
		Entity:    infraevents.EntityContact,
		EntityID:  submission.ID,
		Payload: infraevents.ContactSubmittedPayload{
			Name:        submission.Name,
			Email:       submission.Email,
			InquiryType: string(submission.InquiryType),
			Subject:     submission.Subject,
		},
	})
	r.notify(c, sse.NewContactEvent(
		submission.ID.String(),
		submission.Name,
		submission.Email,
		submission.Subject,
		string(submission.InquiryType),
	))

	c.JSON(http.StatusCreated, gin.H{"id": submission.ID, "message": contactReceivedMessage})
}

// contactFilter reads the inbox filters. assigned_to=none selects
// unassigned submissions.
func contactFilter(c *gin.Context) (repository.ContactFilter, bool) {
	filter := repository.ContactFilter{
		Page:        parsePage(c),
		Sort:        parseSort(c),
		Search:      c.Query("search"),
		Status:      models.ContactStatus(c.Query("status")),
		Priority:    models.Priority(c.Query("priority")),
		InquiryType: models.InquiryType(c.Query("inquiry_type")),
	}

	switch assigned := c.Query("assigned_to"); assigned {
	case "":
	case "none":
		filter.Unassigned = true
	default:
		id, err := uuid.Parse(assigned)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assigned_to user ID format"})
			return filter, false
		}
		filter.AssignedTo = &id
	}
	return filter, true
}

// listContacts returns a page of the inbox
// GET /api/v1/admin/contacts?status=&priority=&inquiry_type=&assigned_to=&search=&limit=&offset=
func (r *Router) listContacts(c *gin.Context) {
	filter, ok := contactFilter(c)
	if !ok {
		return
	}

	submissions, total, err := r.repos.Contacts.List(c.Request.Context(), filter)
	if err != nil {
		handleRepositoryError(c, err, "contact submissions", "list")
		return
	}
	c.JSON(http.StatusOK, pageResponse("contacts", submissions, total, filter.Page))
}

// contactStats returns inbox counts by status and priority
// GET /api/v1/admin/contacts/stats
func (r *Router) contactStats(c *gin.Context) {
	stats, err := r.repos.Contacts.Stats(c.Request.Context())
	if err != nil {
		handleRepositoryError(c, err, "contact stats", "get")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// exportContacts downloads the filtered inbox as a spreadsheet
// GET /api/v1/admin/contacts/export?status=&priority=&inquiry_type=&assigned_to=&search=
func (r *Router) exportContacts(c *gin.Context) {
	filter, ok := contactFilter(c)
	if !ok {
		return
	}

	submissions, err := r.repos.Contacts.ListForExport(c.Request.Context(), filter)
	if err != nil {
		handleRepositoryError(c, err, "contact submissions", "export")
		return
	}

	rows := make([]*models.ContactSubmission, len(submissions))
	for i := range submissions {
		rows[i] = &submissions[i]
	}

	writeAttachment(c, exportFilename("contacts"), func(c *gin.Context) error {
		return export.WriteContacts(c.Writer, rows)
	})
}

// getContact retrieves a submission by ID
// GET /api/v1/admin/contacts/:id
func (r *Router) getContact(c *gin.Context) {
	id, ok := parseUUID(c, "id", "contact submission")
	if !ok {
		return
	}

	submission, err := r.repos.Contacts.GetByID(c.Request.Context(), id)
	if err != nil {
		handleRepositoryError(c, err, "contact submission", "get")
		return
	}
	c.JSON(http.StatusOK, submission)
}

// updateContact triages a submission: status, priority, assignee and notes
// PATCH /api/v1/admin/contacts/:id
func (r *Router) updateContact(c *gin.Context) {
	id, ok := parseUUID(c, "id", "contact submission")
	if !ok {
		return
	}

	var req models.ContactUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	submission, previous, err := r.repos.Contacts.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleRepositoryError(c, err, "contact submission", "update")
		return
	}

	if submission.Status != previous {
		logger.FromContext(c.Request.Context()).Info("Contact submission status changed",
			logger.String("contact_id", submission.ID.String()),
			logger.String("previous", string(previous)),
			logger.String("status", string(submission.Status)),
		)
		r.events.PublishAsync(infraevents.SiteEvent{
			EventType: infraevents.ContactStatusChanged,
			Entity:    infraevents.EntityContact,
			EntityID:  submission.ID,
			Payload: infraevents.ContactStatusPayload{
				Previous: string(previous),
				Current:  string(submission.Status),
				Actor:    actor(c),
			},
		})
		r.notify(c, sse.NewContactUpdatedEvent(
			submission.ID.String(),
			string(submission.Status),
			string(previous),
			string(submission.Priority),
		))
	}

	c.JSON(http.StatusOK, submission)
}

// deleteContact removes a submission
// DELETE /api/v1/admin/contacts/:id
func (r *Router) deleteContact(c *gin.Context) {
	id, ok := parseUUID(c, "id", "contact submission")
	if !ok {
		return
	}

	if err := r.repos.Contacts.Delete(c.Request.Context(), id); err != nil {
		handleRepositoryError(c, err, "contact submission", "delete")
		return
	}
	c.Status(http.StatusNoContent)
}

// exportFilename names a dated spreadsheet download.
func exportFilename(prefix string) string {
	return prefix + "-" + time.Now().UTC().Format(models.DateLayout) + ".xlsx"
}

// writeAttachment streams a workbook as a download. Once bytes are on the
// wire a failure can only be logged.
func writeAttachment(c *gin.Context, filename string, write func(c *gin.Context) error) {
	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", contentDispositionFn+filename+`"`)
	c.Status(http.StatusOK)
	if err := write(c); err != nil {
		logger.FromContext(c.Request.Context()).Error("Failed to write export",
			logger.String("file", filename),
			logger.Error(err),
		)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
