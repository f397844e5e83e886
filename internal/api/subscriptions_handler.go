package api

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	infraevents "github.com/Hayal27/sininning-pro-sub000/infrastructure/events"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/signer"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/sse"
	"github.com/Hayal27/sininning-pro-sub000/internal/export"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
	"github.com/Hayal27/sininning-pro-sub000/internal/repository"
)

const unsubscribePurpose = "unsubscribe"

// subscribe signs an email up for the newsletter. Repeating a signup is
// not an error.
// POST /api/v1/subscriptions
func (r *Router) subscribe(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.SubscribeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	sub, outcome, err := r.repos.Subscriptions.Subscribe(ctx, &req)
	if err != nil {
		handleRepositoryError(c, err, "subscription", "create")
		return
	}

	r.metrics.RecordSubscription(string(outcome))

	status := http.StatusOK
	message := "You are already subscribed"
	switch outcome {
	case models.SubscribeCreated:
		status = http.StatusCreated
		message = "Subscription successful"
	case models.SubscribeReactivated:
		message = "Welcome back! Your subscription has been reactivated"
	}

	if outcome != models.SubscribeExisting {
		logger.FromContext(ctx).Info("Newsletter subscription",
			logger.String("subscription_id", sub.ID.String()),
			logger.String("outcome", string(outcome)),
			logger.String("source", sub.Source),
		)
		r.events.PublishAsync(infraevents.SiteEvent{
			EventType: infraevents.Subscribed,
			Entity:    infraevents.EntitySubscription,
			EntityID:  sub.ID,
			Payload: infraevents.SubscriptionPayload{
				Email:   sub.Email,
				Outcome: string(outcome),
				Source:  sub.Source,
			},
		})
		r.notify(c, sse.NewSubscriptionEvent(sub.Email, outcome == models.SubscribeReactivated))
	}

	c.JSON(status, gin.H{"message": message, "subscription": sub})
}

// unsubscribe opts an email out using the signed link from a newsletter.
// Accepts query parameters or a JSON body.
// GET|POST /api/v1/subscriptions/unsubscribe?email=&token=
func (r *Router) unsubscribe(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.UnsubscribeRequest
	if err := c.ShouldBind(&req); err != nil {
		if err = c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request payload",
				"details": err.Error(),
			})
			return
		}
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	email := req.Email
	if !r.signer.Verify(signer.Message(unsubscribePurpose, email), req.Token) {
		logger.FromContext(ctx).Warn("Unsubscribe rejected - bad token", logger.String("ip", c.ClientIP()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired unsubscribe link"})
		return
	}

	sub, err := r.repos.Subscriptions.Unsubscribe(ctx, email)
	if err != nil {
		handleRepositoryError(c, err, "subscription", "unsubscribe")
		return
	}

	r.events.PublishAsync(infraevents.SiteEvent{
		EventType: infraevents.Unsubscribed,
		Entity:    infraevents.EntitySubscription,
		EntityID:  sub.ID,
		Payload:   infraevents.SubscriptionPayload{Email: sub.Email},
	})

	c.JSON(http.StatusOK, gin.H{"message": "You have been unsubscribed"})
}

// unsubscribeURL builds the signed one-click link included in exports.
func (r *Router) unsubscribeURL(email string) string {
	email = models.NormalizeEmail(email)
	query := url.Values{}
	query.Set("email", email)
	query.Set("token", r.signer.Sign(signer.Message(unsubscribePurpose, email)))
	return r.cfg.Server.PublicBaseURL + "/api/v1/subscriptions/unsubscribe?" + query.Encode()
}

func subscriptionFilter(c *gin.Context) repository.SubscriptionFilter {
	return repository.SubscriptionFilter{
		Page:   parsePage(c),
		Sort:   parseSort(c),
		Search: c.Query("search"),
		Status: models.SubscriptionStatus(c.Query("status")),
	}
}

// listSubscriptions returns a page of subscribers
// GET /api/v1/admin/subscriptions?status=&search=&limit=&offset=
func (r *Router) listSubscriptions(c *gin.Context) {
	filter := subscriptionFilter(c)

	subs, total, err := r.repos.Subscriptions.List(c.Request.Context(), filter)
	if err != nil {
		handleRepositoryError(c, err, "subscriptions", "list")
		return
	}
	c.JSON(http.StatusOK, pageResponse("subscriptions", subs, total, filter.Page))
}

// subscriptionStats returns subscriber counts
// GET /api/v1/admin/subscriptions/stats
func (r *Router) subscriptionStats(c *gin.Context) {
	stats, err := r.repos.Subscriptions.Stats(c.Request.Context())
	if err != nil {
		handleRepositoryError(c, err, "subscription stats", "get")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// exportSubscriptions downloads subscribers with their unsubscribe links
// GET /api/v1/admin/subscriptions/export?status=&search=
func (r *Router) exportSubscriptions(c *gin.Context) {
	subs, err := r.repos.Subscriptions.ListForExport(c.Request.Context(), subscriptionFilter(c))
	if err != nil {
		handleRepositoryError(c, err, "subscriptions", "export")
		return
	}

	rows := make([]*models.Subscription, len(subs))
	for i := range subs {
		rows[i] = &subs[i]
	}

	writeAttachment(c, exportFilename("subscribers"), func(c *gin.Context) error {
		return export.WriteSubscribers(c.Writer, rows, r.unsubscribeURL)
	})
}

// deleteSubscription removes a subscriber entirely
// DELETE /api/v1/admin/subscriptions/:id
func (r *Router) deleteSubscription(c *gin.Context) {
	id, ok := parseUUID(c, "id", "subscription")
	if !ok {
		return
	}

	if err := r.repos.Subscriptions.Delete(c.Request.Context(), id); err != nil {
		handleRepositoryError(c, err, "subscription", "delete")
		return
	}
	c.Status(http.StatusNoContent)
}
