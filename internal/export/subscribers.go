package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

var subscriberHeaders = []string{
	"email", "name", "status", "source", "subscribed_at", "unsubscribed_at", "unsubscribe_url",
}

// UnsubscribeURLFunc returns the signed unsubscribe link for an email.
type UnsubscribeURLFunc func(email string) string

// WriteSubscribers writes subscribers as an XLSX workbook. Active rows carry
// their signed unsubscribe link.
func WriteSubscribers(out io.Writer, subs []*models.Subscription, unsubscribeURL UnsubscribeURLFunc) error {
	f := excelize.NewFile()
	defer f.Close()

	w, err := newSheetWriter(f, "Subscribers", subscriberHeaders)
	if err != nil {
		return err
	}

	for _, s := range subs {
		link := ""
		if s.Status == models.SubscriptionActive && unsubscribeURL != nil {
			link = unsubscribeURL(s.Email)
		}

		if err = w.append([]any{
			s.Email,
			s.Name,
			string(s.Status),
			s.Source,
			formatTime(&s.SubscribedAt),
			formatTime(s.UnsubscribedAt),
			link,
		}); err != nil {
			return err
		}
	}

	return w.finish(out)
}
