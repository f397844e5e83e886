package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Hayal27/sininning-pro-sub000/internal/content"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

// Document is the indexed form of a public record.
type Document struct {
	Type      string       `json:"type"`
	ID        string       `json:"id"`
	Slug      string       `json:"slug"`
	Title     string       `json:"title"`
	Summary   string       `json:"summary"`
	Body      string       `json:"body"`
	Deadline  *models.Date `json:"deadline,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// DocumentID is the index key of a record: "<type>:<uuid>".
func DocumentID(docType string, id uuid.UUID) string {
	return docType + ":" + id.String()
}

func (d Document) key() string {
	return d.Type + ":" + d.ID
}

// ProductDocument builds the document for p and reports whether it is public.
func ProductDocument(p *models.Product) (Document, bool) {
	return Document{
		Type:      models.SearchTypeProduct,
		ID:        p.ID.String(),
		Slug:      p.Slug,
		Title:     p.Name,
		Summary:   p.Summary,
		Body:      content.PlainText(p.Description),
		UpdatedAt: p.UpdatedAt,
	}, p.IsActive
}

// NewsDocument builds the document for n and reports whether it is public.
func NewsDocument(n *models.News) (Document, bool) {
	return Document{
		Type:      models.SearchTypeNews,
		ID:        n.ID.String(),
		Slug:      n.Slug,
		Title:     n.Title,
		Summary:   n.Summary,
		Body:      content.PlainText(n.Content),
		UpdatedAt: n.UpdatedAt,
	}, n.Status == models.NewsStatusPublished
}

// CareerDocument builds the document for c and reports whether it is public
// on the given day. The deadline is indexed so queries drop the posting once
// it passes, even before the posting is closed.
func CareerDocument(c *models.Career, today models.Date) (Document, bool) {
	visible := c.Status == models.CareerStatusOpen &&
		(c.Deadline == nil || !c.Deadline.Before(today.Time))

	return Document{
		Type:      models.SearchTypeCareer,
		ID:        c.ID.String(),
		Slug:      c.Slug,
		Title:     c.Title,
		Summary:   c.Summary,
		Body:      content.PlainText(c.Description),
		Deadline:  c.Deadline,
		UpdatedAt: c.UpdatedAt,
	}, visible
}

// ProductLister lists active products.
type ProductLister interface {
	ListActive(ctx context.Context) ([]models.Product, error)
}

// NewsLister lists published articles.
type NewsLister interface {
	ListPublished(ctx context.Context) ([]models.News, error)
}

// CareerLister lists publicly visible postings.
type CareerLister interface {
	ListVisible(ctx context.Context) ([]models.Career, error)
}

// CollectDocuments loads every public record as a Document.
func CollectDocuments(ctx context.Context, products ProductLister, news NewsLister, careers CareerLister) ([]Document, error) {
	productRows, err := products.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	newsRows, err := news.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	careerRows, err := careers.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list careers: %w", err)
	}

	docs := make([]Document, 0, len(productRows)+len(newsRows)+len(careerRows))
	for i := range productRows {
		doc, _ := ProductDocument(&productRows[i])
		docs = append(docs, doc)
	}
	for i := range newsRows {
		doc, _ := NewsDocument(&newsRows[i])
		docs = append(docs, doc)
	}
	for i := range careerRows {
		doc, _ := CareerDocument(&careerRows[i], models.NewDate(time.Now()))
		docs = append(docs, doc)
	}
	return docs, nil
}
