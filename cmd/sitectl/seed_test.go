package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

type memHeroes struct{ rows []models.HeroSection }

func (m *memHeroes) List(context.Context, *bool) ([]models.HeroSection, error) {
	return m.rows, nil
}

func (m *memHeroes) Create(_ context.Context, req *models.HeroCreateRequest) (*models.HeroSection, error) {
	m.rows = append(m.rows, models.HeroSection{ID: uuid.New(), Title: req.Title})
	return &m.rows[len(m.rows)-1], nil
}

type memCategories struct{ rows map[string]*models.ProductCategory }

func (m *memCategories) GetBySlug(_ context.Context, slug string) (*models.ProductCategory, error) {
	if c, ok := m.rows[slug]; ok {
		return c, nil
	}
	return nil, models.ErrNotFound
}

func (m *memCategories) Create(_ context.Context, req *models.CategoryCreateRequest) (*models.ProductCategory, error) {
	c := &models.ProductCategory{ID: uuid.New(), Name: req.Name, Slug: models.SlugOrDerive(req.Slug, req.Name)}
	m.rows[c.Slug] = c
	return c, nil
}

type memProducts struct{ rows map[string]*models.ProductCreateRequest }

func (m *memProducts) GetBySlug(_ context.Context, slug string, _ bool) (*models.Product, error) {
	if _, ok := m.rows[slug]; ok {
		return &models.Product{Slug: slug}, nil
	}
	return nil, models.ErrNotFound
}

func (m *memProducts) Create(_ context.Context, req *models.ProductCreateRequest) (*models.Product, error) {
	slug := models.SlugOrDerive(req.Slug, req.Name)
	m.rows[slug] = req
	return &models.Product{ID: uuid.New(), Slug: slug}, nil
}

type memOffices struct{ rows []models.Office }

func (m *memOffices) List(context.Context, *bool) ([]models.Office, error) {
	return m.rows, nil
}

func (m *memOffices) Create(_ context.Context, req *models.OfficeCreateRequest) (*models.Office, error) {
	m.rows = append(m.rows, models.Office{ID: uuid.New(), Name: req.Name, IsPrimary: req.IsPrimary})
	return &m.rows[len(m.rows)-1], nil
}

func newMemSeeder() (*seeder, *memProducts, *memOffices) {
	products := &memProducts{rows: make(map[string]*models.ProductCreateRequest)}
	offices := &memOffices{}
	return &seeder{
		heroes:     &memHeroes{},
		categories: &memCategories{rows: make(map[string]*models.ProductCategory)},
		products:   products,
		offices:    offices,
	}, products, offices
}

func TestSeeder_IsIdempotent(t *testing.T) {
	s, _, _ := newMemSeeder()
	ctx := context.Background()

	first, err := s.run(ctx)
	require.NoError(t, err)
	assert.Equal(t, seedCounts{Created: len(demoHeroes())}, first.Heroes)
	assert.Equal(t, seedCounts{Created: len(demoCategories())}, first.Categories)
	assert.Equal(t, seedCounts{Created: len(demoProducts())}, first.Products)
	assert.Equal(t, seedCounts{Created: len(demoOffices())}, first.Offices)

	second, err := s.run(ctx)
	require.NoError(t, err)
	assert.Equal(t, seedCounts{Skipped: len(demoHeroes())}, second.Heroes)
	assert.Equal(t, seedCounts{Skipped: len(demoCategories())}, second.Categories)
	assert.Equal(t, seedCounts{Skipped: len(demoProducts())}, second.Products)
	assert.Equal(t, seedCounts{Skipped: len(demoOffices())}, second.Offices)
}

func TestSeeder_ProductsGetCategoryAndSummary(t *testing.T) {
	s, products, _ := newMemSeeder()

	_, err := s.run(context.Background())
	require.NoError(t, err)

	for slug, req := range products.rows {
		require.NotNil(t, req.CategoryID, slug)
		assert.NotEmpty(t, req.Summary, slug)
	}
}

func TestSeeder_KeepsExistingPrimaryOffice(t *testing.T) {
	s, _, offices := newMemSeeder()
	offices.rows = []models.Office{{ID: uuid.New(), Name: "Existing HQ", IsPrimary: true}}

	_, err := s.run(context.Background())
	require.NoError(t, err)

	primaries := 0
	for _, o := range offices.rows {
		if o.IsPrimary {
			primaries++
		}
	}
	assert.Equal(t, 1, primaries)
}

type failingCategories struct{ *memCategories }

func (failingCategories) GetBySlug(context.Context, string) (*models.ProductCategory, error) {
	return nil, errors.New("connection refused")
}

func TestSeeder_StopsOnLookupError(t *testing.T) {
	s, products, _ := newMemSeeder()
	s.categories = failingCategories{&memCategories{}}

	_, err := s.run(context.Background())
	require.ErrorContains(t, err, "connection refused")
	assert.Empty(t, products.rows)
}

func TestPrintSeedReport(t *testing.T) {
	var buf bytes.Buffer
	printSeedReport(&buf, seedReport{Products: seedCounts{Created: 2, Skipped: 3}})

	assert.Contains(t, buf.String(), "created 2, skipped 3")
}
