package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Hayal27/sininning-pro-sub000/internal/content"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
	"github.com/Hayal27/sininning-pro-sub000/internal/repository"
)

type heroStore interface {
	List(ctx context.Context, active *bool) ([]models.HeroSection, error)
	Create(ctx context.Context, req *models.HeroCreateRequest) (*models.HeroSection, error)
}

type categoryStore interface {
	GetBySlug(ctx context.Context, slug string) (*models.ProductCategory, error)
	Create(ctx context.Context, req *models.CategoryCreateRequest) (*models.ProductCategory, error)
}

type productStore interface {
	GetBySlug(ctx context.Context, slug string, activeOnly bool) (*models.Product, error)
	Create(ctx context.Context, req *models.ProductCreateRequest) (*models.Product, error)
}

type officeStore interface {
	List(ctx context.Context, active *bool) ([]models.Office, error)
	Create(ctx context.Context, req *models.OfficeCreateRequest) (*models.Office, error)
}

// seeder inserts the demo catalogue. Rows are matched by slug (or title and
// name for heroes and offices) so reruns only fill gaps.
type seeder struct {
	heroes     heroStore
	categories categoryStore
	products   productStore
	offices    officeStore
}

// seedCounts reports created and skipped rows per kind.
type seedCounts struct {
	Created int
	Skipped int
}

type seedReport struct {
	Heroes     seedCounts
	Categories seedCounts
	Products   seedCounts
	Offices    seedCounts
}

func seedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "content",
		Short: "Insert a demo hero, product catalogue and offices",
		Long:  `Insert demo content for a fresh install. Existing rows with the same slug are kept.`,
		Args:  cobra.NoArgs,
		RunE:  runSeedContent,
	})
	return cmd
}

func runSeedContent(cmd *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	s := &seeder{
		heroes:     repository.NewHeroRepository(e.db),
		categories: repository.NewCategoryRepository(e.db),
		products:   repository.NewProductRepository(e.db, e.logger),
		offices:    repository.NewOfficeRepository(e.db, e.logger),
	}
	report, err := s.run(cmd.Context())
	if err != nil {
		return err
	}
	printSeedReport(cmd.OutOrStdout(), report)
	return nil
}

func (s *seeder) run(ctx context.Context) (seedReport, error) {
	var report seedReport

	if err := s.seedHeroes(ctx, &report.Heroes); err != nil {
		return report, err
	}
	categoryIDs, err := s.seedCategories(ctx, &report.Categories)
	if err != nil {
		return report, err
	}
	if err = s.seedProducts(ctx, categoryIDs, &report.Products); err != nil {
		return report, err
	}
	if err = s.seedOffices(ctx, &report.Offices); err != nil {
		return report, err
	}
	return report, nil
}

func (s *seeder) seedHeroes(ctx context.Context, counts *seedCounts) error {
	existing, err := s.heroes.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("list hero sections: %w", err)
	}
	titles := make(map[string]bool, len(existing))
	for i := range existing {
		titles[existing[i].Title] = true
	}

	for _, req := range demoHeroes() {
		if titles[req.Title] {
			counts.Skipped++
			continue
		}
		if err = req.Validate(); err != nil {
			return fmt.Errorf("hero %q: %w", req.Title, err)
		}
		if _, err = s.heroes.Create(ctx, req); err != nil {
			return fmt.Errorf("create hero %q: %w", req.Title, err)
		}
		counts.Created++
	}
	return nil
}

func (s *seeder) seedCategories(ctx context.Context, counts *seedCounts) (map[string]*models.ProductCategory, error) {
	bySlug := make(map[string]*models.ProductCategory)
	for _, req := range demoCategories() {
		slug := models.SlugOrDerive(req.Slug, req.Name)

		category, err := s.categories.GetBySlug(ctx, slug)
		switch {
		case err == nil:
			counts.Skipped++
		case errors.Is(err, models.ErrNotFound):
			if category, err = s.categories.Create(ctx, req); err != nil {
				return nil, fmt.Errorf("create category %q: %w", slug, err)
			}
			counts.Created++
		default:
			return nil, fmt.Errorf("get category %q: %w", slug, err)
		}
		bySlug[slug] = category
	}
	return bySlug, nil
}

func (s *seeder) seedProducts(ctx context.Context, categories map[string]*models.ProductCategory, counts *seedCounts) error {
	for _, demo := range demoProducts() {
		req := demo.request
		slug := models.SlugOrDerive(req.Slug, req.Name)

		_, err := s.products.GetBySlug(ctx, slug, false)
		if err == nil {
			counts.Skipped++
			continue
		}
		if !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("get product %q: %w", slug, err)
		}

		category, ok := categories[demo.category]
		if !ok {
			return fmt.Errorf("product %q: unknown category %q", slug, demo.category)
		}
		req.CategoryID = &category.ID

		if err = req.Validate(); err != nil {
			return fmt.Errorf("product %q: %w", slug, err)
		}
		body, err := content.Prepare(req.Description, req.Summary)
		if err != nil {
			return fmt.Errorf("product %q: %w", slug, err)
		}
		req.Description = body.HTML
		req.Summary = body.Summary

		if _, err = s.products.Create(ctx, req); err != nil {
			return fmt.Errorf("create product %q: %w", slug, err)
		}
		counts.Created++
	}
	return nil
}

func (s *seeder) seedOffices(ctx context.Context, counts *seedCounts) error {
	existing, err := s.offices.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("list offices: %w", err)
	}
	names := make(map[string]bool, len(existing))
	for i := range existing {
		names[existing[i].Name] = true
	}

	for _, req := range demoOffices() {
		if names[req.Name] {
			counts.Skipped++
			continue
		}
		// only the first office of a fresh install becomes primary
		if len(existing) > 0 {
			req.IsPrimary = false
		}
		if err = req.Validate(); err != nil {
			return fmt.Errorf("office %q: %w", req.Name, err)
		}
		if _, err = s.offices.Create(ctx, req); err != nil {
			return fmt.Errorf("create office %q: %w", req.Name, err)
		}
		counts.Created++
	}
	return nil
}

func printSeedReport(out io.Writer, r seedReport) {
	for _, row := range []struct {
		kind   string
		counts seedCounts
	}{
		{"hero sections", r.Heroes},
		{"categories", r.Categories},
		{"products", r.Products},
		{"offices", r.Offices},
	} {
		fmt.Fprintf(out, "%-14s created %d, skipped %d\n", row.kind, row.counts.Created, row.counts.Skipped)
	}
}
