package main

import "github.com/Hayal27/sininning-pro-sub000/internal/models"

// demoProduct pairs a product with the slug of its category.
type demoProduct struct {
	category string
	request  *models.ProductCreateRequest
}

func ptr[T any](v T) *T { return &v }

// Constructors return fresh values because the seeder mutates requests.

func demoHeroes() []*models.HeroCreateRequest {
	return []*models.HeroCreateRequest{
		{
			Title:             "Colour that lasts",
			Subtitle:          "Premium paints for homes, businesses and industry",
			Description:       "Decorative and protective coatings made to handle sun, rain and daily wear.",
			Images:            []string{"/uploads/demo/hero-living-room.jpg"},
			PrimaryCTALabel:   "Browse products",
			PrimaryCTAURL:     "/products",
			SecondaryCTALabel: "Talk to us",
			SecondaryCTAURL:   "/contact",
			DisplayOrder:      ptr(1),
			IsActive:          ptr(true),
		},
	}
}

func demoCategories() []*models.CategoryCreateRequest {
	return []*models.CategoryCreateRequest{
		{Name: "Interior Paints", Slug: ptr("interior-paints"), Description: "Emulsions and enamels for walls, ceilings and trim.", DisplayOrder: ptr(1)},
		{Name: "Exterior Paints", Slug: ptr("exterior-paints"), Description: "Weather resistant finishes for facades and masonry.", DisplayOrder: ptr(2)},
		{Name: "Primers & Undercoats", Slug: ptr("primers-undercoats"), Description: "Sealers and undercoats that prepare surfaces for the top coat.", DisplayOrder: ptr(3)},
		{Name: "Industrial Coatings", Slug: ptr("industrial-coatings"), Description: "Epoxy and anti-corrosion systems for floors and steel.", DisplayOrder: ptr(4)},
	}
}

func demoProducts() []demoProduct {
	return []demoProduct{
		{
			category: "interior-paints",
			request: &models.ProductCreateRequest{
				Name:         "Silk Touch Interior Emulsion",
				SKU:          "INT-SILK-01",
				Description:  "<p>A washable <strong>silk finish</strong> emulsion for living rooms and bedrooms. Low odour and quick drying.</p>",
				Features:     []string{"Washable", "Low VOC", "Quick drying"},
				Applications: []string{"Living rooms", "Bedrooms", "Offices"},
				Finish:       "Silk",
				Coverage:     "12-14 m² per litre",
				Sizes:        []string{"1L", "4L", "20L"},
				Colors:       []string{"Brilliant White", "Magnolia", "Sky Blue"},
				IsFeatured:   ptr(true),
				DisplayOrder: ptr(1),
			},
		},
		{
			category: "interior-paints",
			request: &models.ProductCreateRequest{
				Name:         "Matt Classic Ceiling White",
				SKU:          "INT-CEIL-02",
				Description:  "<p>A flat matt white that hides ceiling imperfections and resists spatter.</p>",
				Features:     []string{"Non-drip", "High opacity"},
				Applications: []string{"Ceilings"},
				Finish:       "Matt",
				Coverage:     "10-12 m² per litre",
				Sizes:        []string{"4L", "20L"},
				Colors:       []string{"Brilliant White"},
				DisplayOrder: ptr(2),
			},
		},
		{
			category: "exterior-paints",
			request: &models.ProductCreateRequest{
				Name:         "WeatherGuard Exterior Acrylic",
				SKU:          "EXT-WG-01",
				Description:  "<p>An elastomeric acrylic that bridges hairline cracks and keeps colour for up to ten years.</p>",
				Features:     []string{"UV resistant", "Anti-fungal", "Crack bridging"},
				Applications: []string{"Facades", "Masonry", "Render"},
				Finish:       "Smooth matt",
				Coverage:     "8-10 m² per litre",
				Sizes:        []string{"4L", "20L"},
				Colors:       []string{"Sandstone", "Terracotta", "Pure White"},
				IsFeatured:   ptr(true),
				DisplayOrder: ptr(1),
			},
		},
		{
			category: "primers-undercoats",
			request: &models.ProductCreateRequest{
				Name:         "Alkali Resistant Primer",
				SKU:          "PRM-AR-01",
				Description:  "<p>Seals fresh plaster and cement before the finishing coat.</p>",
				Applications: []string{"New plaster", "Concrete"},
				Finish:       "Flat",
				Coverage:     "10 m² per litre",
				Sizes:        []string{"4L", "20L"},
				DisplayOrder: ptr(1),
			},
		},
		{
			category: "industrial-coatings",
			request: &models.ProductCreateRequest{
				Name:         "DuraFloor Epoxy Coating",
				SKU:          "IND-EPX-01",
				Description:  "<p>A two pack epoxy floor coating for warehouses and workshops with heavy traffic.</p>",
				Features:     []string{"Chemical resistant", "Abrasion resistant"},
				Applications: []string{"Warehouses", "Garages", "Factories"},
				Finish:       "Gloss",
				Coverage:     "6-8 m² per litre",
				Sizes:        []string{"5L kit", "20L kit"},
				Colors:       []string{"Grey", "Green", "Red"},
				DisplayOrder: ptr(1),
			},
		},
	}
}

func demoOffices() []*models.OfficeCreateRequest {
	return []*models.OfficeCreateRequest{
		{
			Name:         "Head Office & Factory",
			AddressLine:  "Industrial Zone, Block 7",
			City:         "Riverside",
			Country:      "Demo Country",
			Phone:        "+1 555 010 0000",
			Email:        "info@example.com",
			OpeningHours: "Mon-Sat 08:00-17:30",
			IsPrimary:    true,
			IsActive:     ptr(true),
			DisplayOrder: ptr(1),
		},
		{
			Name:         "City Showroom",
			AddressLine:  "12 Market Street",
			City:         "Riverside",
			Country:      "Demo Country",
			Phone:        "+1 555 010 0001",
			OpeningHours: "Mon-Sat 09:00-19:00",
			IsActive:     ptr(true),
			DisplayOrder: ptr(2),
		},
	}
}
