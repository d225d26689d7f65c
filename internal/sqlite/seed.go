// Sample portfolio content for a fresh bucket.
package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// seedObject describes one object inserted by Seed.
type seedObject struct {
	objType  string
	metadata map[string]any
}

func option(key, value string) map[string]any {
	return map[string]any{"key": key, "value": value}
}

// seedObjects is the sample content, one entry per object, in insert order.
var seedObjects = []seedObject{
	{types.TypeProfile, map[string]any{
		"full_name":          "Alex Rivera",
		"professional_title": "Full-Stack Developer",
		"hero_heading":       "I build fast, reliable web products",
		"hero_subtext":       "Ten years of shipping services and interfaces.",
		"about_me":           "Developer focused on backend systems and clean interfaces.",
	}},
	{types.TypeContactInfo, map[string]any{
		"email":        "alex@example.com",
		"location":     "Lisbon, Portugal",
		"github_url":   "https://github.com/example",
		"linkedin_url": "https://www.linkedin.com/in/example",
	}},
	{types.TypeProjects, map[string]any{
		"project_name":      "Storefront",
		"short_description": "Headless commerce storefront with server rendering.",
		"tech_stack":        []any{"Go", "React", "PostgreSQL"},
		"live_demo_url":     "https://store.example.com",
		"featured":          true,
		"order":             1,
	}},
	{types.TypeProjects, map[string]any{
		"project_name":      "Metrics Pipeline",
		"short_description": "Streaming ingestion of application metrics.",
		"tech_stack":        []any{"Go", "Kafka"},
		"github_url":        "https://github.com/example/metrics",
		"featured":          false,
		"order":             2,
	}},
	{types.TypeProjects, map[string]any{
		"project_name":      "Portfolio Site",
		"short_description": "The site this dashboard feeds.",
		"tech_stack":        []any{"React", "TypeScript"},
		"order":             3,
	}},
	{types.TypeSkills, map[string]any{
		"skill_name":        "Go",
		"category":          option("backend", "Backend"),
		"proficiency_level": option("expert", "Expert"),
	}},
	{types.TypeSkills, map[string]any{
		"skill_name":        "PostgreSQL",
		"category":          option("database", "Database"),
		"proficiency_level": option("advanced", "Advanced"),
	}},
	{types.TypeSkills, map[string]any{
		"skill_name":        "React",
		"category":          option("frontend", "Frontend"),
		"proficiency_level": option("advanced", "Advanced"),
	}},
	{types.TypeSkills, map[string]any{
		"skill_name":        "Docker",
		"category":          option("tools", "Tools"),
		"proficiency_level": option("intermediate", "Intermediate"),
	}},
	{types.TypeServices, map[string]any{
		"service_name": "Backend Development",
		"description":  "APIs, data pipelines and integrations.",
		"price_range":  "$80-120/hr",
	}},
	{types.TypeServices, map[string]any{
		"service_name": "Technical Consulting",
		"description":  "Architecture reviews and performance audits.",
		"price_range":  "$150/hr",
	}},
	{types.TypeTestimonials, map[string]any{
		"client_name":      "Jordan Lee",
		"client_title":     "CTO",
		"company":          "Acme",
		"testimonial_text": "Delivered the storefront ahead of schedule.",
		"rating":           5,
	}},
	{types.TypeTestimonials, map[string]any{
		"client_name":      "Sam Patel",
		"client_title":     "Product Manager",
		"company":          "Globex",
		"testimonial_text": "Clear communication and solid engineering.",
		"rating":           4,
	}},
}

// Seed inserts the sample portfolio content when the bucket is empty. It
// returns the number of objects inserted; a non-empty bucket is left
// untouched and yields 0.
func (b *Backend) Seed(ctx context.Context) (int, error) {
	n, err := b.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	inserted := 0
	for _, s := range seedObjects {
		_, err := b.InsertOne(ctx, types.InsertRequest{
			Type:     s.objType,
			Title:    types.TitleFor(s.objType, s.metadata),
			Metadata: s.metadata,
		})
		if err != nil {
			return inserted, fmt.Errorf("seeding %s: %w", s.objType, err)
		}
		inserted++
	}
	return inserted, nil
}
