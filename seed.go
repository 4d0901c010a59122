package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/buildsite-backend/models"
	"github.com/rpupo63/buildsite-backend/storage"
)

var sampleProjects = []models.Project{
	{
		Title:          "Riverside Office Complex",
		Description:    "Four storey steel frame office building with underground parking and a green roof.",
		Category:       "Commercial",
		Location:       "Portland, OR",
		ImageURL:       "/images/projects/riverside-office.jpg",
		CompletionDate: models.StringPtr("2023"),
		ClientName:     models.StringPtr("Riverside Holdings"),
		Featured:       true,
	},
	{
		Title:       "Maple Street Residences",
		Description: "Twelve townhomes built to passive house standards.",
		Category:    "Residential",
		Location:    "Beaverton, OR",
		ImageURL:    "/images/projects/maple-street.jpg",
		Featured:    true,
	},
	{
		Title:          "Harbor Warehouse Retrofit",
		Description:    "Seismic retrofit and roof replacement of a 1950s timber warehouse.",
		Category:       "Industrial",
		Location:       "Vancouver, WA",
		ImageURL:       "/images/projects/harbor-warehouse.jpg",
		CompletionDate: models.StringPtr("2022"),
	},
}

var sampleServices = []models.Service{
	{Title: "General Contracting", Description: "End to end management of commercial and residential builds.", IconName: "HardHat", Featured: true},
	{Title: "Design-Build", Description: "One team from concept drawings to handover.", IconName: "Ruler", Featured: true},
	{Title: "Renovation", Description: "Remodels, additions and tenant improvements.", IconName: "Hammer"},
	{Title: "Pre-Construction", Description: "Budgeting, scheduling and constructability reviews.", IconName: "ClipboardList"},
}

var sampleCompanyInfo = []models.CompanyInfo{
	{Section: "about", Content: "A family owned general contractor serving the Pacific Northwest since 1998."},
	{Section: "mission", Content: "Build it right the first time, on schedule and on budget."},
	{Section: "values", Content: "Safety, craftsmanship, honesty and respect for the neighbourhoods we build in."},
}

// seed fills an empty store with sample content. Tables that already hold
// rows are left alone, so running it twice is harmless.
func seed(ctx context.Context, store storage.Storage) error {
	projects, err := store.ListProjects(ctx)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		for _, p := range sampleProjects {
			if _, err := store.CreateProject(ctx, p); err != nil {
				return fmt.Errorf("seed project %q: %w", p.Title, err)
			}
		}
		log.Info().Int("count", len(sampleProjects)).Msg("seeded projects")
	}

	services, err := store.ListServices(ctx)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		for _, s := range sampleServices {
			if _, err := store.CreateService(ctx, s); err != nil {
				return fmt.Errorf("seed service %q: %w", s.Title, err)
			}
		}
		log.Info().Int("count", len(sampleServices)).Msg("seeded services")
	}

	for _, info := range sampleCompanyInfo {
		existing, err := store.GetCompanyInfo(ctx, info.Section)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if _, err := store.UpsertCompanyInfo(ctx, info); err != nil {
			return fmt.Errorf("seed company info %q: %w", info.Section, err)
		}
	}
	log.Info().Str("storage", store.Name()).Msg("seed complete")
	return nil
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
