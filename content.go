package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
)

// loadContent reads the site content (profile, skills, experience, projects).
func loadContent(path string) (Content, error) {
	logInfo("Loading site content from %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, err
	}
	var content Content
	if err := json.Unmarshal(data, &content); err != nil {
		return Content{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := validateProjects(content.Projects); err != nil {
		return Content{}, fmt.Errorf("%s: %w", path, err)
	}
	logInfo("Loaded %d projects, %d skill groups, %d jobs", len(content.Projects), len(content.Skills), len(content.Experience))
	return content, nil
}

// validateProjects rejects non-positive or duplicate project IDs, which would
// make /projects/:id ambiguous.
func validateProjects(projects []Project) error {
	for _, p := range projects {
		if p.ID <= 0 {
			return fmt.Errorf("project %q has invalid id %d", p.Title, p.ID)
		}
	}
	ids := lo.Map(projects, func(p Project, _ int) int { return p.ID })
	if dup := lo.FindDuplicates(ids); len(dup) > 0 {
		return fmt.Errorf("duplicate project id %d", dup[0])
	}
	return nil
}

// buildProjectIndex maps project ID to project for detail lookups.
func buildProjectIndex(projects []Project) map[int]Project {
	return lo.KeyBy(projects, func(p Project) int { return p.ID })
}

// buildCategories returns "All" followed by each distinct category in first-seen order.
func buildCategories(projects []Project) []string {
	cats := lo.Uniq(lo.FilterMap(projects, func(p Project, _ int) (string, bool) {
		return p.Category, p.Category != ""
	}))
	return append([]string{AllProjectCategory}, cats...)
}

// filterProjects returns the projects in category; "" or "All" returns every project.
func filterProjects(projects []Project, category string) []Project {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, AllProjectCategory) {
		return projects
	}
	return lo.Filter(projects, func(p Project, _ int) bool {
		return strings.EqualFold(p.Category, category)
	})
}

// setContent installs content and its derived indexes on the app.
func (app *App) setContent(content Content) {
	app.Content = content
	app.Projects = buildProjectIndex(content.Projects)
	app.Categories = buildCategories(content.Projects)
}
