package services

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"testing"

	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/store"
	"portfolio-backend-go/internal/store/storetest"
)

func seedTechStacks(t *testing.T, st store.Store, names ...string) []int64 {
	t.Helper()
	repo := NewRepository[models.TechStack](st, TechStackSchema)
	ids := []int64{}
	for _, name := range names {
		ts, err := repo.Create(context.Background(), map[string]any{"name": name, "icon_name": "Si" + name, "color": "#111"})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, ts.ID)
	}
	return ids
}

func projectPayload(ids ...int64) map[string]any {
	payload := map[string]any{"name": "Portfolio", "description": "Personal site", "slug": "portfolio"}
	if ids != nil {
		list := []any{}
		for _, id := range ids {
			list = append(list, float64(id))
		}
		payload["tech_stack_ids"] = list
	}
	return payload
}

func stackIDs(project models.Project) []int64 {
	ids := []int64{}
	for _, ts := range project.TechStacks {
		ids = append(ids, ts.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProjectCreateLinksTechStacks(t *testing.T) {
	ctx := context.Background()
	mem := newMemory()
	ids := seedTechStacks(t, mem, "Go", "React", "Postgres")
	repo := NewProjectRepository(mem, quietLogger())

	project, err := repo.Create(ctx, projectPayload(ids[0], ids[1], ids[0]))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !equalIDs(stackIDs(project), []int64{ids[0], ids[1]}) {
		t.Errorf("tech stacks = %v", stackIDs(project))
	}
	if project.Featured || project.ImageType != "desktop" || project.Order != 0 {
		t.Errorf("defaults not applied: %+v", project)
	}
	if links := mem.Rows(TableProjectTechStacks); len(links) != 2 {
		t.Errorf("links = %d, want 2", len(links))
	}
}

func TestProjectUpdateLinks(t *testing.T) {
	ctx := context.Background()
	mem := newMemory()
	ids := seedTechStacks(t, mem, "Go", "React", "Postgres")
	repo := NewProjectRepository(mem, quietLogger())
	project, err := repo.Create(ctx, projectPayload(ids[0], ids[1]))
	if err != nil {
		t.Fatal(err)
	}

	untouched, err := repo.Update(ctx, project.ID, map[string]any{"name": "Renamed"})
	if err != nil {
		t.Fatalf("Update without ids: %v", err)
	}
	if untouched.Name != "Renamed" || !equalIDs(stackIDs(untouched), []int64{ids[0], ids[1]}) {
		t.Errorf("links should be untouched: %+v", untouched)
	}

	replaced, err := repo.Update(ctx, project.ID, map[string]any{"tech_stack_ids": []any{float64(ids[2])}})
	if err != nil {
		t.Fatalf("Update with ids: %v", err)
	}
	if !equalIDs(stackIDs(replaced), []int64{ids[2]}) {
		t.Errorf("links should be replaced, got %v", stackIDs(replaced))
	}

	cleared, err := repo.Update(ctx, project.ID, map[string]any{"tech_stack_ids": []any{}})
	if err != nil {
		t.Fatalf("Update with empty ids: %v", err)
	}
	if len(cleared.TechStacks) != 0 || len(mem.Rows(TableProjectTechStacks)) != 0 {
		t.Errorf("links should be cleared: %+v", cleared.TechStacks)
	}

	_, err = repo.Update(ctx, 404, map[string]any{"name": "Ghost"})
	requireStatus(t, err, http.StatusNotFound)

	_, err = repo.Update(ctx, project.ID, map[string]any{"tech_stack_ids": "1,2"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestProjectDeleteKeepsTechStacks(t *testing.T) {
	ctx := context.Background()
	mem := newMemory()
	ids := seedTechStacks(t, mem, "Go", "React")
	repo := NewProjectRepository(mem, quietLogger())
	project, err := repo.Create(ctx, projectPayload(ids...))
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.Delete(ctx, project.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if links := mem.Rows(TableProjectTechStacks); len(links) != 0 {
		t.Errorf("links left behind: %v", links)
	}
	stacks, err := repo.TechStacks.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stacks) != 2 {
		t.Errorf("tech stacks = %d, want 2", len(stacks))
	}
}

func TestProjectCreateRollsBackInTransaction(t *testing.T) {
	ctx := context.Background()
	mem := newMemory()
	ids := seedTechStacks(t, mem, "Go")
	mem.FailOn("insert", TableProjectTechStacks, errors.New("foreign key violation"))
	repo := NewProjectRepository(mem, quietLogger())

	_, err := repo.Create(ctx, projectPayload(ids...))
	serr := requireStatus(t, err, http.StatusInternalServerError)
	if serr.Message != "foreign key violation" {
		t.Errorf("message = %q", serr.Message)
	}
	if rows := mem.Rows(ProjectSchema.Table); len(rows) != 0 {
		t.Errorf("project should be rolled back, got %v", rows)
	}
	for _, call := range mem.Calls() {
		if call == "delete:projects" {
			t.Error("transactional path should not need a compensating delete")
		}
	}
}

func TestProjectCreateCompensatesWithoutTransactions(t *testing.T) {
	ctx := context.Background()
	mem := newMemory()
	ids := seedTechStacks(t, mem, "Go")
	mem.FailOn("insert", TableProjectTechStacks, errors.New("foreign key violation"))
	repo := NewProjectRepository(storetest.WithoutTx(mem), quietLogger())

	_, err := repo.Create(ctx, projectPayload(ids...))
	requireStatus(t, err, http.StatusInternalServerError)
	if rows := mem.Rows(ProjectSchema.Table); len(rows) != 0 {
		t.Errorf("project should be deleted, got %v", rows)
	}
	compensated := false
	for _, call := range mem.Calls() {
		if call == "delete:projects" {
			compensated = true
		}
	}
	if !compensated {
		t.Error("expected a compensating delete")
	}
}

func TestProjectListToleratesLookupFailure(t *testing.T) {
	ctx := context.Background()
	mem := newMemory()
	ids := seedTechStacks(t, mem, "Go")
	repo := NewProjectRepository(mem, quietLogger())
	for i := 0; i < 3; i++ {
		payload := projectPayload(ids...)
		payload["order"] = float64(3 - i)
		if _, err := repo.Create(ctx, payload); err != nil {
			t.Fatal(err)
		}
	}

	mem.FailOn("select", TableProjectTechStacks, errors.New("timeout"))
	projects, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(projects) != 3 {
		t.Fatalf("projects = %d, want 3", len(projects))
	}
	for _, p := range projects {
		if p.TechStacks == nil || len(p.TechStacks) != 0 {
			t.Errorf("project %d tech stacks = %#v, want empty", p.ID, p.TechStacks)
		}
	}
	if projects[0].Order > projects[1].Order || projects[1].Order > projects[2].Order {
		t.Errorf("projects not ordered: %d %d %d", projects[0].Order, projects[1].Order, projects[2].Order)
	}
}

func TestTechStackIDs(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		ids     []int64
		present bool
		wantErr bool
	}{
		{name: "absent", payload: map[string]any{}, present: false},
		{name: "null", payload: map[string]any{"tech_stack_ids": nil}, ids: []int64{}, present: true},
		{name: "dedupe", payload: map[string]any{"tech_stack_ids": []any{2.0, "3", 2.0}}, ids: []int64{2, 3}, present: true},
		{name: "fraction", payload: map[string]any{"tech_stack_ids": []any{1.5}}, present: true, wantErr: true},
		{name: "not a list", payload: map[string]any{"tech_stack_ids": 4.0}, present: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, present, err := TechStackIDs(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if present != tt.present {
				t.Errorf("present = %v, want %v", present, tt.present)
			}
			if !tt.wantErr && !equalIDs(ids, tt.ids) {
				t.Errorf("ids = %v, want %v", ids, tt.ids)
			}
		})
	}
}
