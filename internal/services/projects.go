package services

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/store"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	TableProjectTechStacks = "project_tech_stacks"
	hydrateConcurrency     = 8
)

// ProjectRepository wraps the project table with its tech stack links.
// Links are replaced wholesale: a present tech_stack_ids key deletes every
// link of the project and inserts the new set.
type ProjectRepository struct {
	Projects   *Repository[models.Project]
	TechStacks *Repository[models.TechStack]
	Store      store.Store
	Log        logrus.FieldLogger
}

func NewProjectRepository(st store.Store, log logrus.FieldLogger) *ProjectRepository {
	return &ProjectRepository{
		Projects:   NewRepository[models.Project](st, ProjectSchema),
		TechStacks: NewRepository[models.TechStack](st, TechStackSchema),
		Store:      st,
		Log:        log,
	}
}

func (r *ProjectRepository) List(ctx context.Context, filters ...store.Filter) ([]models.Project, error) {
	projects, err := r.Projects.List(ctx, filters...)
	if err != nil {
		return nil, err
	}
	r.hydrate(ctx, projects)
	return projects, nil
}

func (r *ProjectRepository) Get(ctx context.Context, id int64) (models.Project, error) {
	project, err := r.Projects.Get(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	items := []models.Project{project}
	r.hydrate(ctx, items)
	return items[0], nil
}

func (r *ProjectRepository) Create(ctx context.Context, payload map[string]any) (models.Project, error) {
	row, err := ProjectSchema.BuildCreate(payload)
	if err != nil {
		return models.Project{}, err
	}
	ids, _, err := TechStackIDs(payload)
	if err != nil {
		return models.Project{}, err
	}

	var created models.Project
	if tx, ok := r.Store.(store.Transactor); ok {
		err = tx.InTx(ctx, func(st store.Store) error {
			project, err := r.Projects.insert(ctx, st, row)
			if err != nil {
				return err
			}
			created = project
			return insertLinks(ctx, st, project.ID, ids)
		})
		if err != nil {
			return models.Project{}, ErrStore(err, "Failed to create project")
		}
	} else {
		created, err = r.Projects.insert(ctx, r.Store, row)
		if err != nil {
			return models.Project{}, err
		}
		if err := insertLinks(ctx, r.Store, created.ID, ids); err != nil {
			r.discard(ctx, created.ID)
			return models.Project{}, ErrStore(err, "Failed to create project")
		}
	}
	return r.Get(ctx, created.ID)
}

// Update applies a partial project update. When tech_stack_ids is absent the
// existing links are left alone.
func (r *ProjectRepository) Update(ctx context.Context, id int64, payload map[string]any) (models.Project, error) {
	row, err := ProjectSchema.BuildUpdate(payload, r.Projects.Now())
	if err != nil {
		return models.Project{}, err
	}
	ids, replace, err := TechStackIDs(payload)
	if err != nil {
		return models.Project{}, err
	}

	apply := func(st store.Store) error {
		if _, err := r.Projects.update(ctx, st, id, row); err != nil {
			return err
		}
		if !replace {
			return nil
		}
		return replaceLinks(ctx, st, id, ids)
	}
	if tx, ok := r.Store.(store.Transactor); ok {
		err = tx.InTx(ctx, apply)
	} else {
		err = apply(r.Store)
	}
	if err != nil {
		return models.Project{}, ErrStore(err, "Failed to update project")
	}
	return r.Get(ctx, id)
}

// Delete removes the project; its link rows go with it through the foreign
// key cascade. Tech stacks are untouched.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	return r.Projects.Delete(ctx, id)
}

// discard is the compensating delete for stores without transactions. If it
// fails too, the project is left without links.
func (r *ProjectRepository) discard(ctx context.Context, id int64) {
	if _, err := r.Store.Delete(ctx, ProjectSchema.Table, []store.Filter{store.Eq("id", id)}); err != nil {
		r.Log.WithError(err).WithField("project_id", id).Error("compensating project delete failed")
	}
}

// hydrate resolves tech stacks for every project concurrently. A failed
// lookup leaves that project with an empty list.
func (r *ProjectRepository) hydrate(ctx context.Context, projects []models.Project) {
	started := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hydrateConcurrency)
	for i := range projects {
		g.Go(func() error {
			stacks, err := r.techStacksFor(gctx, projects[i].ID)
			if err != nil {
				r.Log.WithError(err).WithField("project_id", projects[i].ID).Warn("tech stack lookup failed")
				stacks = []models.TechStack{}
			}
			projects[i].TechStacks = stacks
			return nil
		})
	}
	_ = g.Wait()
	r.Log.WithFields(logrus.Fields{"projects": len(projects), "elapsed": time.Since(started)}).Debug("projects hydrated")
}

func (r *ProjectRepository) techStacksFor(ctx context.Context, projectID int64) ([]models.TechStack, error) {
	links := []models.ProjectTechStack{}
	q := store.Query{Table: TableProjectTechStacks, Filters: []store.Filter{store.Eq("project_id", projectID)}}
	if err := r.Store.Select(ctx, q, &links); err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []models.TechStack{}, nil
	}
	ids := make([]any, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.TechStackID)
	}
	return r.TechStacks.List(ctx, store.In("id", ids...))
}

func insertLinks(ctx context.Context, st store.Store, projectID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	rows := make([]store.Row, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, store.Row{"project_id": projectID, "tech_stack_id": id})
	}
	return st.Insert(ctx, TableProjectTechStacks, rows, nil)
}

func replaceLinks(ctx context.Context, st store.Store, projectID int64, ids []int64) error {
	if _, err := st.Delete(ctx, TableProjectTechStacks, []store.Filter{store.Eq("project_id", projectID)}); err != nil {
		return err
	}
	return insertLinks(ctx, st, projectID, ids)
}

// TechStackIDs reads tech_stack_ids from a payload. The bool reports whether
// the key was present; null counts as an empty list. Duplicates are dropped.
func TechStackIDs(payload map[string]any) ([]int64, bool, error) {
	raw, present := payload["tech_stack_ids"]
	if !present {
		return nil, false, nil
	}
	if raw == nil {
		return []int64{}, true, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, true, ErrValidation("Invalid project payload", []string{"Field 'tech_stack_ids' must be a list of ids"})
	}
	seen := map[int64]bool{}
	ids := make([]int64, 0, len(list))
	for _, item := range list {
		id, ok := parseID(item)
		if !ok {
			return nil, true, ErrValidation("Invalid project payload", []string{"Field 'tech_stack_ids' must be a list of ids"})
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, true, nil
}

func parseID(value any) (int64, bool) {
	switch v := value.(type) {
	case float64:
		if v > 0 && v == math.Trunc(v) {
			return int64(v), true
		}
	case int64:
		return v, v > 0
	case int:
		return int64(v), v > 0
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil && n > 0
	}
	return 0, false
}
