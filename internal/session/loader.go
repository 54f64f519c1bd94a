package session

import (
	"context"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/docqa-tools/reviewdeck/internal/api"
)

// Backend is the slice of the API client the loader needs.
type Backend interface {
	Projects(ctx context.Context) ([]api.Project, error)
	Project(ctx context.Context, projectID string) (api.Project, error)
	Questions(ctx context.Context, projectID string) ([]api.Question, error)
	Answers(ctx context.Context, projectID string) ([]api.Answer, error)
	Documents(ctx context.Context) ([]api.Document, error)
	UploadDocument(ctx context.Context, filename string, contents io.Reader) (api.Document, error)
	CreateProject(ctx context.Context, req api.CreateProjectRequest) (api.CreateProjectResult, error)
}

// Loader owns the wholesale reconciliation flows: it fetches authoritative
// state from the backend and replaces the session caches with it.
type Loader struct {
	backend Backend
	session *Session
}

// NewLoader wires a loader to its collaborators.
func NewLoader(backend Backend, sess *Session) *Loader {
	return &Loader{backend: backend, session: sess}
}

// LoadProject focuses a project and performs the full reload: detail,
// questions, and answers fetched concurrently, then merged into the session
// in one replacement. Switching projects rescopes the evaluation state.
func (l *Loader) LoadProject(ctx context.Context, projectID string) (api.Project, error) {
	l.session.FocusProject(projectID)
	var (
		detail    api.Project
		questions []api.Question
		answers   []api.Answer
	)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		detail, err = l.backend.Project(gctx, projectID)
		return err
	})
	group.Go(func() error {
		var err error
		questions, err = l.backend.Questions(gctx, projectID)
		return err
	})
	group.Go(func() error {
		var err error
		answers, err = l.backend.Answers(gctx, projectID)
		return err
	})
	if err := group.Wait(); err != nil {
		return api.Project{}, err
	}
	l.session.SetProjectData(questions, answers)
	l.session.AlignEvaluation(projectID)
	return detail, nil
}

// RefreshProjects replaces the cached project list.
func (l *Loader) RefreshProjects(ctx context.Context) ([]api.Project, error) {
	projects, err := l.backend.Projects(ctx)
	if err != nil {
		return nil, err
	}
	l.session.SetProjects(projects)
	return projects, nil
}

// RefreshDocuments replaces the cached document list.
func (l *Loader) RefreshDocuments(ctx context.Context) ([]api.Document, error) {
	documents, err := l.backend.Documents(ctx)
	if err != nil {
		return nil, err
	}
	l.session.SetDocuments(documents)
	return documents, nil
}

// UploadDocument sends one file to the backend. Indexing continues in the
// background server-side; callers refresh the document list to observe it.
func (l *Loader) UploadDocument(ctx context.Context, filename string, contents io.Reader) (api.Document, error) {
	return l.backend.UploadDocument(ctx, filename, contents)
}

// CreateProject validates the form locally, then creates the project with
// the session's current document scope and selection. Validation failures
// surface as *api.ValidationError before any network call.
func (l *Loader) CreateProject(ctx context.Context, name, questionnaireText string, autoGenerate bool) (api.CreateProjectResult, error) {
	name = strings.TrimSpace(name)
	questionnaireText = strings.TrimSpace(questionnaireText)
	if name == "" || questionnaireText == "" {
		return api.CreateProjectResult{}, api.NewValidationError("project name and questionnaire text are required")
	}
	scope := l.session.Scope()
	selected := l.session.SelectedDocumentIDs()
	if scope == api.ScopeSelectedDocs && len(selected) == 0 {
		return api.CreateProjectResult{}, api.NewValidationError("select at least one document")
	}
	return l.backend.CreateProject(ctx, api.CreateProjectRequest{
		Name:              name,
		Scope:             scope,
		DocumentIDs:       selected,
		AutoGenerate:      autoGenerate,
		QuestionnaireText: questionnaireText,
	})
}
