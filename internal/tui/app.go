// Package tui is the rendering surface of the console. It follows The Elm
// Architecture via bubbletea: state lives in App, async work runs in
// tea.Cmd functions that resolve to messages, and the view is a pure
// function of the model. All workflow logic stays in the flow packages;
// the TUI only dispatches into them and renders session state.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/docqa-tools/reviewdeck/internal/api"
	"github.com/docqa-tools/reviewdeck/internal/session"
)

// pane identifies which screen region has focus.
type pane int

const (
	paneProjects pane = iota
	paneDocuments
	paneReview
	paneEvaluation
)

var paneNames = map[pane]string{
	paneProjects:   "Projects",
	paneDocuments:  "Documents",
	paneReview:     "Review",
	paneEvaluation: "Evaluation",
}

// mode identifies which input capture is active on top of the pane.
type mode int

const (
	modeNormal mode = iota
	modeEditAnswer
	modeEditGroundTruth
	modeSearch
	modeCreateProject
	modeUploadPath
)

// Generator is the slice of the API client used to queue answer
// generation; everything else goes through the flow packages.
type Generator interface {
	GenerateAnswers(ctx context.Context, projectID string) error
}

// ReviewSaver persists a reviewed answer.
type ReviewSaver interface {
	SaveReview(ctx context.Context, answerID, manualText string, status api.AnswerStatus) (api.Answer, error)
}

// EvaluationRunner submits the curated ground truth set for scoring.
type EvaluationRunner interface {
	Submit(ctx context.Context, projectID string) (api.EvaluationResult, error)
}

// GenerationStarter launches the background status poll.
type GenerationStarter interface {
	Start(ctx context.Context, projectID string) bool
}

// Deps carries the collaborators an App needs.
type Deps struct {
	Log        *zap.Logger
	Session    *session.Session
	Loader     *session.Loader
	Review     ReviewSaver
	Evaluation EvaluationRunner
	Poller     GenerationStarter
	Generator  Generator
	Events     chan GenerationEvent
}

// App is the bubbletea model holding all UI state.
type App struct {
	ctx  context.Context
	log  *zap.Logger
	deps Deps

	pane pane
	mode mode

	width  int
	height int

	projectCursor  int
	documentCursor int
	answerCursor   int
	evalCursor     int

	answerEditor        textarea.Model
	groundTruthEditor   textarea.Model
	searchInput         textinput.Model
	nameInput           textinput.Model
	questionnaireEditor textarea.Model
	uploadInput         textinput.Model

	createAutoGenerate bool
	createFocusBody    bool

	evalRows []session.EvaluationRow

	editingAnswerID string
	statusIndex     int

	metrics string

	busy      map[string]bool
	statusMsg string
	statusErr bool
}

// New builds the application model.
func New(ctx context.Context, deps Deps) *App {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	answerEditor := textarea.New()
	answerEditor.Placeholder = "Manual answer..."
	answerEditor.SetHeight(4)

	gtEditor := textarea.New()
	gtEditor.Placeholder = "Type the correct answer..."
	gtEditor.SetHeight(4)

	search := textinput.New()
	search.Placeholder = "Filter questions by section or text"

	name := textinput.New()
	name.Placeholder = "Project name"
	name.CharLimit = 120

	questionnaire := textarea.New()
	questionnaire.Placeholder = "One question per line; optional ## Section headers"
	questionnaire.SetHeight(8)

	upload := textinput.New()
	upload.Placeholder = "Path to document file"

	return &App{
		ctx:                 ctx,
		log:                 deps.Log,
		deps:                deps,
		pane:                paneProjects,
		answerEditor:        answerEditor,
		groundTruthEditor:   gtEditor,
		searchInput:         search,
		nameInput:           name,
		questionnaireEditor: questionnaire,
		uploadInput:         upload,
		busy:                map[string]bool{},
	}
}

// Messages resolved by tea.Cmd functions.

type projectsMsg struct {
	projects []api.Project
	err      error
}

type documentsMsg struct {
	documents []api.Document
	err       error
}

type projectLoadedMsg struct {
	detail api.Project
	err    error
}

type uploadDoneMsg struct {
	document api.Document
	err      error
}

type createDoneMsg struct {
	result api.CreateProjectResult
	err    error
}

type generateQueuedMsg struct {
	projectID string
	err       error
}

type reviewSavedMsg struct {
	answer api.Answer
	err    error
}

type evalDoneMsg struct {
	result api.EvaluationResult
	err    error
}

type generationEventMsg GenerationEvent

// Init kicks off the initial cache loads and the generation event listener.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.refreshProjectsCmd(),
		a.refreshDocumentsCmd(),
		listenGeneration(a.deps.Events),
	)
}

func (a *App) refreshProjectsCmd() tea.Cmd {
	return func() tea.Msg {
		projects, err := a.deps.Loader.RefreshProjects(a.ctx)
		return projectsMsg{projects: projects, err: err}
	}
}

func (a *App) refreshDocumentsCmd() tea.Cmd {
	return func() tea.Msg {
		documents, err := a.deps.Loader.RefreshDocuments(a.ctx)
		return documentsMsg{documents: documents, err: err}
	}
}

func (a *App) loadProjectCmd(projectID string) tea.Cmd {
	return func() tea.Msg {
		detail, err := a.deps.Loader.LoadProject(a.ctx, projectID)
		return projectLoadedMsg{detail: detail, err: err}
	}
}

func (a *App) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		file, err := os.Open(path)
		if err != nil {
			return uploadDoneMsg{err: fmt.Errorf("open %s: %w", path, err)}
		}
		defer file.Close()
		doc, err := a.deps.Loader.UploadDocument(a.ctx, filepath.Base(path), file)
		return uploadDoneMsg{document: doc, err: err}
	}
}

func (a *App) createProjectCmd(name, questionnaire string, autoGenerate bool) tea.Cmd {
	return func() tea.Msg {
		result, err := a.deps.Loader.CreateProject(a.ctx, name, questionnaire, autoGenerate)
		return createDoneMsg{result: result, err: err}
	}
}

func (a *App) generateCmd(projectID string) tea.Cmd {
	return func() tea.Msg {
		if err := a.deps.Generator.GenerateAnswers(a.ctx, projectID); err != nil {
			return generateQueuedMsg{projectID: projectID, err: err}
		}
		a.deps.Poller.Start(a.ctx, projectID)
		return generateQueuedMsg{projectID: projectID}
	}
}

func (a *App) saveReviewCmd(answerID, text string, status api.AnswerStatus) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.deps.Review.SaveReview(a.ctx, answerID, text, status)
		return reviewSavedMsg{answer: answer, err: err}
	}
}

func (a *App) runEvaluationCmd(projectID string) tea.Cmd {
	return func() tea.Msg {
		result, err := a.deps.Evaluation.Submit(a.ctx, projectID)
		return evalDoneMsg{result: result, err: err}
	}
}

func listenGeneration(events chan GenerationEvent) tea.Cmd {
	return func() tea.Msg {
		return generationEventMsg(<-events)
	}
}

// Update routes messages to the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
		a.answerEditor.SetWidth(maxInt(20, a.width-8))
		a.groundTruthEditor.SetWidth(maxInt(20, a.width-8))
		a.questionnaireEditor.SetWidth(maxInt(20, a.width-8))
		return a, nil

	case projectsMsg:
		a.busy["projects"] = false
		if m.err != nil {
			return a, a.fail("Failed to refresh projects", m.err)
		}
		a.clampCursors()
		return a, nil

	case documentsMsg:
		a.busy["documents"] = false
		if m.err != nil {
			return a, a.fail("Failed to load documents", m.err)
		}
		a.clampCursors()
		return a, nil

	case projectLoadedMsg:
		a.busy["load"] = false
		if m.err != nil {
			return a, a.fail("Failed to load project", m.err)
		}
		a.refreshEvalRows()
		a.clampCursors()
		a.setStatus(fmt.Sprintf("Loaded %s", m.detail.Name), false)
		return a, nil

	case uploadDoneMsg:
		a.busy["upload"] = false
		if m.err != nil {
			return a, a.fail("Upload failed", m.err)
		}
		a.setStatus(fmt.Sprintf("Uploaded %s. Indexing in background.", m.document.Filename), false)
		return a, a.refreshDocumentsCmd()

	case createDoneMsg:
		a.busy["create"] = false
		if m.err != nil {
			return a, a.fail("Project creation failed", m.err)
		}
		a.mode = modeNormal
		a.nameInput.Blur()
		a.questionnaireEditor.Blur()
		a.nameInput.SetValue("")
		a.questionnaireEditor.SetValue("")
		a.setStatus(fmt.Sprintf("Created %s (%d questions).", m.result.Project.Name, m.result.QuestionsCreated), false)
		return a, tea.Batch(a.refreshProjectsCmd(), a.loadProjectCmd(m.result.Project.ID))

	case generateQueuedMsg:
		a.busy["generate"] = false
		if m.err != nil {
			return a, a.fail("Failed to queue generation", m.err)
		}
		a.setStatus("Answer generation queued.", false)
		return a, nil

	case reviewSavedMsg:
		a.busy["save"] = false
		if m.err != nil {
			return a, a.fail("Failed to save review", m.err)
		}
		a.mode = modeNormal
		a.editingAnswerID = ""
		a.answerEditor.Blur()
		a.setStatus("Review saved.", false)
		return a, nil

	case evalDoneMsg:
		a.busy["evaluate"] = false
		if m.err != nil {
			return a, a.fail("Evaluation failed", m.err)
		}
		a.metrics = renderMetrics(m.result)
		a.setStatus("Evaluation completed.", false)
		return a, nil

	case generationEventMsg:
		return a.handleGenerationEvent(GenerationEvent(m))

	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleGenerationEvent(event GenerationEvent) (tea.Model, tea.Cmd) {
	listen := listenGeneration(a.deps.Events)
	switch event.Kind {
	case GenerationProgressed:
		a.setStatus("Generating answers...", false)
	case GenerationDone:
		a.refreshEvalRows()
		a.clampCursors()
		a.setStatus("Generation finished.", false)
	case GenerationErrored:
		a.setStatus(errorMessage("Failed to refresh project status", event.Err), true)
	}
	return a, listen
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case modeEditAnswer:
		return a.handleAnswerEditKey(msg)
	case modeEditGroundTruth:
		return a.handleGroundTruthKey(msg)
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeCreateProject:
		return a.handleCreateKey(msg)
	case modeUploadPath:
		return a.handleUploadKey(msg)
	}
	return a.handleNormalKey(msg)
}

func (a *App) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "tab":
		a.pane = (a.pane + 1) % 4
		return a, nil
	case "shift+tab":
		a.pane = (a.pane + 3) % 4
		return a, nil
	}
	switch a.pane {
	case paneProjects:
		return a.handleProjectsKey(msg)
	case paneDocuments:
		return a.handleDocumentsKey(msg)
	case paneReview:
		return a.handleReviewKey(msg)
	case paneEvaluation:
		return a.handleEvaluationKey(msg)
	}
	return a, nil
}

func (a *App) handleProjectsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	projects := a.deps.Session.Projects()
	switch msg.String() {
	case "j", "down":
		a.projectCursor = clamp(a.projectCursor+1, len(projects))
	case "k", "up":
		a.projectCursor = clamp(a.projectCursor-1, len(projects))
	case "enter":
		if a.projectCursor < len(projects) {
			a.busy["load"] = true
			a.setStatus("Loading project...", false)
			return a, a.loadProjectCmd(projects[a.projectCursor].ID)
		}
	case "r":
		a.busy["projects"] = true
		return a, a.refreshProjectsCmd()
	case "n":
		a.mode = modeCreateProject
		a.createFocusBody = false
		return a, a.nameInput.Focus()
	case "g":
		return a.queueGeneration()
	}
	return a, nil
}

func (a *App) handleDocumentsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	documents := a.deps.Session.Documents()
	switch msg.String() {
	case "j", "down":
		a.documentCursor = clamp(a.documentCursor+1, len(documents))
	case "k", "up":
		a.documentCursor = clamp(a.documentCursor-1, len(documents))
	case "r":
		a.busy["documents"] = true
		return a, a.refreshDocumentsCmd()
	case "u":
		a.mode = modeUploadPath
		return a, a.uploadInput.Focus()
	case "s":
		if a.deps.Session.Scope() == api.ScopeSelectedDocs {
			a.deps.Session.SetScope(api.ScopeAllDocs)
		} else {
			a.deps.Session.SetScope(api.ScopeSelectedDocs)
		}
	case " ":
		if a.deps.Session.Scope() == api.ScopeSelectedDocs && a.documentCursor < len(documents) {
			id := documents[a.documentCursor].ID
			a.deps.Session.ToggleDocument(id, !a.deps.Session.DocumentSelected(id))
		}
	case "a":
		a.deps.Session.SelectAllDocuments()
	case "x":
		a.deps.Session.ClearDocuments()
	}
	return a, nil
}

func (a *App) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	answers := a.deps.Session.SortedAnswers()
	switch msg.String() {
	case "j", "down":
		a.answerCursor = clamp(a.answerCursor+1, len(answers))
	case "k", "up":
		a.answerCursor = clamp(a.answerCursor-1, len(answers))
	case "enter":
		if a.answerCursor < len(answers) {
			answer := answers[a.answerCursor]
			a.mode = modeEditAnswer
			a.editingAnswerID = answer.ID
			a.answerEditor.SetValue(answer.ManualAnswerText)
			a.statusIndex = statusIndexOf(answer.Status)
			return a, a.answerEditor.Focus()
		}
	case "r":
		if id := a.deps.Session.CurrentProjectID(); id != "" {
			a.busy["load"] = true
			return a, a.loadProjectCmd(id)
		}
	case "g":
		return a.queueGeneration()
	}
	return a, nil
}

func (a *App) handleEvaluationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		a.evalCursor = clamp(a.evalCursor+1, len(a.evalRows))
	case "k", "up":
		a.evalCursor = clamp(a.evalCursor-1, len(a.evalRows))
	case " ":
		if a.evalCursor < len(a.evalRows) {
			row := a.evalRows[a.evalCursor]
			a.deps.Session.ToggleInclude(row.Question.ID, !row.Included)
			a.refreshEvalRows()
		}
	case "enter":
		if a.evalCursor < len(a.evalRows) {
			a.mode = modeEditGroundTruth
			a.groundTruthEditor.SetValue(a.evalRows[a.evalCursor].GroundTruth)
			return a, a.groundTruthEditor.Focus()
		}
	case "/":
		a.mode = modeSearch
		return a, a.searchInput.Focus()
	case "a":
		ids := make([]string, len(a.evalRows))
		for i, row := range a.evalRows {
			ids[i] = row.Question.ID
		}
		a.deps.Session.IncludeQuestions(ids)
		a.refreshEvalRows()
	case "x":
		a.deps.Session.ClearIncluded()
		a.refreshEvalRows()
	case "R":
		projectID := a.deps.Session.CurrentProjectID()
		if projectID == "" {
			a.setStatus("Select a project first.", true)
			return a, nil
		}
		a.busy["evaluate"] = true
		a.setStatus("Running evaluation...", false)
		return a, a.runEvaluationCmd(projectID)
	}
	return a, nil
}

func (a *App) handleAnswerEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.editingAnswerID = ""
		a.answerEditor.Blur()
		return a, nil
	case "ctrl+n":
		a.statusIndex = (a.statusIndex + 1) % len(api.ReviewStatuses)
		return a, nil
	case "ctrl+p":
		a.statusIndex = (a.statusIndex + len(api.ReviewStatuses) - 1) % len(api.ReviewStatuses)
		return a, nil
	case "ctrl+s":
		a.busy["save"] = true
		a.setStatus("Saving review...", false)
		return a, a.saveReviewCmd(a.editingAnswerID, a.answerEditor.Value(), api.ReviewStatuses[a.statusIndex])
	}
	var cmd tea.Cmd
	a.answerEditor, cmd = a.answerEditor.Update(msg)
	return a, cmd
}

func (a *App) handleGroundTruthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.groundTruthEditor.Blur()
		return a, nil
	case "ctrl+s":
		if a.evalCursor < len(a.evalRows) {
			a.deps.Session.SetGroundTruth(a.evalRows[a.evalCursor].Question.ID, a.groundTruthEditor.Value())
		}
		a.mode = modeNormal
		a.groundTruthEditor.Blur()
		a.refreshEvalRows()
		return a, nil
	}
	var cmd tea.Cmd
	a.groundTruthEditor, cmd = a.groundTruthEditor.Update(msg)
	return a, cmd
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.searchInput.SetValue("")
		a.mode = modeNormal
		a.searchInput.Blur()
		a.refreshEvalRows()
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	a.refreshEvalRows()
	return a, cmd
}

func (a *App) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.nameInput.Blur()
		a.questionnaireEditor.Blur()
		return a, nil
	case "tab":
		a.createFocusBody = !a.createFocusBody
		if a.createFocusBody {
			a.nameInput.Blur()
			return a, a.questionnaireEditor.Focus()
		}
		a.questionnaireEditor.Blur()
		return a, a.nameInput.Focus()
	case "ctrl+g":
		a.createAutoGenerate = !a.createAutoGenerate
		return a, nil
	case "ctrl+s":
		a.busy["create"] = true
		a.setStatus("Creating project...", false)
		return a, a.createProjectCmd(a.nameInput.Value(), a.questionnaireEditor.Value(), a.createAutoGenerate)
	}
	var cmd tea.Cmd
	if a.createFocusBody {
		a.questionnaireEditor, cmd = a.questionnaireEditor.Update(msg)
	} else {
		a.nameInput, cmd = a.nameInput.Update(msg)
	}
	return a, cmd
}

func (a *App) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.uploadInput.Blur()
		return a, nil
	case "enter":
		path := strings.TrimSpace(a.uploadInput.Value())
		if path == "" {
			return a, nil
		}
		a.mode = modeNormal
		a.uploadInput.Blur()
		a.uploadInput.SetValue("")
		a.busy["upload"] = true
		a.setStatus("Uploading document...", false)
		return a, a.uploadCmd(path)
	}
	var cmd tea.Cmd
	a.uploadInput, cmd = a.uploadInput.Update(msg)
	return a, cmd
}

func (a *App) queueGeneration() (tea.Model, tea.Cmd) {
	projectID := a.deps.Session.CurrentProjectID()
	if projectID == "" {
		a.setStatus("Select a project first.", true)
		return a, nil
	}
	a.busy["generate"] = true
	a.setStatus("Requesting generation...", false)
	return a, a.generateCmd(projectID)
}

func (a *App) refreshEvalRows() {
	a.evalRows = a.deps.Session.EvaluationRows(a.searchInput.Value())
	a.evalCursor = clamp(a.evalCursor, len(a.evalRows))
}

func (a *App) clampCursors() {
	a.projectCursor = clamp(a.projectCursor, len(a.deps.Session.Projects()))
	a.documentCursor = clamp(a.documentCursor, len(a.deps.Session.Documents()))
	a.answerCursor = clamp(a.answerCursor, len(a.deps.Session.Answers()))
	a.evalCursor = clamp(a.evalCursor, len(a.evalRows))
}

func (a *App) setStatus(message string, isErr bool) {
	a.statusMsg = message
	a.statusErr = isErr
}

// fail keeps all pane state intact; the failure only lands on the
// status line so the user can retry from where they were.
func (a *App) fail(prefix string, err error) tea.Cmd {
	a.log.Warn(prefix, zap.Error(err))
	a.setStatus(errorMessage(prefix, err), true)
	return nil
}

func errorMessage(prefix string, err error) string {
	if err == nil {
		return prefix
	}
	return fmt.Sprintf("%s: %v", prefix, err)
}

func statusIndexOf(status api.AnswerStatus) int {
	for i, s := range api.ReviewStatuses {
		if s == status {
			return i
		}
	}
	return 0
}

func clamp(v, length int) int {
	if length == 0 {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v >= length {
		return length - 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
