package api

import "time"

// ProjectScope controls which documents a project draws answers from.
type ProjectScope string

const (
	ScopeAllDocs      ProjectScope = "ALL_DOCS"
	ScopeSelectedDocs ProjectScope = "SELECTED_DOCS"
)

// ProjectStatus is the backend-owned lifecycle state of a project.
type ProjectStatus string

const (
	ProjectCreated    ProjectStatus = "CREATED"
	ProjectParsing    ProjectStatus = "PARSING"
	ProjectReady      ProjectStatus = "READY"
	ProjectGenerating ProjectStatus = "GENERATING"
	ProjectOutdated   ProjectStatus = "OUTDATED"
	ProjectReview     ProjectStatus = "REVIEW"
	ProjectEvaluating ProjectStatus = "EVALUATING"
	ProjectEvaluated  ProjectStatus = "EVALUATED"
	ProjectFailed     ProjectStatus = "FAILED"
)

// DocumentStatus tracks a document through upload, parsing and indexing.
type DocumentStatus string

const (
	DocumentUploaded DocumentStatus = "UPLOADED"
	DocumentParsed   DocumentStatus = "PARSED"
	DocumentIndexed  DocumentStatus = "INDEXED"
	DocumentFailed   DocumentStatus = "FAILED"
)

// AnswerStatus is the reviewer-facing state of a generated answer.
type AnswerStatus string

const (
	AnswerPending       AnswerStatus = "PENDING"
	AnswerGenerated     AnswerStatus = "GENERATED"
	AnswerConfirmed     AnswerStatus = "CONFIRMED"
	AnswerRejected      AnswerStatus = "REJECTED"
	AnswerManualUpdated AnswerStatus = "MANUAL_UPDATED"
	AnswerMissingData   AnswerStatus = "MISSING_DATA"
	AnswerStale         AnswerStatus = "STALE"
)

// ReviewStatuses lists every status a reviewer may assign, in display order.
var ReviewStatuses = []AnswerStatus{
	AnswerPending,
	AnswerGenerated,
	AnswerConfirmed,
	AnswerRejected,
	AnswerManualUpdated,
	AnswerMissingData,
	AnswerStale,
}

// Project is the backend's questionnaire-answering unit. The client holds a
// read-only cached copy; only the backend mutates it.
type Project struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Scope     ProjectScope  `json:"scope"`
	Status    ProjectStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Document is an uploaded source file and its indexing state.
type Document struct {
	ID        string         `json:"id"`
	Filename  string         `json:"filename"`
	Status    DocumentStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// Question belongs to a project. OrderIndex is the stable display and
// evaluation sort key; ties keep the order the backend returned.
type Question struct {
	ID         string `json:"id"`
	ProjectID  string `json:"project_id"`
	Text       string `json:"text"`
	Section    string `json:"section,omitempty"`
	OrderIndex int    `json:"order_index"`
}

// Citation is a backend-supplied evidence snippet tying an AI answer to a
// location in a source document.
type Citation struct {
	DocumentID  string   `json:"document_id"`
	TextSnippet string   `json:"text_snippet"`
	Page        *int     `json:"page"`
	Similarity  *float64 `json:"similarity"`
}

// Answer pairs AI-generated fields with reviewer-owned ones. The client never
// computes the AI fields; it only edits ManualAnswerText and Status.
type Answer struct {
	ID               string       `json:"id"`
	QuestionID       string       `json:"question_id"`
	AIAnswerText     string       `json:"ai_answer_text"`
	AIConfidence     *float64     `json:"ai_confidence"`
	AIAnswerable     *bool        `json:"ai_answerable"`
	AICitations      []Citation   `json:"ai_citations"`
	ManualAnswerText string       `json:"manual_answer_text"`
	Status           AnswerStatus `json:"status"`
}

// CreateProjectRequest carries the multipart fields for POST /projects.
type CreateProjectRequest struct {
	Name              string
	Scope             ProjectScope
	DocumentIDs       []string
	AutoGenerate      bool
	QuestionnaireText string
}

// CreateProjectResult is the backend's response to project creation.
type CreateProjectResult struct {
	Project          Project `json:"project"`
	QuestionsCreated int     `json:"questions_created"`
}

// ReviewUpdate is the body of PATCH /answers/{id}/review.
type ReviewUpdate struct {
	Status           AnswerStatus `json:"status"`
	ManualAnswerText string       `json:"manual_answer_text"`
	ManualAnswerable bool         `json:"manual_answerable"`
}

// GroundTruthEntry is one reviewer-supplied correct answer in an evaluation
// submission.
type GroundTruthEntry struct {
	QuestionID string `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

// EvaluationResult wraps the metrics the backend computed. Metric contents
// are displayed verbatim and never interpreted client-side.
type EvaluationResult struct {
	Evaluation struct {
		Metrics map[string]any `json:"metrics"`
	} `json:"evaluation"`
}
