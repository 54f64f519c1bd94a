package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Documents lists every uploaded document.
func (c *Client) Documents(ctx context.Context) ([]Document, error) {
	var docs []Document
	if err := c.getJSON(ctx, "/documents", &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UploadDocument streams a file to the backend, which parses and indexes it
// in the background.
func (c *Client) UploadDocument(ctx context.Context, filename string, contents io.Reader) (Document, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return Document{}, fmt.Errorf("api: build upload form: %w", err)
	}
	if _, err := io.Copy(part, contents); err != nil {
		return Document{}, fmt.Errorf("api: read upload contents: %w", err)
	}
	if err := form.Close(); err != nil {
		return Document{}, fmt.Errorf("api: finalize upload form: %w", err)
	}
	var doc Document
	if err := c.do(ctx, http.MethodPost, "/documents", form.FormDataContentType(), &buf, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Projects lists all projects.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.getJSON(ctx, "/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject creates a project plus its questionnaire in one call.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (CreateProjectResult, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":               req.Name,
		"scope":              string(req.Scope),
		"document_ids":       strings.Join(req.DocumentIDs, ","),
		"auto_generate":      strconv.FormatBool(req.AutoGenerate),
		"questionnaire_text": req.QuestionnaireText,
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return CreateProjectResult{}, fmt.Errorf("api: build project form: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return CreateProjectResult{}, fmt.Errorf("api: finalize project form: %w", err)
	}
	var result CreateProjectResult
	if err := c.do(ctx, http.MethodPost, "/projects", form.FormDataContentType(), &buf, &result); err != nil {
		return CreateProjectResult{}, err
	}
	return result, nil
}

// Project fetches one project's current detail.
func (c *Client) Project(ctx context.Context, projectID string) (Project, error) {
	var project Project
	if err := c.getJSON(ctx, "/projects/"+url.PathEscape(projectID), &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// Questions lists a project's questionnaire.
func (c *Client) Questions(ctx context.Context, projectID string) ([]Question, error) {
	var questions []Question
	if err := c.getJSON(ctx, "/projects/"+url.PathEscape(projectID)+"/questions", &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Answers lists a project's answers.
func (c *Client) Answers(ctx context.Context, projectID string) ([]Answer, error) {
	var answers []Answer
	if err := c.getJSON(ctx, "/projects/"+url.PathEscape(projectID)+"/answers", &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// GenerateAnswers asks the backend to start answer generation. The work is
// asynchronous; callers poll project status to observe completion.
func (c *Client) GenerateAnswers(ctx context.Context, projectID string) error {
	return c.do(ctx, http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/generate", "", nil, nil)
}

// SaveReview submits a reviewer's edit and returns the canonical updated
// answer as the backend stored it.
func (c *Client) SaveReview(ctx context.Context, answerID string, update ReviewUpdate) (Answer, error) {
	var answer Answer
	if err := c.sendJSON(ctx, http.MethodPatch, "/answers/"+url.PathEscape(answerID)+"/review", update, &answer); err != nil {
		return Answer{}, err
	}
	return answer, nil
}

// Evaluate scores a project's answers against reviewer-supplied ground truth.
func (c *Client) Evaluate(ctx context.Context, projectID string, groundTruth []GroundTruthEntry) (EvaluationResult, error) {
	body := struct {
		GroundTruth []GroundTruthEntry `json:"ground_truth"`
	}{GroundTruth: groundTruth}
	var result EvaluationResult
	if err := c.sendJSON(ctx, http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/evaluate", body, &result); err != nil {
		return EvaluationResult{}, err
	}
	return result, nil
}
