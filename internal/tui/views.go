package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/docqa-tools/reviewdeck/internal/api"
)

// View renders the whole screen from model state.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ReviewDeck"))
	b.WriteString("\n")
	b.WriteString(a.renderTabs())
	b.WriteString("\n\n")

	switch a.mode {
	case modeCreateProject:
		b.WriteString(a.renderCreateForm())
	case modeUploadPath:
		b.WriteString(a.renderUploadPrompt())
	default:
		switch a.pane {
		case paneProjects:
			b.WriteString(a.renderProjects())
		case paneDocuments:
			b.WriteString(a.renderDocuments())
		case paneReview:
			b.WriteString(a.renderReview())
		case paneEvaluation:
			b.WriteString(a.renderEvaluation())
		}
	}

	b.WriteString("\n")
	b.WriteString(a.renderStatusLine())
	return b.String()
}

func (a *App) renderTabs() string {
	tabs := make([]string, 0, 4)
	for p := paneProjects; p <= paneEvaluation; p++ {
		label := " " + paneNames[p] + " "
		if p == a.pane {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) renderProjects() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Projects"))
	b.WriteString("\n")

	projects := a.deps.Session.Projects()
	if len(projects) == 0 {
		b.WriteString(helperStyle.Render("No projects yet. Press n to create one."))
		b.WriteString("\n")
	}
	current := a.deps.Session.CurrentProjectID()
	for i, p := range projects {
		marker := "  "
		if p.ID == current {
			marker = "* "
		}
		line := fmt.Sprintf("%s%-30s %s  %s", marker, truncate(p.Name, 30), statusPill(string(p.Status)), formatDate(p.CreatedAt))
		if i == a.projectCursor {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helperStyle.Render("enter load  n new  g generate  r refresh  tab next pane  q quit"))
	return b.String()
}

func (a *App) renderDocuments() string {
	var b strings.Builder
	scope := a.deps.Session.Scope()
	b.WriteString(paneTitleStyle.Render(fmt.Sprintf("Documents (scope: %s)", scope)))
	b.WriteString("\n")

	documents := a.deps.Session.Documents()
	if len(documents) == 0 {
		b.WriteString(helperStyle.Render("No documents uploaded. Press u to upload."))
		b.WriteString("\n")
	}
	for i, d := range documents {
		check := "   "
		if scope == api.ScopeSelectedDocs {
			if a.deps.Session.DocumentSelected(d.ID) {
				check = "[x] "
			} else {
				check = "[ ] "
			}
		}
		line := fmt.Sprintf("%s%-36s %s  %s", check, truncate(d.Filename, 36), statusPill(string(d.Status)), formatDate(d.CreatedAt))
		if i == a.documentCursor {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	help := "u upload  s toggle scope  r refresh"
	if scope == api.ScopeSelectedDocs {
		help = "space select  a all  x none  " + help
	}
	b.WriteString(helperStyle.Render(help))
	return b.String()
}

func (a *App) renderReview() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Review"))
	b.WriteString("\n")

	answers := a.deps.Session.SortedAnswers()
	if a.deps.Session.CurrentProjectID() == "" {
		b.WriteString(helperStyle.Render("Load a project from the Projects pane first."))
		return b.String()
	}
	if len(answers) == 0 {
		b.WriteString(helperStyle.Render("No answers yet. Press g to generate."))
		return b.String()
	}

	for i, ans := range answers {
		question, _ := a.deps.Session.QuestionByID(ans.QuestionID)
		prefix := fmt.Sprintf("%2d. ", question.OrderIndex+1)
		line := prefix + truncate(question.Text, 60) + "  " + statusPill(string(ans.Status))
		if i == a.answerCursor {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if a.answerCursor < len(answers) {
		b.WriteString("\n")
		b.WriteString(a.renderAnswerDetail(answers[a.answerCursor]))
	}

	b.WriteString("\n")
	if a.mode == modeEditAnswer {
		b.WriteString(boxStyle.Render(
			fmt.Sprintf("Status: %s\n%s", statusPill(string(api.ReviewStatuses[a.statusIndex])), a.answerEditor.View())))
		b.WriteString("\n")
		b.WriteString(helperStyle.Render("ctrl+s save  ctrl+n/ctrl+p cycle status  esc cancel"))
	} else {
		b.WriteString(helperStyle.Render("enter edit  g generate  r reload"))
	}
	return b.String()
}

func (a *App) renderAnswerDetail(ans api.Answer) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("AI answer (confidence %s, answerable %s):\n",
		formatConfidence(ans.AIConfidence), formatAnswerable(ans.AIAnswerable)))
	if ans.AIAnswerText == "" {
		b.WriteString(helperStyle.Render("  (none)"))
		b.WriteString("\n")
	} else {
		b.WriteString("  " + truncate(ans.AIAnswerText, 200))
		b.WriteString("\n")
	}
	for _, c := range ans.AICitations {
		page := ""
		if c.Page != nil {
			page = fmt.Sprintf(" p.%d", *c.Page)
		}
		b.WriteString(helperStyle.Render(fmt.Sprintf("  [%s%s] %s", shortID(c.DocumentID), page, truncate(c.TextSnippet, 80))))
		b.WriteString("\n")
	}
	if ans.ManualAnswerText != "" {
		b.WriteString("Manual answer:\n  " + truncate(ans.ManualAnswerText, 200))
		b.WriteString("\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (a *App) renderEvaluation() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Evaluation"))
	b.WriteString("\n")

	if a.deps.Session.CurrentProjectID() == "" {
		b.WriteString(helperStyle.Render("Load a project from the Projects pane first."))
		return b.String()
	}
	if query := a.searchInput.Value(); query != "" || a.mode == modeSearch {
		b.WriteString("Filter: " + a.searchInput.View())
		b.WriteString("\n")
	}
	if len(a.evalRows) == 0 {
		b.WriteString(helperStyle.Render("No questions match."))
		b.WriteString("\n")
	}
	for i, row := range a.evalRows {
		check := "[ ] "
		if row.Included {
			check = "[x] "
		}
		gt := helperStyle.Render("(no ground truth)")
		if strings.TrimSpace(row.GroundTruth) != "" {
			gt = truncate(row.GroundTruth, 40)
		}
		line := fmt.Sprintf("%s%-50s %s", check, truncate(row.Question.Text, 50), gt)
		if i == a.evalCursor {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if a.mode == modeEditGroundTruth {
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(a.groundTruthEditor.View()))
		b.WriteString("\n")
		b.WriteString(helperStyle.Render("ctrl+s save  esc cancel"))
		return b.String()
	}

	if a.metrics != "" {
		b.WriteString("\n")
		b.WriteString(boxStyle.Render("Metrics\n" + a.metrics))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helperStyle.Render("space include  enter edit  / filter  a all  x none  R run"))
	return b.String()
}

func (a *App) renderCreateForm() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("New project"))
	b.WriteString("\n")
	b.WriteString("Name: " + a.nameInput.View())
	b.WriteString("\n\n")
	b.WriteString("Questionnaire:\n" + a.questionnaireEditor.View())
	b.WriteString("\n\n")
	auto := "off"
	if a.createAutoGenerate {
		auto = "on"
	}
	scope := a.deps.Session.Scope()
	selected := len(a.deps.Session.SelectedDocumentIDs())
	b.WriteString(fmt.Sprintf("Scope: %s (%d selected)   Auto-generate: %s\n", scope, selected, auto))
	b.WriteString(helperStyle.Render("tab switch field  ctrl+g toggle auto-generate  ctrl+s create  esc cancel"))
	return b.String()
}

func (a *App) renderUploadPrompt() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Upload document"))
	b.WriteString("\n")
	b.WriteString(a.uploadInput.View())
	b.WriteString("\n")
	b.WriteString(helperStyle.Render("enter upload  esc cancel"))
	return b.String()
}

func (a *App) renderStatusLine() string {
	msg := a.statusMsg
	for _, key := range []string{"load", "generate", "save", "evaluate", "upload", "create"} {
		if a.busy[key] {
			msg = msg + " ..."
			break
		}
	}
	if msg == "" {
		return ""
	}
	if a.statusErr {
		return errorStyle.Render(msg)
	}
	return statusLineStyle.Render(msg)
}

func renderMetrics(result api.EvaluationResult) string {
	data, err := json.MarshalIndent(result.Evaluation.Metrics, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", result.Evaluation.Metrics)
	}
	return string(data)
}

func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
