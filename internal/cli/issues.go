package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dkalnins/trackdesk/internal/models"
)

// List rehydrates the view model and prints the current issue list.
func (a *App) List(ctx context.Context) error {
	if err := a.vm.Hydrate(ctx); err != nil {
		printlnFn("Could not load issues:", err.Error())
		return err
	}
	items := a.vm.Snapshot()
	if len(items) == 0 {
		printlnFn("No issues")
		return nil
	}
	for _, issue := range items {
		printlnFn(formatIssueLine(issue))
	}
	return nil
}

// Show fetches and prints one issue.
func (a *App) Show(ctx context.Context) error {
	id, err := a.promptIssueID()
	if err != nil {
		return err
	}
	issue, err := a.client.GetIssue(ctx, id)
	if err != nil {
		printlnFn("Could not load issue:", err.Error())
		return err
	}

	printlnFn(formatIssueLine(issue))
	if issue.Description != "" {
		printlnFn(issue.Description)
	}
	if issue.FilePath != "" {
		printlnFn("Attachment:", issue.FilePath)
	}
	if len(issue.Tags) > 0 {
		printlnFn("Tags:", strings.Join(issue.Tags, ", "))
	}
	return nil
}

// Create collects the issue fields (plus an optional attachment), encodes
// them as multipart, and submits.
func (a *App) Create(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Description", os.Stdout)
	if err != nil {
		return err
	}
	severity, err := GetSimpleText(a.reader, "Severity (LOW/MEDIUM/HIGH)", os.Stdout)
	if err != nil {
		return err
	}
	priority, err := GetSimpleText(a.reader, "Priority (BLOCKER/CRITICAL/MINOR/TRIVIAL, empty to skip)", os.Stdout)
	if err != nil {
		return err
	}
	tagsLine, err := GetSimpleText(a.reader, "Tags (comma-separated, empty to skip)", os.Stdout)
	if err != nil {
		return err
	}
	filePath, err := GetSimpleText(a.reader, "Attachment path (empty to skip)", os.Stdout)
	if err != nil {
		return err
	}

	form := &models.IssueForm{
		Title:       title,
		Description: description,
		Severity:    models.Severity(strings.ToUpper(severity)),
		Priority:    models.Priority(strings.ToUpper(priority)),
	}
	if tagsLine != "" {
		for _, tag := range strings.Split(tagsLine, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				form.Tags = append(form.Tags, tag)
			}
		}
	}
	if filePath != "" {
		f, err := os.Open(filePath)
		if err != nil {
			printlnFn("Cannot read attachment:", err.Error())
			return err
		}
		defer f.Close()
		form.FileName = filePath
		form.File = f
	}

	payload, contentType, err := form.Encode()
	if err != nil {
		printlnFn("Invalid input:", err.Error())
		return err
	}

	issue, err := a.client.CreateIssue(ctx, payload, contentType)
	if err != nil {
		printlnFn("Create failed:", err.Error())
		return err
	}
	printlnFn("Created:", formatIssueLine(issue))
	return nil
}

// Update changes the status and/or priority of an issue. The backend
// enforces the status workflow; its rejection message is shown verbatim.
func (a *App) Update(ctx context.Context) error {
	id, err := a.promptIssueID()
	if err != nil {
		return err
	}
	status, err := GetSimpleText(a.reader, "New status (OPEN/TRIAGED/IN_PROGRESS/DONE, empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	priority, err := GetSimpleText(a.reader, "New priority (BLOCKER/CRITICAL/MINOR/TRIVIAL, empty to keep)", os.Stdout)
	if err != nil {
		return err
	}

	update := models.IssueUpdate{
		Status:   models.Status(strings.ToUpper(status)),
		Priority: models.Priority(strings.ToUpper(priority)),
	}
	if err := models.Validate(update); err != nil {
		printlnFn("Invalid input:", err.Error())
		return err
	}

	issue, err := a.client.UpdateIssue(ctx, id, update)
	if err != nil {
		printlnFn("Update failed:", err.Error())
		return err
	}
	printlnFn("Updated:", formatIssueLine(issue))
	return nil
}

func (a *App) promptIssueID() (int64, error) {
	raw, err := GetSimpleText(a.reader, "Issue id", os.Stdout)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		printlnFn("Not a valid issue id:", raw)
		return 0, fmt.Errorf("invalid issue id %q", raw)
	}
	return id, nil
}

func formatIssueLine(issue models.Issue) string {
	line := fmt.Sprintf("#%d [%s/%s] %s", issue.ID, issue.Severity, issue.Status, issue.Title)
	if issue.Priority != "" {
		line += fmt.Sprintf(" (%s)", issue.Priority)
	}
	return line
}
