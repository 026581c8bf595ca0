package tools

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/casestore"
	"github.com/HendryAvila/apply-wizard/internal/pages/apply"
	"github.com/HendryAvila/apply-wizard/internal/pages/assess"
	"github.com/HendryAvila/apply-wizard/internal/refdata"
	"github.com/HendryAvila/apply-wizard/internal/snapshot"
	"github.com/HendryAvila/apply-wizard/internal/wizard"
)

// --- Test helpers ---

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// newTestControllers wires both forms over a SQLite store in a temp dir.
func newTestControllers(t *testing.T) (Controllers, *casestore.SQLiteStore) {
	t.Helper()
	store, err := casestore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	deps := wizard.Deps{
		Store:     store,
		Snapshots: snapshot.NewMemoryStore(time.Minute),
		Services:  refdata.NewServices(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	assessDeps := deps
	assessDeps.Store = store.Assessments()
	assessDeps.Notes = store.Assessments()
	return Controllers{
		apply.Name:  wizard.New(apply.Form, deps),
		assess.Name: wizard.New(assess.Form, assessDeps),
	}, store
}

func call(t *testing.T, handle func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	return result
}

// startApplication runs apply_start and returns the new id.
func startApplication(t *testing.T, forms Controllers, store *casestore.SQLiteStore) string {
	t.Helper()
	result := call(t, NewStartTool(forms).Handle, map[string]interface{}{"crn": "X320741"})
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}
	text := getResultText(result)
	_, rest, ok := strings.Cut(text, "**ID:** `")
	if !ok {
		t.Fatalf("no id in result: %s", text)
	}
	id, _, _ := strings.Cut(rest, "`")
	if _, err := store.Find(context.Background(), id); err != nil {
		t.Fatalf("started application not stored: %v", err)
	}
	return id
}

// completeTasks saves an answer in every apply task that has none yet,
// leaving the review task alone.
func completeTasks(t *testing.T, store *casestore.SQLiteStore, id string) {
	t.Helper()
	ctx := context.Background()
	app, err := store.Find(ctx, id)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	for _, section := range apply.Form.Sections {
		for _, task := range section.Tasks {
			if apply.Form.IsReviewTask(task.Slug) || app.Data.HasTask(task.Slug) {
				continue
			}
			app.Data.Set(task.Slug, task.Pages[0].Slug, application.Body{})
		}
	}
	if err := store.Update(ctx, app); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

// submitApplication drives an application through review and submission.
func submitApplication(t *testing.T, forms Controllers, store *casestore.SQLiteStore) string {
	t.Helper()
	id := startApplication(t, forms, store)
	completeTasks(t, store, id)
	result := call(t, NewSavePageTool(forms).Handle, map[string]interface{}{
		"application_id": id, "task": "check-your-answers", "page": "review",
		"input": map[string]interface{}{"reviewed": "1"},
	})
	if isErrorResult(result) {
		t.Fatalf("review save failed: %s", getResultText(result))
	}
	if result := call(t, NewSubmitTool(forms).Handle, map[string]interface{}{"application_id": id}); isErrorResult(result) {
		t.Fatalf("submit failed: %s", getResultText(result))
	}
	return id
}

// --- Definitions ---

func TestToolDefinitions(t *testing.T) {
	forms, _ := newTestControllers(t)
	tests := []struct {
		name string
		def  mcp.Tool
	}{
		{"apply_start", NewStartTool(forms).Definition()},
		{"apply_task_list", NewTaskListTool(forms).Definition()},
		{"apply_show_page", NewShowPageTool(forms).Definition()},
		{"apply_save_page", NewSavePageTool(forms).Definition()},
		{"apply_check_answers", NewCheckAnswersTool(forms).Definition()},
		{"apply_submit", NewSubmitTool(forms).Definition()},
		{"apply_view_submitted", NewViewSubmittedTool(forms).Definition()},
	}
	for _, tt := range tests {
		if tt.def.Name != tt.name {
			t.Errorf("name = %q, want %q", tt.def.Name, tt.name)
		}
		if tt.def.Description == "" {
			t.Errorf("%s has no description", tt.name)
		}
	}
}

func TestControllers_Names(t *testing.T) {
	forms, _ := newTestControllers(t)
	got := forms.Names()
	if len(got) != 2 || got[0] != "apply" || got[1] != "assess" {
		t.Errorf("Names() = %v", got)
	}
}

// --- StartTool ---

func TestStartTool_RequiresCRN(t *testing.T) {
	forms, _ := newTestControllers(t)
	result := call(t, NewStartTool(forms).Handle, map[string]interface{}{})
	if !isErrorResult(result) {
		t.Error("should return error when crn is missing")
	}
}

func TestStartTool_UnknownForm(t *testing.T) {
	forms, _ := newTestControllers(t)
	result := call(t, NewStartTool(forms).Handle, map[string]interface{}{"crn": "X1", "form": "nope"})
	if !isErrorResult(result) {
		t.Error("should return error for an unknown form")
	}
}

func TestStartTool_PointsAtFirstPage(t *testing.T) {
	forms, _ := newTestControllers(t)
	result := call(t, NewStartTool(forms).Handle, map[string]interface{}{"crn": "X320741"})
	text := getResultText(result)
	if !strings.Contains(text, "Application Started") {
		t.Errorf("missing header: %s", text)
	}
	if !strings.Contains(text, "/tasks/basic-information/pages/transgender") {
		t.Errorf("should point at the first page: %s", text)
	}
}

// --- Page tools ---

func TestShowPageTool_UnknownPage(t *testing.T) {
	forms, store := newTestControllers(t)
	id := startApplication(t, forms, store)

	result := call(t, NewShowPageTool(forms).Handle, map[string]interface{}{
		"application_id": id, "task": "basic-information", "page": "nope",
	})
	if !isErrorResult(result) {
		t.Fatal("expected tool error for unknown page")
	}
	if !strings.Contains(getResultText(result), "unknown page") {
		t.Errorf("unexpected message: %s", getResultText(result))
	}
}

func TestShowPageTool_MissingApplication(t *testing.T) {
	forms, _ := newTestControllers(t)
	result := call(t, NewShowPageTool(forms).Handle, map[string]interface{}{
		"application_id": "ghost", "task": "basic-information", "page": "transgender",
	})
	if !isErrorResult(result) {
		t.Error("expected tool error for a missing application")
	}
}

func TestSavePageTool_InvalidThenShowErrorsOnce(t *testing.T) {
	forms, store := newTestControllers(t)
	id := startApplication(t, forms, store)
	page := map[string]interface{}{
		"application_id": id, "task": "basic-information", "page": "transgender", "session_id": "s1",
	}

	save := map[string]interface{}{"input": map[string]interface{}{}}
	for k, v := range page {
		save[k] = v
	}
	result := call(t, NewSavePageTool(forms).Handle, save)
	text := getResultText(result)
	if !strings.Contains(text, "Page Not Saved") || !strings.Contains(text, "transgenderOrHasTransgenderHistory") {
		t.Errorf("expected validation errors, got: %s", text)
	}

	shown := getResultText(call(t, NewShowPageTool(forms).Handle, page))
	if !strings.Contains(shown, "There is a problem") {
		t.Errorf("first show should carry the errors: %s", shown)
	}
	shown = getResultText(call(t, NewShowPageTool(forms).Handle, page))
	if strings.Contains(shown, "There is a problem") {
		t.Errorf("second show should be clean: %s", shown)
	}
}

func TestSavePageTool_AcceptsJSONStringInput(t *testing.T) {
	forms, store := newTestControllers(t)
	id := startApplication(t, forms, store)

	result := call(t, NewSavePageTool(forms).Handle, map[string]interface{}{
		"application_id": id, "task": "basic-information", "page": "transgender",
		"input": `{"transgenderOrHasTransgenderHistory": "yes"}`,
	})
	text := getResultText(result)
	if !strings.Contains(text, "Page Saved") || !strings.Contains(text, "complex-case-board") {
		t.Errorf("expected save to route to complex-case-board, got: %s", text)
	}
}

func TestSavePageTool_RejectsBadInput(t *testing.T) {
	forms, store := newTestControllers(t)
	id := startApplication(t, forms, store)

	for _, input := range []interface{}{nil, "not json", 42.0} {
		args := map[string]interface{}{"application_id": id, "task": "basic-information", "page": "transgender"}
		if input != nil {
			args["input"] = input
		}
		if result := call(t, NewSavePageTool(forms).Handle, args); !isErrorResult(result) {
			t.Errorf("input %v: expected tool error", input)
		}
	}
}

func TestSavePageTool_InformationRequest(t *testing.T) {
	forms, store := newTestControllers(t)
	id := submitApplication(t, forms, store)

	result := call(t, NewSavePageTool(forms).Handle, map[string]interface{}{
		"form": "assess", "application_id": id, "task": "review-application", "page": "sufficient-information",
		"actor": "assessor-1",
		"input": map[string]interface{}{"sufficientInformation": "no", "query": "Which prison?"},
	})
	text := getResultText(result)
	if !strings.Contains(text, "Information Requested") || !strings.Contains(text, "/information-request/confirmation") {
		t.Fatalf("expected information request, got: %s", text)
	}

	notes, err := store.Notes(context.Background(), id)
	if err != nil {
		t.Fatalf("Notes: %v", err)
	}
	if len(notes) != 1 || notes[0].CreatedBy != "assessor-1" {
		t.Errorf("notes = %+v", notes)
	}

	app, err := store.Find(context.Background(), id)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if app.Status != application.StatusSubmitted {
		t.Errorf("application status = %s, want submitted", app.Status)
	}
}

func TestAssess_RequiresSubmittedApplication(t *testing.T) {
	forms, store := newTestControllers(t)
	id := startApplication(t, forms, store)

	result := call(t, NewShowPageTool(forms).Handle, map[string]interface{}{
		"form": "assess", "application_id": id, "task": "review-application", "page": "review",
	})
	if !isErrorResult(result) || !strings.Contains(getResultText(result), "not been submitted") {
		t.Errorf("expected not-submitted error, got: %s", getResultText(result))
	}

	result = call(t, NewStartTool(forms).Handle, map[string]interface{}{"form": "assess", "crn": "X1"})
	if !isErrorResult(result) {
		t.Errorf("assessments are not started directly: %s", getResultText(result))
	}
}

func TestAssess_KeepsItsOwnAnswers(t *testing.T) {
	forms, store := newTestControllers(t)
	id := submitApplication(t, forms, store)
	save := NewSavePageTool(forms).Handle

	result := call(t, save, map[string]interface{}{
		"form": "assess", "application_id": id, "task": "check-your-answers", "page": "review",
		"input": map[string]interface{}{"reviewed": "1"},
	})
	if !isErrorResult(result) || !strings.Contains(getResultText(result), "incomplete") {
		t.Errorf("assess review before its tasks are done should fail: %s", getResultText(result))
	}

	result = call(t, save, map[string]interface{}{
		"form": "assess", "application_id": id, "task": "review-application", "page": "review",
		"input": map[string]interface{}{"reviewed": "yes"},
	})
	if isErrorResult(result) || !strings.Contains(getResultText(result), "Page Saved") {
		t.Fatalf("assess save failed: %s", getResultText(result))
	}

	list := getResultText(call(t, NewTaskListTool(forms).Handle, map[string]interface{}{"form": "assess", "application_id": id}))
	if !strings.Contains(list, "| Check your answers (`check-your-answers`) | Not started |") {
		t.Errorf("the application's review should not complete the assessment: %s", list)
	}

	app, err := store.Find(context.Background(), id)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if app.Data.HasTask("review-application") {
		t.Error("assessment answers leaked into the application")
	}
	if !app.Data.HasTask("check-your-answers") || app.Status != application.StatusSubmitted {
		t.Errorf("application changed: status %s, data %v", app.Status, app.Data.Tasks())
	}

	applyList := getResultText(call(t, NewTaskListTool(forms).Handle, map[string]interface{}{"application_id": id}))
	if !strings.Contains(applyList, "| Check your answers (`check-your-answers`) | Completed |") {
		t.Errorf("the application's review should stay complete: %s", applyList)
	}
}

// --- Full journey ---

func TestJourney_SaveReviewSubmit(t *testing.T) {
	forms, store := newTestControllers(t)
	id := startApplication(t, forms, store)
	save := NewSavePageTool(forms).Handle

	result := call(t, save, map[string]interface{}{
		"application_id": id, "task": "basic-information", "page": "transgender",
		"input": map[string]interface{}{"transgenderOrHasTransgenderHistory": "no"},
	})
	if isErrorResult(result) {
		t.Fatalf("save failed: %s", getResultText(result))
	}

	list := getResultText(call(t, NewTaskListTool(forms).Handle, map[string]interface{}{"application_id": id}))
	if !strings.Contains(list, "You have completed 0 of 5 sections") {
		t.Errorf("unexpected summary: %s", list)
	}
	if !strings.Contains(list, "| Basic information (`basic-information`) | Completed |") {
		t.Errorf("basic information should be completed: %s", list)
	}

	answers := getResultText(call(t, NewCheckAnswersTool(forms).Handle, map[string]interface{}{"application_id": id}))
	if !strings.Contains(answers, "transgender history?**: No ([change](") {
		t.Errorf("answers should list the saved page with a change link: %s", answers)
	}

	result = call(t, NewSubmitTool(forms).Handle, map[string]interface{}{"application_id": id})
	if !isErrorResult(result) || !strings.Contains(getResultText(result), "type-of-ap") {
		t.Fatalf("submit with incomplete tasks should fail: %s", getResultText(result))
	}

	result = call(t, save, map[string]interface{}{
		"application_id": id, "task": "check-your-answers", "page": "review",
		"input": map[string]interface{}{"reviewed": "1"},
	})
	if !isErrorResult(result) || !strings.Contains(getResultText(result), "Complete every task") {
		t.Fatalf("review with incomplete tasks should fail: %s", getResultText(result))
	}

	completeTasks(t, store, id)
	result = call(t, NewSubmitTool(forms).Handle, map[string]interface{}{"application_id": id})
	if !isErrorResult(result) || !strings.Contains(getResultText(result), "Check your answers") {
		t.Fatalf("submit before review should fail: %s", getResultText(result))
	}

	result = call(t, save, map[string]interface{}{
		"application_id": id, "task": "check-your-answers", "page": "review",
		"input": map[string]interface{}{"reviewed": "1"},
	})
	if isErrorResult(result) {
		t.Fatalf("review save failed: %s", getResultText(result))
	}

	result = call(t, NewSubmitTool(forms).Handle, map[string]interface{}{"application_id": id})
	if text := getResultText(result); isErrorResult(result) || !strings.Contains(text, "Application Submitted") {
		t.Fatalf("submit failed: %s", text)
	}

	submitted := getResultText(call(t, NewViewSubmittedTool(forms).Handle, map[string]interface{}{"application_id": id}))
	if !strings.Contains(submitted, "(submitted)") || strings.Contains(submitted, "[change]") {
		t.Errorf("submitted view should be read-only: %s", submitted)
	}

	result = call(t, save, map[string]interface{}{
		"application_id": id, "task": "basic-information", "page": "transgender",
		"input": map[string]interface{}{"transgenderOrHasTransgenderHistory": "yes"},
	})
	if !isErrorResult(result) || !strings.Contains(getResultText(result), "cannot be changed") {
		t.Errorf("saving a submitted application should fail: %s", getResultText(result))
	}
}
