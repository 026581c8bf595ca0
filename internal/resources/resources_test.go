package resources

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/casestore"
	"github.com/HendryAvila/apply-wizard/internal/pages/apply"
	"github.com/HendryAvila/apply-wizard/internal/refdata"
	"github.com/HendryAvila/apply-wizard/internal/snapshot"
	"github.com/HendryAvila/apply-wizard/internal/wizard"
)

func newHandler(t *testing.T) (*Handler, *casestore.SQLiteStore) {
	t.Helper()
	store, err := casestore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	w := wizard.New(apply.Form, wizard.Deps{
		Store:     store,
		Snapshots: snapshot.NewMemoryStore(time.Minute),
		Services:  refdata.NewServices(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return NewHandler(w), store
}

func read(t *testing.T, h *Handler, uri string) mcp.TextResourceContents {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	contents, err := h.HandleStatus(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleStatus: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("unexpected content type %T", contents[0])
	}
	return text
}

func TestApplicationID(t *testing.T) {
	tests := []struct {
		uri  string
		id   string
		want bool
	}{
		{"apply://applications/abc/status", "abc", true},
		{"apply://applications//status", "", false},
		{"apply://applications/a/b/status", "", false},
		{"sdd://project/status", "", false},
		{"apply://applications/abc", "", false},
	}
	for _, tt := range tests {
		id, ok := applicationID(tt.uri)
		if ok != tt.want || id != tt.id {
			t.Errorf("applicationID(%q) = %q, %v; want %q, %v", tt.uri, id, ok, tt.id, tt.want)
		}
	}
}

func TestHandleStatus(t *testing.T) {
	h, store := newHandler(t)
	ctx := context.Background()
	app, err := store.Create(ctx, "X320741")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	app.Data.Set(apply.TaskBasicInformation, apply.PageTransgender, application.Body{"transgenderOrHasTransgenderHistory": "no"})
	if err := store.Update(ctx, app); err != nil {
		t.Fatalf("Update: %v", err)
	}

	text := read(t, h, "apply://applications/"+app.ID+"/status")
	if text.MIMEType != "application/json" {
		t.Errorf("MIMEType = %q", text.MIMEType)
	}
	var got Status
	if err := json.Unmarshal([]byte(text.Text), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != app.ID || got.Status != "started" || got.ReadOnly {
		t.Errorf("status = %+v", got)
	}
	if got.ReadyForReview {
		t.Error("one task saved is not ready for review")
	}
	if got.TaskList.Sections[0].Tasks[0].Status != "completed" {
		t.Errorf("first task = %+v", got.TaskList.Sections[0].Tasks[0])
	}
	if got.TaskList.Sections[0].Tasks[1].Status != "not_started" {
		t.Errorf("second task = %+v", got.TaskList.Sections[0].Tasks[1])
	}
}

func TestHandleStatus_Errors(t *testing.T) {
	h, _ := newHandler(t)

	text := read(t, h, "apply://applications/ghost/status")
	if text.MIMEType != "text/plain" || !strings.Contains(text.Text, "not found") {
		t.Errorf("missing application: %+v", text)
	}

	text = read(t, h, "apply://nothing")
	if !strings.HasPrefix(text.Text, "Error:") {
		t.Errorf("bad uri: %+v", text)
	}
}
