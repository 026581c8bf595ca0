// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete stores and injects
// them into the controllers, tools, prompts and resources. No business
// logic lives here, only wiring.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/apply-wizard/internal/casestore"
	"github.com/HendryAvila/apply-wizard/internal/config"
	"github.com/HendryAvila/apply-wizard/internal/metrics"
	"github.com/HendryAvila/apply-wizard/internal/pages/apply"
	"github.com/HendryAvila/apply-wizard/internal/pages/assess"
	"github.com/HendryAvila/apply-wizard/internal/prompts"
	"github.com/HendryAvila/apply-wizard/internal/refdata"
	"github.com/HendryAvila/apply-wizard/internal/resources"
	"github.com/HendryAvila/apply-wizard/internal/snapshot"
	"github.com/HendryAvila/apply-wizard/internal/tools"
	"github.com/HendryAvila/apply-wizard/internal/wizard"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the databases, the snapshot
// backend and the metrics listener. It is always non-nil.
func New(cfg *config.Config, logger *slog.Logger) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	var closers cleanupStack

	// --- Create shared dependencies ---

	store, err := casestore.Open(cfg.DataDir)
	if err != nil {
		return nil, noop, fmt.Errorf("opening case store: %w", err)
	}
	closers.push("case store", store.Close)

	source, err := refdata.OpenSource(cfg.DataDir)
	if err != nil {
		closers.run()
		return nil, noop, fmt.Errorf("opening reference data: %w", err)
	}
	closers.push("reference data", source.Close)

	if cfg.Seed != "" {
		if err := seedReferenceData(source, cfg.Seed, logger); err != nil {
			closers.run()
			return nil, noop, err
		}
	}
	services := refdata.NewServices()
	source.RegisterAll(services, apply.Services...)

	snapshots := newSnapshotStore(cfg.Snapshots, &closers)

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		closers.push("metrics listener", serveMetrics(cfg.Metrics.Addr, m, logger))
	}

	deps := wizard.Deps{
		Store:     store,
		Snapshots: snapshots,
		Services:  services,
		Metrics:   m,
		Logger:    logger,
	}
	applyWizard := wizard.New(apply.Form, deps)

	// Assessments keep their own record of the submitted application.
	assessments := store.Assessments()
	assessDeps := deps
	assessDeps.Store = assessments
	assessDeps.Notes = assessments

	forms := tools.Controllers{
		apply.Name:  applyWizard,
		assess.Name: wizard.New(assess.Form, assessDeps),
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"apply-wizard",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	startTool := tools.NewStartTool(forms)
	s.AddTool(startTool.Definition(), startTool.Handle)

	taskListTool := tools.NewTaskListTool(forms)
	s.AddTool(taskListTool.Definition(), taskListTool.Handle)

	showPageTool := tools.NewShowPageTool(forms)
	s.AddTool(showPageTool.Definition(), showPageTool.Handle)

	savePageTool := tools.NewSavePageTool(forms)
	s.AddTool(savePageTool.Definition(), savePageTool.Handle)

	checkAnswersTool := tools.NewCheckAnswersTool(forms)
	s.AddTool(checkAnswersTool.Definition(), checkAnswersTool.Handle)

	submitTool := tools.NewSubmitTool(forms)
	s.AddTool(submitTool.Definition(), submitTool.Handle)

	viewSubmittedTool := tools.NewViewSubmittedTool(forms)
	s.AddTool(viewSubmittedTool.Definition(), viewSubmittedTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(applyWizard)
	s.AddResourceTemplate(resourceHandler.StatusTemplate(), resourceHandler.HandleStatus)

	return s, closers.run, nil
}

// noop is the cleanup returned when construction fails.
func noop() {}

type closer struct {
	name string
	fn   func() error
}

// cleanupStack closes resources in reverse order of creation.
type cleanupStack []closer

func (c *cleanupStack) push(name string, fn func() error) {
	*c = append(*c, closer{name: name, fn: fn})
}

func (c *cleanupStack) run() {
	for i := len(*c) - 1; i >= 0; i-- {
		cl := (*c)[i]
		if err := cl.fn(); err != nil {
			log.Printf("WARNING: %s close: %v", cl.name, err)
		}
	}
	*c = nil
}

func seedReferenceData(source *refdata.SQLiteSource, path string, logger *slog.Logger) error {
	seed, err := refdata.LoadSeed(path)
	if err != nil {
		return err
	}
	n, err := seed.Apply(context.Background(), source)
	if err != nil {
		return fmt.Errorf("seeding reference data: %w", err)
	}
	logger.Info("reference data seeded", slog.String("path", path), slog.Int("entries", n))
	return nil
}

// newSnapshotStore picks the configured snapshot backend. An unreachable
// Redis is not fatal: snapshots fall back to process memory.
func newSnapshotStore(cfg config.SnapshotsConfig, closers *cleanupStack) snapshot.Store {
	if cfg.Backend != config.BackendRedis {
		return snapshot.NewMemoryStore(cfg.TTL)
	}
	rs := snapshot.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.TTL)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		log.Printf("WARNING: redis snapshots disabled, using memory: %v", err)
		_ = rs.Close()
		return snapshot.NewMemoryStore(cfg.TTL)
	}
	closers.push("redis", rs.Close)
	return rs
}

// serveMetrics exposes the Prometheus handler and returns its shutdown.
func serveMetrics(addr string, m *metrics.Metrics, logger *slog.Logger) func() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("WARNING: metrics listener: %v", err)
		}
	}()
	logger.Info("metrics listening", slog.String("addr", addr))
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

func serverInstructions() string {
	return `You have access to apply-wizard, an MCP server for completing
Approved Premises (AP) placement applications for people on probation.

## HOW AN APPLICATION WORKS

An application is a form split into sections, tasks and pages. A task can
be started once the task before it is completed. Each page asks one
question (sometimes with follow-ups) and decides which page comes next
from the answer.

1. apply_start creates an application for a person's CRN.
2. apply_task_list shows every task and its status.
3. apply_show_page shows a page and the answers saved so far.
4. apply_save_page submits answers. Valid answers are saved and the
   result names the next page; invalid answers are not saved and the
   errors are shown on the next apply_show_page call only.
5. apply_check_answers summarises everything. Once every other task is
   completed, saving the check-your-answers review page with
   {"reviewed": "1"} confirms it.
6. apply_submit freezes the application. apply_view_submitted reads it.

## RULES

- Ask the user the question in plain words; never invent answers.
- Saving any page outside check-your-answers clears a confirmed review,
  so confirm the review again before submitting.
- Submitted applications are read-only.
- Assessors use form="assess" on a submitted application. Their answers
  are kept apart from the application's. Answering "no" on
  sufficient-information with a query sends the query to the applicant
  instead of saving.
`
}
