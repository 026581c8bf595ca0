package apply

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/fields"
	"github.com/HendryAvila/apply-wizard/internal/form"
)

// ServiceDocuments lists the documents held against the person.
const ServiceDocuments = "documents"

// Document is a file held against the person that can be attached.
type Document struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	Description string `json:"description,omitempty"`
}

type attachDocumentsBody struct {
	SelectedDocuments []Document `json:"selectedDocuments"`
}

// AttachDocuments lets the caseworker attach held documents. Selecting
// none is allowed.
type AttachDocuments struct {
	form.Base
	body      attachDocumentsBody
	available []Document
}

func newAttachDocuments(input form.Input, app *application.Application, previous string) (form.Page, error) {
	docs := decodeList[Document](input["selectedDocuments"])
	if docs == nil {
		docs = []Document{}
	}
	return &AttachDocuments{
		Base: form.Base{App: app, From: previous},
		body: attachDocumentsBody{SelectedDocuments: docs},
	}, nil
}

func initializeAttachDocuments(ctx context.Context, input form.Input, app *application.Application, previous, token string, svc form.Services) (form.Page, error) {
	var docs []Document
	if err := svc.Fetch(ctx, ServiceDocuments, token, app.CRN, &docs); err != nil {
		return nil, fmt.Errorf("fetching documents: %w", err)
	}
	page, _ := newAttachDocuments(input, app, previous)
	p := page.(*AttachDocuments)
	p.available = docs

	if _, submitted := input["documentIds"]; submitted {
		ids := fields.Strings(input, "documentIds")
		p.body.SelectedDocuments = []Document{}
		for _, d := range docs {
			if fields.Contains(ids, d.ID) {
				if desc := fields.String(input, "documentDescription["+d.ID+"]"); desc != "" {
					d.Description = desc
				}
				p.body.SelectedDocuments = append(p.body.SelectedDocuments, d)
			}
		}
	}
	return p, nil
}

func (p *AttachDocuments) Title() string {
	return "Select any additional documents that are required to support your application"
}

func (p *AttachDocuments) Body() any { return p.body }

// Available lists the documents offered for attachment.
func (p *AttachDocuments) Available() []Document { return p.available }

func (p *AttachDocuments) Next() string { return "" }

func (p *AttachDocuments) Previous() string { return "" }

func (p *AttachDocuments) Errors() form.Errors { return form.Errors{} }

func (p *AttachDocuments) Response() []form.Answer {
	if len(p.body.SelectedDocuments) == 0 {
		return []form.Answer{{Question: "Attached documents", Answer: "None"}}
	}
	out := make([]form.Answer, 0, len(p.body.SelectedDocuments))
	for _, d := range p.body.SelectedDocuments {
		out = append(out, form.Answer{Question: d.FileName, Answer: strings.TrimSpace(d.Description)})
	}
	return out
}

// decodeList reads a stored list of objects back into typed values.
// Anything that does not decode reads as nil.
func decodeList[T any](v any) []T {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

var attachRequiredDocuments = form.Task{
	Slug:  TaskAttachRequiredDocuments,
	Title: "Attach required documents",
	Pages: []form.Descriptor{
		{Slug: PageAttachDocuments, New: newAttachDocuments, Initialize: initializeAttachDocuments},
	},
}
