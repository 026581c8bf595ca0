package apply

import (
	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/fields"
	"github.com/HendryAvila/apply-wizard/internal/form"
)

const (
	accessNeedMobility = "mobility"
	accessNeedNone     = "none"
)

var accessNeeds = fields.Choices{
	{Value: "hearingImpairment", Label: "Hearing impairment"},
	{Value: "visualImpairment", Label: "Visual impairment"},
	{Value: accessNeedMobility, Label: "Mobility"},
	{Value: "learningDisability", Label: "Learning disability"},
	{Value: "neurodivergentConditions", Label: "Neurodivergent conditions"},
	{Value: "healthcare", Label: "Healthcare"},
	{Value: accessNeedNone, Label: "None of the above"},
}

// --- access-needs ---

type accessNeedsBody struct {
	AdditionalNeeds   []string `json:"additionalNeeds"`
	Religious         string   `json:"religiousOrCulturalNeeds"`
	ReligiousDetails  string   `json:"religiousOrCulturalNeedsDetails,omitempty"`
	CareActAssessment string   `json:"careActAssessmentCompleted"`
}

// AccessNeeds records the person's access, cultural and healthcare needs.
type AccessNeeds struct {
	form.Base
	body accessNeedsBody
}

func newAccessNeeds(input form.Input, app *application.Application, previous string) (form.Page, error) {
	religious := fields.String(input, "religiousOrCulturalNeeds")
	return &AccessNeeds{
		Base: form.Base{App: app, From: previous},
		body: accessNeedsBody{
			AdditionalNeeds:   accessNeeds.Filter(fields.Strings(input, "additionalNeeds")),
			Religious:         religious,
			ReligiousDetails:  fields.OnlyIf(religious == fields.Yes, fields.String(input, "religiousOrCulturalNeedsDetails")),
			CareActAssessment: fields.String(input, "careActAssessmentCompleted"),
		},
	}, nil
}

func (p *AccessNeeds) Title() string { return "Access, cultural and healthcare needs" }

func (p *AccessNeeds) Body() any { return p.body }

func (p *AccessNeeds) Next() string {
	if fields.Contains(p.body.AdditionalNeeds, accessNeedMobility) {
		return PageAccessNeedsMobility
	}
	return ""
}

func (p *AccessNeeds) Previous() string { return "" }

func (p *AccessNeeds) Errors() form.Errors {
	errs := form.Errors{}
	switch {
	case len(p.body.AdditionalNeeds) == 0:
		errs.Add("additionalNeeds", "You must confirm if the person has additional needs")
	case fields.Contains(p.body.AdditionalNeeds, accessNeedNone) && len(p.body.AdditionalNeeds) > 1:
		errs.Add("additionalNeeds", "You cannot select 'None of the above' together with another need")
	}
	if !fields.IsYesNo(p.body.Religious) {
		errs.Add("religiousOrCulturalNeeds", "You must confirm if the person has any religious or cultural needs")
	} else if p.body.Religious == fields.Yes && fields.Blank(p.body.ReligiousDetails) {
		errs.Add("religiousOrCulturalNeedsDetails", "You must provide details of the religious or cultural needs")
	}
	if !fields.IsYesNo(p.body.CareActAssessment) {
		errs.Add("careActAssessmentCompleted", "You must confirm if a care act assessment has been completed")
	}
	return errs
}

func (p *AccessNeeds) Response() []form.Answer {
	religious := fields.YesNoLabel(p.body.Religious)
	if p.body.Religious == fields.Yes {
		religious += " - " + p.body.ReligiousDetails
	}
	return []form.Answer{
		{Question: "Does the person have any of the following needs?", Answer: fields.JoinLabels(p.body.AdditionalNeeds, accessNeeds.Labels())},
		{Question: "Does the person have any religious or cultural needs?", Answer: religious},
		{Question: "Has a care act assessment been completed?", Answer: fields.YesNoLabel(p.body.CareActAssessment)},
	}
}

// --- access-needs-mobility ---

type mobilityBody struct {
	NeedsWheelchair  string `json:"needsWheelchair"`
	MobilityNeeds    string `json:"mobilityNeeds,omitempty"`
	VisualImpairment string `json:"visualImpairment,omitempty"`
}

// AccessNeedsMobility follows up on mobility needs.
type AccessNeedsMobility struct {
	form.Base
	body mobilityBody
}

func newAccessNeedsMobility(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &AccessNeedsMobility{
		Base: form.Base{App: app, From: previous},
		body: mobilityBody{
			NeedsWheelchair:  fields.String(input, "needsWheelchair"),
			MobilityNeeds:    fields.String(input, "mobilityNeeds"),
			VisualImpairment: fields.String(input, "visualImpairment"),
		},
	}, nil
}

func (p *AccessNeedsMobility) Title() string { return "Access needs" }

func (p *AccessNeedsMobility) Body() any { return p.body }

func (p *AccessNeedsMobility) Next() string { return "" }

func (p *AccessNeedsMobility) Previous() string { return PageAccessNeeds }

func (p *AccessNeedsMobility) Errors() form.Errors {
	errs := form.Errors{}
	if !fields.IsYesNo(p.body.NeedsWheelchair) {
		errs.Add("needsWheelchair", "You must confirm the need for a wheelchair")
	}
	return errs
}

func (p *AccessNeedsMobility) Response() []form.Answer {
	out := []form.Answer{{Question: "Does the person require the use of a wheelchair?", Answer: fields.YesNoLabel(p.body.NeedsWheelchair)}}
	if !fields.Blank(p.body.MobilityNeeds) {
		out = append(out, form.Answer{Question: "Mobility needs", Answer: p.body.MobilityNeeds})
	}
	if !fields.Blank(p.body.VisualImpairment) {
		out = append(out, form.Answer{Question: "Visual impairment", Answer: p.body.VisualImpairment})
	}
	return out
}

var accessAndHealthcare = form.Task{
	Slug:  TaskAccessAndHealthcare,
	Title: "Access, cultural and healthcare needs",
	Pages: []form.Descriptor{
		{Slug: PageAccessNeeds, New: newAccessNeeds, Links: []string{PageAccessNeedsMobility}},
		{Slug: PageAccessNeedsMobility, New: newAccessNeedsMobility, Links: []string{PageAccessNeeds}},
	},
}
