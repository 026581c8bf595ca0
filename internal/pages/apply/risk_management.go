package apply

import (
	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/fields"
	"github.com/HendryAvila/apply-wizard/internal/form"
)

// --- risk-management-features ---

type riskManagementBody struct {
	ManageRiskDetails         string `json:"manageRiskDetails"`
	AdditionalFeaturesDetails string `json:"additionalFeaturesDetails"`
}

// RiskManagementFeatures describes how the AP will help manage risk.
type RiskManagementFeatures struct {
	form.Base
	body riskManagementBody
}

func newRiskManagementFeatures(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &RiskManagementFeatures{
		Base: form.Base{App: app, From: previous},
		body: riskManagementBody{
			ManageRiskDetails:         fields.String(input, "manageRiskDetails"),
			AdditionalFeaturesDetails: fields.String(input, "additionalFeaturesDetails"),
		},
	}, nil
}

func (p *RiskManagementFeatures) Title() string {
	return "What features of an AP will help manage the person's risk?"
}

func (p *RiskManagementFeatures) Body() any { return p.body }

func (p *RiskManagementFeatures) Next() string { return PageConvictedOffences }

func (p *RiskManagementFeatures) Previous() string { return "" }

func (p *RiskManagementFeatures) Errors() form.Errors {
	errs := form.Errors{}
	if fields.Blank(p.body.ManageRiskDetails) {
		errs.Add("manageRiskDetails", "You must describe the features of an AP that will help manage the person's risk")
	}
	return errs
}

func (p *RiskManagementFeatures) Response() []form.Answer {
	out := []form.Answer{{Question: "Describe why an AP placement is needed to manage the risk of the person", Answer: p.body.ManageRiskDetails}}
	if !fields.Blank(p.body.AdditionalFeaturesDetails) {
		out = append(out, form.Answer{Question: "Provide details of any additional measures that will be necessary for the management of risk", Answer: p.body.AdditionalFeaturesDetails})
	}
	return out
}

// --- convicted-offences ---

type convictedOffencesBody struct {
	Response string `json:"response"`
}

// ConvictedOffences asks about convictions for particular offence types.
type ConvictedOffences struct {
	form.Base
	body convictedOffencesBody
}

func newConvictedOffences(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &ConvictedOffences{
		Base: form.Base{App: app, From: previous},
		body: convictedOffencesBody{Response: fields.String(input, "response")},
	}, nil
}

func (p *ConvictedOffences) Title() string {
	return "Has the person ever been convicted of arson, sexual offences, hate crimes or non-sexual offences against children?"
}

func (p *ConvictedOffences) Body() any { return p.body }

func (p *ConvictedOffences) Next() string {
	if p.body.Response == fields.Yes {
		return PageTypeOfConvictedOffence
	}
	return PageRehabilitativeInterventions
}

func (p *ConvictedOffences) Previous() string { return PageRiskManagementFeatures }

func (p *ConvictedOffences) Errors() form.Errors {
	errs := form.Errors{}
	if !fields.IsYesNo(p.body.Response) {
		errs.Add("response", "You must specify if the person has been convicted of any of the listed offences")
	}
	return errs
}

func (p *ConvictedOffences) Response() []form.Answer {
	return []form.Answer{{Question: p.Title(), Answer: fields.YesNoLabel(p.body.Response)}}
}

// --- type-of-convicted-offence ---

var offenceTypes = fields.Choices{
	{Value: "arson", Label: "Arson"},
	{Value: "sexualOffence", Label: "Sexual offence"},
	{Value: "hateCrimes", Label: "Hate crimes"},
	{Value: "childNonSexualOffence", Label: "Non-sexual offences against children"},
}

type typeOfConvictedOffenceBody struct {
	OffenceConvictions []string `json:"offenceConvictions"`
}

// TypeOfConvictedOffence narrows down which listed offences apply.
type TypeOfConvictedOffence struct {
	form.Base
	body typeOfConvictedOffenceBody
}

func newTypeOfConvictedOffence(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &TypeOfConvictedOffence{
		Base: form.Base{App: app, From: previous},
		body: typeOfConvictedOffenceBody{OffenceConvictions: offenceTypes.Filter(fields.Strings(input, "offenceConvictions"))},
	}, nil
}

func (p *TypeOfConvictedOffence) Title() string {
	return "What type of offending has the person been convicted of?"
}

func (p *TypeOfConvictedOffence) Body() any { return p.body }

func (p *TypeOfConvictedOffence) Next() string { return PageRehabilitativeInterventions }

func (p *TypeOfConvictedOffence) Previous() string { return PageConvictedOffences }

func (p *TypeOfConvictedOffence) Errors() form.Errors {
	errs := form.Errors{}
	if len(p.body.OffenceConvictions) == 0 {
		errs.Add("offenceConvictions", "You must specify at least one type of offence")
	}
	return errs
}

func (p *TypeOfConvictedOffence) Response() []form.Answer {
	return []form.Answer{{Question: p.Title(), Answer: fields.JoinLabels(p.body.OffenceConvictions, offenceTypes.Labels())}}
}

// --- rehabilitative-interventions ---

const (
	interventionOther = "other"
	interventionNone  = "none"
)

var interventions = fields.Choices{
	{Value: "accommodation", Label: "Accommodation"},
	{Value: "drugsAndAlcohol", Label: "Drugs and alcohol"},
	{Value: "childrenAndFamilies", Label: "Children and families"},
	{Value: "health", Label: "Health"},
	{Value: "educationTrainingAndEmployment", Label: "Education, training and employment"},
	{Value: "financeBenefitsAndDebt", Label: "Finance, benefits and debt"},
	{Value: "attitudesAndBehaviour", Label: "Attitudes, thinking and behaviour"},
	{Value: "abuse", Label: "Support for victims of abuse"},
	{Value: "sexWork", Label: "Support for people who have been involved in sex work"},
	{Value: interventionOther, Label: "Other"},
	{Value: interventionNone, Label: "None"},
}

type rehabilitativeInterventionsBody struct {
	RehabilitativeInterventions []string `json:"rehabilitativeInterventions"`
	OtherIntervention           string   `json:"otherIntervention,omitempty"`
}

// RehabilitativeInterventions records support needed during the placement.
// "none" cannot be combined with other options.
type RehabilitativeInterventions struct {
	form.Base
	body rehabilitativeInterventionsBody
}

func newRehabilitativeInterventions(input form.Input, app *application.Application, previous string) (form.Page, error) {
	selected := interventions.Filter(fields.Strings(input, "rehabilitativeInterventions"))
	return &RehabilitativeInterventions{
		Base: form.Base{App: app, From: previous},
		body: rehabilitativeInterventionsBody{
			RehabilitativeInterventions: selected,
			OtherIntervention:           fields.OnlyIf(fields.Contains(selected, interventionOther), fields.String(input, "otherIntervention")),
		},
	}, nil
}

func (p *RehabilitativeInterventions) Title() string {
	return "Which rehabilitative interventions will support the person's Approved Premises (AP) placement?"
}

func (p *RehabilitativeInterventions) Body() any { return p.body }

func (p *RehabilitativeInterventions) Next() string { return "" }

func (p *RehabilitativeInterventions) Previous() string {
	if form.OptionalString(p.App, TaskRiskManagementFeatures, PageConvictedOffences, "response") == fields.Yes {
		return PageTypeOfConvictedOffence
	}
	return PageConvictedOffences
}

func (p *RehabilitativeInterventions) Errors() form.Errors {
	errs := form.Errors{}
	selected := p.body.RehabilitativeInterventions
	switch {
	case len(selected) == 0:
		errs.Add("rehabilitativeInterventions", "You must select at least one option")
	case fields.Contains(selected, interventionNone) && len(selected) > 1:
		errs.Add("rehabilitativeInterventions", "You cannot select 'None' together with another option")
	}
	if fields.Contains(selected, interventionOther) && fields.Blank(p.body.OtherIntervention) {
		errs.Add("otherIntervention", "You must specify the other intervention")
	}
	return errs
}

func (p *RehabilitativeInterventions) Response() []form.Answer {
	out := []form.Answer{{Question: p.Title(), Answer: fields.JoinLabels(p.body.RehabilitativeInterventions, interventions.Labels())}}
	if fields.Contains(p.body.RehabilitativeInterventions, interventionOther) {
		out = append(out, form.Answer{Question: "Other intervention", Answer: p.body.OtherIntervention})
	}
	return out
}

var riskManagementFeatures = form.Task{
	Slug:  TaskRiskManagementFeatures,
	Title: "Add detail about managing risks and needs",
	Pages: []form.Descriptor{
		{Slug: PageRiskManagementFeatures, New: newRiskManagementFeatures, Links: []string{PageConvictedOffences}},
		{Slug: PageConvictedOffences, New: newConvictedOffences, Links: []string{PageTypeOfConvictedOffence, PageRehabilitativeInterventions, PageRiskManagementFeatures}},
		{Slug: PageTypeOfConvictedOffence, New: newTypeOfConvictedOffence, Links: []string{PageRehabilitativeInterventions, PageConvictedOffences}},
		{Slug: PageRehabilitativeInterventions, New: newRehabilitativeInterventions, Links: []string{PageTypeOfConvictedOffence, PageConvictedOffences}},
	},
}
