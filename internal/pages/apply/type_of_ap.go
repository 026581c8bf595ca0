package apply

import (
	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/fields"
	"github.com/HendryAvila/apply-wizard/internal/form"
)

// AP types.
const (
	APTypeStandard = "standard"
	APTypePIPE     = "pipe"
	APTypeESAP     = "esap"
)

var apTypes = fields.Choices{
	{Value: APTypeStandard, Label: "Standard approved premises (AP)"},
	{Value: APTypePIPE, Label: "Psychologically Informed Planned Environment (PIPE)"},
	{Value: APTypeESAP, Label: "Enhanced Security AP (ESAP)"},
}

// --- ap-type ---

type apTypeBody struct {
	Type string `json:"type"`
}

// APType picks the kind of premises. Specialist types have follow-up pages.
type APType struct {
	form.Base
	body apTypeBody
}

func newAPType(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &APType{
		Base: form.Base{App: app, From: previous},
		body: apTypeBody{Type: fields.String(input, "type")},
	}, nil
}

func (p *APType) Title() string { return "Which type of AP does the person require?" }

func (p *APType) Body() any { return p.body }

func (p *APType) Previous() string { return "" }

func (p *APType) Next() string {
	switch p.body.Type {
	case APTypePIPE:
		return PagePipeReferral
	case APTypeESAP:
		return PageESAPScreening
	}
	return ""
}

func (p *APType) Errors() form.Errors {
	errs := form.Errors{}
	if !apTypes.Has(p.body.Type) {
		errs.Add("type", "You must specify an AP type")
	}
	return errs
}

func (p *APType) Response() []form.Answer {
	return []form.Answer{{Question: p.Title(), Answer: fields.Label(p.body.Type, apTypes.Labels())}}
}

// --- pipe-referral ---

type pipeReferralBody struct {
	OPDPathway     string `json:"opdPathway"`
	OPDPathwayDate string `json:"opdPathwayDate,omitempty"`
}

// PipeReferral asks whether the person has been screened into the OPD
// pathway, and when.
type PipeReferral struct {
	form.Base
	body pipeReferralBody
	date fields.Date
}

func newPipeReferral(input form.Input, app *application.Application, previous string) (form.Page, error) {
	p := &PipeReferral{
		Base: form.Base{App: app, From: previous},
		body: pipeReferralBody{OPDPathway: fields.String(input, "opdPathway")},
	}
	if p.body.OPDPathway == fields.Yes {
		p.date = fields.ReadDate(input, "opdPathwayDate")
		p.body.OPDPathwayDate = p.date.ISO()
	}
	return p, nil
}

func (p *PipeReferral) Title() string {
	return "Has the person been screened into the OPD pathway?"
}

func (p *PipeReferral) Body() any { return p.body }

func (p *PipeReferral) Next() string { return PagePipeOPDScreening }

func (p *PipeReferral) Previous() string { return PageAPType }

func (p *PipeReferral) Errors() form.Errors {
	errs := form.Errors{}
	if !fields.IsYesNo(p.body.OPDPathway) {
		errs.Add("opdPathway", "You must specify if the person has been screened into the OPD pathway")
		return errs
	}
	if p.body.OPDPathway == fields.Yes {
		if msg := fields.DateError(p.date, "last consultation date"); msg != "" {
			errs.Add("opdPathwayDate", msg)
		}
	}
	return errs
}

func (p *PipeReferral) Response() []form.Answer {
	out := []form.Answer{{Question: p.Title(), Answer: fields.YesNoLabel(p.body.OPDPathway)}}
	if p.body.OPDPathway == fields.Yes {
		out = append(out, form.Answer{Question: "When was the last consultation?", Answer: fields.FormatDate(p.body.OPDPathwayDate)})
	}
	return out
}

// --- pipe-opd-screening ---

type pipeOPDScreeningBody struct {
	PipeReferral           string `json:"pipeReferral"`
	PipeReferralMoreDetail string `json:"pipeReferralMoreDetail,omitempty"`
}

// PipeOPDScreening records the OPD screening outcome for a PIPE referral.
type PipeOPDScreening struct {
	form.Base
	body pipeOPDScreeningBody
}

func newPipeOPDScreening(input form.Input, app *application.Application, previous string) (form.Page, error) {
	referral := fields.String(input, "pipeReferral")
	return &PipeOPDScreening{
		Base: form.Base{App: app, From: previous},
		body: pipeOPDScreeningBody{
			PipeReferral:           referral,
			PipeReferralMoreDetail: fields.String(input, "pipeReferralMoreDetail"),
		},
	}, nil
}

func (p *PipeOPDScreening) Title() string {
	return "Has a referral for PIPE placement been recommended in the OPD pathway plan?"
}

func (p *PipeOPDScreening) Body() any { return p.body }

func (p *PipeOPDScreening) Next() string { return "" }

func (p *PipeOPDScreening) Previous() string { return PagePipeReferral }

func (p *PipeOPDScreening) Errors() form.Errors {
	errs := form.Errors{}
	if !fields.IsYesNo(p.body.PipeReferral) {
		errs.Add("pipeReferral", "You must specify if a PIPE placement has been recommended in the OPD pathway plan")
	}
	return errs
}

func (p *PipeOPDScreening) Response() []form.Answer {
	out := []form.Answer{{Question: p.Title(), Answer: fields.YesNoLabel(p.body.PipeReferral)}}
	if !fields.Blank(p.body.PipeReferralMoreDetail) {
		out = append(out, form.Answer{Question: "Additional detail about why the person needs a PIPE placement", Answer: p.body.PipeReferralMoreDetail})
	}
	return out
}

// --- esap-placement-screening ---

// ESAP placement reasons. Order matters: Next follows the first selected
// reason that has a follow-up page.
const (
	esapSecreting = "secreting"
	esapCCTV      = "cctv"
)

var esapReasons = fields.Choices{
	{Value: esapSecreting, Label: "History of secreting items relevant to risk and re-offending in their room"},
	{Value: esapCCTV, Label: "History of engaging in behaviours which are most effectively monitored via enhanced CCTV"},
}

type esapScreeningBody struct {
	ESAPReasons []string `json:"esapReasons"`
}

// ESAPScreening records which enhanced security needs apply.
type ESAPScreening struct {
	form.Base
	body esapScreeningBody
}

func newESAPScreening(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &ESAPScreening{
		Base: form.Base{App: app, From: previous},
		body: esapScreeningBody{ESAPReasons: esapReasons.Filter(fields.Strings(input, "esapReasons"))},
	}, nil
}

func (p *ESAPScreening) Title() string {
	return "Why does the person require an enhanced security placement?"
}

func (p *ESAPScreening) Body() any { return p.body }

func (p *ESAPScreening) Next() string {
	switch {
	case fields.Contains(p.body.ESAPReasons, esapSecreting):
		return PageESAPSecreting
	case fields.Contains(p.body.ESAPReasons, esapCCTV):
		return PageESAPCCTV
	}
	return ""
}

func (p *ESAPScreening) Previous() string { return PageAPType }

func (p *ESAPScreening) Errors() form.Errors {
	errs := form.Errors{}
	if len(p.body.ESAPReasons) == 0 {
		errs.Add("esapReasons", "You must specify why the person requires an enhanced security placement")
	}
	return errs
}

func (p *ESAPScreening) Response() []form.Answer {
	return []form.Answer{{Question: p.Title(), Answer: fields.JoinLabels(p.body.ESAPReasons, esapReasons.Labels())}}
}

func esapReasonsFromApplication(app *application.Application) []string {
	v, ok := form.OptionalResponse(app, TaskTypeOfAP, PageESAPScreening, "esapReasons")
	if !ok {
		return nil
	}
	return fields.Strings(form.Input{"esapReasons": v}, "esapReasons")
}

// --- esap-placement-secreting ---

var secretingHistory = fields.Choices{
	{Value: "radicalisationLiterature", Label: "Literature and materials supporting radicalisation ideologies"},
	{Value: "hateCrimeLiterature", Label: "Literature and materials supporting hate crimes"},
	{Value: "csaLiterature", Label: "Literature and materials associated with child sexual abuse"},
	{Value: "drugs", Label: "Drugs and drug paraphernalia"},
	{Value: "weapons", Label: "Weapons"},
	{Value: "other", Label: "Other"},
}

type esapSecretingBody struct {
	SecretingHistory      []string `json:"secretingHistory"`
	SecretingIntelligence string   `json:"secretingIntelligence"`
}

// ESAPSecreting details a history of secreting items.
type ESAPSecreting struct {
	form.Base
	body esapSecretingBody
}

func newESAPSecreting(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &ESAPSecreting{
		Base: form.Base{App: app, From: previous},
		body: esapSecretingBody{
			SecretingHistory:      secretingHistory.Filter(fields.Strings(input, "secretingHistory")),
			SecretingIntelligence: fields.String(input, "secretingIntelligence"),
		},
	}, nil
}

func (p *ESAPSecreting) Title() string {
	return "Enhanced room searches using body worn technology"
}

func (p *ESAPSecreting) Body() any { return p.body }

// Next visits the CCTV page too when that reason was also selected.
func (p *ESAPSecreting) Next() string {
	if fields.Contains(esapReasonsFromApplication(p.App), esapCCTV) {
		return PageESAPCCTV
	}
	return ""
}

func (p *ESAPSecreting) Previous() string { return PageESAPScreening }

func (p *ESAPSecreting) Errors() form.Errors {
	errs := form.Errors{}
	if len(p.body.SecretingHistory) == 0 {
		errs.Add("secretingHistory", "You must specify which items the person has a history of secreting")
	}
	if !fields.IsYesNo(p.body.SecretingIntelligence) {
		errs.Add("secretingIntelligence", "You must specify if partnership agencies have requested the sharing of intelligence")
	}
	return errs
}

func (p *ESAPSecreting) Response() []form.Answer {
	return []form.Answer{
		{Question: "Which items does the person have a history of secreting?", Answer: fields.JoinLabels(p.body.SecretingHistory, secretingHistory.Labels())},
		{Question: "Have partnership agencies requested the sharing of intelligence captured via body worn technology?", Answer: fields.YesNoLabel(p.body.SecretingIntelligence)},
	}
}

// --- esap-placement-cctv ---

var cctvHistory = fields.Choices{
	{Value: "appearance", Label: "Changing their appearance or clothing to offend"},
	{Value: "communityThreats", Label: "Making threats or engaging in intimidation of the community"},
	{Value: "networks", Label: "Contact with networks or people of concern"},
	{Value: "prisonerAssualt", Label: "Assaults on other prisoners or residents"},
}

type esapCCTVBody struct {
	CCTVHistory      []string `json:"cctvHistory"`
	CCTVIntelligence string   `json:"cctvIntelligence"`
}

// ESAPCCTV details behaviours best monitored via enhanced CCTV.
type ESAPCCTV struct {
	form.Base
	body esapCCTVBody
}

func newESAPCCTV(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &ESAPCCTV{
		Base: form.Base{App: app, From: previous},
		body: esapCCTVBody{
			CCTVHistory:      cctvHistory.Filter(fields.Strings(input, "cctvHistory")),
			CCTVIntelligence: fields.String(input, "cctvIntelligence"),
		},
	}, nil
}

func (p *ESAPCCTV) Title() string { return "Enhanced CCTV provision" }

func (p *ESAPCCTV) Body() any { return p.body }

func (p *ESAPCCTV) Next() string { return "" }

func (p *ESAPCCTV) Previous() string {
	if fields.Contains(esapReasonsFromApplication(p.App), esapSecreting) {
		return PageESAPSecreting
	}
	return PageESAPScreening
}

func (p *ESAPCCTV) Errors() form.Errors {
	errs := form.Errors{}
	if len(p.body.CCTVHistory) == 0 {
		errs.Add("cctvHistory", "You must specify which behaviours the person has demonstrated")
	}
	if !fields.IsYesNo(p.body.CCTVIntelligence) {
		errs.Add("cctvIntelligence", "You must specify if partnership agencies have requested the sharing of intelligence")
	}
	return errs
}

func (p *ESAPCCTV) Response() []form.Answer {
	return []form.Answer{
		{Question: "Which behaviours has the person demonstrated?", Answer: fields.JoinLabels(p.body.CCTVHistory, cctvHistory.Labels())},
		{Question: "Have partnership agencies requested the sharing of intelligence captured via enhanced CCTV?", Answer: fields.YesNoLabel(p.body.CCTVIntelligence)},
	}
}

var typeOfAP = form.Task{
	Slug:  TaskTypeOfAP,
	Title: "Type of AP required",
	Pages: []form.Descriptor{
		{Slug: PageAPType, New: newAPType, Links: []string{PagePipeReferral, PageESAPScreening}},
		{Slug: PagePipeReferral, New: newPipeReferral, Links: []string{PagePipeOPDScreening, PageAPType}},
		{Slug: PagePipeOPDScreening, New: newPipeOPDScreening, Links: []string{PagePipeReferral}},
		{Slug: PageESAPScreening, New: newESAPScreening, Links: []string{PageESAPSecreting, PageESAPCCTV, PageAPType}},
		{Slug: PageESAPSecreting, New: newESAPSecreting, Links: []string{PageESAPCCTV, PageESAPScreening}},
		{Slug: PageESAPCCTV, New: newESAPCCTV, Links: []string{PageESAPSecreting, PageESAPScreening}},
	},
}
