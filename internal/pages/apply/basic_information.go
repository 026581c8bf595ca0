package apply

import (
	"fmt"

	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/fields"
	"github.com/HendryAvila/apply-wizard/internal/form"
)

// --- transgender ---

type transgenderBody struct {
	TransgenderOrHasTransgenderHistory string `json:"transgenderOrHasTransgenderHistory"`
}

// Transgender asks whether the person is transgender or has a transgender
// history. A "yes" routes through the complex case board question.
type Transgender struct {
	form.Base
	body transgenderBody
}

func newTransgender(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &Transgender{
		Base: form.Base{App: app, From: previous},
		body: transgenderBody{TransgenderOrHasTransgenderHistory: fields.String(input, "transgenderOrHasTransgenderHistory")},
	}, nil
}

func (p *Transgender) Title() string {
	return "Is the person transgender or do they have a transgender history?"
}

func (p *Transgender) Body() any { return p.body }

func (p *Transgender) Previous() string { return "" }

func (p *Transgender) Next() string {
	if p.body.TransgenderOrHasTransgenderHistory == fields.Yes {
		return PageComplexCaseBoard
	}
	return PageSentenceType
}

func (p *Transgender) Errors() form.Errors {
	errs := form.Errors{}
	if !fields.IsYesNo(p.body.TransgenderOrHasTransgenderHistory) {
		errs.Add("transgenderOrHasTransgenderHistory", "You must specify if the person is transgender or has a transgender history")
	}
	return errs
}

func (p *Transgender) Response() []form.Answer {
	return []form.Answer{{Question: p.Title(), Answer: fields.YesNoLabel(p.body.TransgenderOrHasTransgenderHistory)}}
}

// --- complex-case-board ---

type complexCaseBoardBody struct {
	ReviewRequired string `json:"reviewRequired"`
}

// ComplexCaseBoard asks whether the person's gender identity needs a
// complex case board review.
type ComplexCaseBoard struct {
	form.Base
	body complexCaseBoardBody
}

func newComplexCaseBoard(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &ComplexCaseBoard{
		Base: form.Base{App: app, From: previous},
		body: complexCaseBoardBody{ReviewRequired: fields.String(input, "reviewRequired")},
	}, nil
}

func (p *ComplexCaseBoard) Title() string {
	return "Does the person's gender identity require a complex case board to review their application?"
}

func (p *ComplexCaseBoard) Body() any { return p.body }

func (p *ComplexCaseBoard) Next() string { return PageSentenceType }

func (p *ComplexCaseBoard) Previous() string { return PageTransgender }

func (p *ComplexCaseBoard) Errors() form.Errors {
	errs := form.Errors{}
	if !fields.IsYesNo(p.body.ReviewRequired) {
		errs.Add("reviewRequired", "You must specify if the complex case board is required")
	}
	return errs
}

func (p *ComplexCaseBoard) Response() []form.Answer {
	return []form.Answer{{Question: p.Title(), Answer: fields.YesNoLabel(p.body.ReviewRequired)}}
}

// --- sentence-type ---

// Sentence type values. Several later pages branch on them.
const (
	SentenceStandardDeterminate = "standardDeterminate"
	SentenceLife                = "life"
	SentenceIPP                 = "ipp"
	SentenceExtendedDeterminate = "extendedDeterminate"
	SentenceCommunityOrder      = "communityOrder"
	SentenceBailPlacement       = "bailPlacement"
	SentenceNonStatutory        = "nonStatutory"
)

var sentenceTypes = fields.Choices{
	{Value: SentenceStandardDeterminate, Label: "Standard determinate custody"},
	{Value: SentenceLife, Label: "Life sentence"},
	{Value: SentenceIPP, Label: "Indeterminate Public Protection (IPP)"},
	{Value: SentenceExtendedDeterminate, Label: "Extended determinate custody"},
	{Value: SentenceCommunityOrder, Label: "Community Order (CO) / Suspended Sentence Order (SSO)"},
	{Value: SentenceBailPlacement, Label: "Bail placement"},
	{Value: SentenceNonStatutory, Label: "Non-statutory, MAPPA case"},
}

type sentenceTypeBody struct {
	SentenceType string `json:"sentenceType"`
}

// SentenceType records which sentence the placement relates to.
type SentenceType struct {
	form.Base
	body sentenceTypeBody
}

func newSentenceType(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &SentenceType{
		Base: form.Base{App: app, From: previous},
		body: sentenceTypeBody{SentenceType: fields.String(input, "sentenceType")},
	}, nil
}

func (p *SentenceType) Title() string {
	return "Which of the following best describes the sentence type the person is on?"
}

func (p *SentenceType) Body() any { return p.body }

// Next sends custodial sentences to release type, community and bail
// sentences to the situation question, and MAPPA cases straight to the
// release date.
func (p *SentenceType) Next() string {
	switch p.body.SentenceType {
	case SentenceStandardDeterminate, SentenceLife, SentenceIPP, SentenceExtendedDeterminate:
		return PageReleaseType
	case SentenceCommunityOrder, SentenceBailPlacement:
		return PageSituation
	case SentenceNonStatutory:
		return PageReleaseDate
	}
	return ""
}

func (p *SentenceType) Previous() string {
	if form.OptionalString(p.App, TaskBasicInformation, PageTransgender, "transgenderOrHasTransgenderHistory") == fields.Yes {
		return PageComplexCaseBoard
	}
	return PageTransgender
}

func (p *SentenceType) Errors() form.Errors {
	errs := form.Errors{}
	switch {
	case p.body.SentenceType == "":
		errs.Add("sentenceType", "You must choose a sentence type")
	case !sentenceTypes.Has(p.body.SentenceType):
		errs.Add("sentenceType", "You must choose a valid sentence type")
	}
	return errs
}

func (p *SentenceType) Response() []form.Answer {
	return []form.Answer{{Question: p.Title(), Answer: fields.Label(p.body.SentenceType, sentenceTypes.Labels())}}
}

// --- release-type ---

var allReleaseTypes = fields.Choices{
	{Value: "licence", Label: "Licence"},
	{Value: "rotl", Label: "Release on Temporary Licence (ROTL)"},
	{Value: "hdc", Label: "Home detention curfew (HDC)"},
	{Value: "pss", Label: "Post Sentence Supervision (PSS)"},
	{Value: "paroleDirectedLicence", Label: "Parole directed licence"},
}

// releaseTypesFor narrows the release types offered by sentence type.
func releaseTypesFor(sentenceType string) fields.Choices {
	pick := func(values ...string) fields.Choices {
		out := make(fields.Choices, 0, len(values))
		for _, c := range allReleaseTypes {
			if fields.Contains(values, c.Value) {
				out = append(out, c)
			}
		}
		return out
	}
	switch sentenceType {
	case SentenceLife, SentenceIPP:
		return pick("rotl", "licence")
	case SentenceExtendedDeterminate:
		return pick("rotl", "licence", "paroleDirectedLicence")
	default:
		return pick("licence", "rotl", "hdc", "pss")
	}
}

type releaseTypeBody struct {
	ReleaseType string `json:"releaseType"`
}

// ReleaseType asks how a custodial sentence ends. The options depend on
// the recorded sentence type, which must already be answered.
type ReleaseType struct {
	form.Base
	body    releaseTypeBody
	options fields.Choices
}

func newReleaseType(input form.Input, app *application.Application, previous string) (form.Page, error) {
	sentence, err := form.StringResponse(app, TaskBasicInformation, PageSentenceType, "sentenceType")
	if err != nil {
		return nil, err
	}
	return &ReleaseType{
		Base:    form.Base{App: app, From: previous},
		body:    releaseTypeBody{ReleaseType: fields.String(input, "releaseType")},
		options: releaseTypesFor(sentence),
	}, nil
}

func (p *ReleaseType) Title() string { return "What type of release will the application support?" }

func (p *ReleaseType) Body() any { return p.body }

func (p *ReleaseType) Next() string { return PageReleaseDate }

func (p *ReleaseType) Previous() string { return PageSentenceType }

func (p *ReleaseType) Errors() form.Errors {
	errs := form.Errors{}
	switch {
	case p.body.ReleaseType == "":
		errs.Add("releaseType", "You must choose a release type")
	case !p.options.Has(p.body.ReleaseType):
		errs.Add("releaseType", "You must choose a release type valid for the sentence type")
	}
	return errs
}

func (p *ReleaseType) Response() []form.Answer {
	return []form.Answer{{Question: p.Title(), Answer: fields.Label(p.body.ReleaseType, allReleaseTypes.Labels())}}
}

// --- situation ---

var situationsBySentence = map[string]fields.Choices{
	SentenceCommunityOrder: {
		{Value: "riskManagement", Label: "Referral for risk management"},
		{Value: "residencyManagement", Label: "Residency management"},
	},
	SentenceBailPlacement: {
		{Value: "bailAssessment", Label: "Bail assessment for residential requirement as part of a community order or suspended sentence order"},
		{Value: "bailSentence", Label: "Bail placement"},
	},
}

type situationBody struct {
	Situation string `json:"situation"`
}

// Situation captures why a community or bail case needs a placement.
type Situation struct {
	form.Base
	body    situationBody
	options fields.Choices
}

func newSituation(input form.Input, app *application.Application, previous string) (form.Page, error) {
	sentence, err := form.StringResponse(app, TaskBasicInformation, PageSentenceType, "sentenceType")
	if err != nil {
		return nil, err
	}
	return &Situation{
		Base:    form.Base{App: app, From: previous},
		body:    situationBody{Situation: fields.String(input, "situation")},
		options: situationsBySentence[sentence],
	}, nil
}

func (p *Situation) Title() string {
	return "Which of the following options best describes the situation?"
}

func (p *Situation) Body() any { return p.body }

func (p *Situation) Next() string { return PageReleaseDate }

func (p *Situation) Previous() string { return PageSentenceType }

func (p *Situation) Errors() form.Errors {
	errs := form.Errors{}
	if !p.options.Has(p.body.Situation) {
		errs.Add("situation", "You must choose a situation")
	}
	return errs
}

func (p *Situation) Response() []form.Answer {
	return []form.Answer{{Question: p.Title(), Answer: fields.Label(p.body.Situation, p.options.Labels())}}
}

// --- release-date ---

type releaseDateBody struct {
	KnowReleaseDate string `json:"knowReleaseDate"`
	ReleaseDate     string `json:"releaseDate,omitempty"`
}

// ReleaseDate records whether the release date is known, and the date.
type ReleaseDate struct {
	form.Base
	body releaseDateBody
	date fields.Date
}

func newReleaseDate(input form.Input, app *application.Application, previous string) (form.Page, error) {
	know := fields.String(input, "knowReleaseDate")
	p := &ReleaseDate{
		Base: form.Base{App: app, From: previous},
		body: releaseDateBody{KnowReleaseDate: know},
	}
	if know == fields.Yes {
		p.date = fields.ReadDate(input, "releaseDate")
		p.body.ReleaseDate = p.date.ISO()
	}
	return p, nil
}

func (p *ReleaseDate) Title() string { return "Do you know the person's release date?" }

func (p *ReleaseDate) Body() any { return p.body }

func (p *ReleaseDate) Next() string {
	if p.body.KnowReleaseDate == fields.Yes {
		return PagePlacementDate
	}
	return PageOralHearing
}

// Previous follows the route the sentence type takes into this page.
func (p *ReleaseDate) Previous() string {
	switch form.OptionalString(p.App, TaskBasicInformation, PageSentenceType, "sentenceType") {
	case SentenceCommunityOrder, SentenceBailPlacement:
		return PageSituation
	case SentenceNonStatutory:
		return PageSentenceType
	}
	return PageReleaseType
}

func (p *ReleaseDate) Errors() form.Errors {
	errs := form.Errors{}
	if !fields.IsYesNo(p.body.KnowReleaseDate) {
		errs.Add("knowReleaseDate", "You must specify if you know the release date")
		return errs
	}
	if p.body.KnowReleaseDate == fields.Yes {
		if msg := fields.DateError(p.date, "release date"); msg != "" {
			errs.Add("releaseDate", msg)
		}
	}
	return errs
}

func (p *ReleaseDate) Response() []form.Answer {
	out := []form.Answer{{Question: p.Title(), Answer: fields.YesNoLabel(p.body.KnowReleaseDate)}}
	if p.body.KnowReleaseDate == fields.Yes {
		out = append(out, form.Answer{Question: "Release date", Answer: fields.FormatDate(p.body.ReleaseDate)})
	}
	return out
}

// --- oral-hearing ---

type oralHearingBody struct {
	KnowOralHearingDate string `json:"knowOralHearingDate"`
	OralHearingDate     string `json:"oralHearingDate,omitempty"`
}

// OralHearing records a parole oral hearing date when the release date is
// not yet known.
type OralHearing struct {
	form.Base
	body oralHearingBody
	date fields.Date
}

func newOralHearing(input form.Input, app *application.Application, previous string) (form.Page, error) {
	know := fields.String(input, "knowOralHearingDate")
	p := &OralHearing{
		Base: form.Base{App: app, From: previous},
		body: oralHearingBody{KnowOralHearingDate: know},
	}
	if know == fields.Yes {
		p.date = fields.ReadDate(input, "oralHearingDate")
		p.body.OralHearingDate = p.date.ISO()
	}
	return p, nil
}

func (p *OralHearing) Title() string { return "Do you know the person's oral hearing date?" }

func (p *OralHearing) Body() any { return p.body }

func (p *OralHearing) Next() string { return PagePlacementPurpose }

func (p *OralHearing) Previous() string { return PageReleaseDate }

func (p *OralHearing) Errors() form.Errors {
	errs := form.Errors{}
	if !fields.IsYesNo(p.body.KnowOralHearingDate) {
		errs.Add("knowOralHearingDate", "You must specify if you know the oral hearing date")
		return errs
	}
	if p.body.KnowOralHearingDate == fields.Yes {
		if msg := fields.DateError(p.date, "oral hearing date"); msg != "" {
			errs.Add("oralHearingDate", msg)
		}
	}
	return errs
}

func (p *OralHearing) Response() []form.Answer {
	out := []form.Answer{{Question: p.Title(), Answer: fields.YesNoLabel(p.body.KnowOralHearingDate)}}
	if p.body.KnowOralHearingDate == fields.Yes {
		out = append(out, form.Answer{Question: "Oral hearing date", Answer: fields.FormatDate(p.body.OralHearingDate)})
	}
	return out
}

// --- placement-date ---

type placementDateBody struct {
	StartDateSameAsReleaseDate string `json:"startDateSameAsReleaseDate"`
	StartDate                  string `json:"startDate,omitempty"`
}

// PlacementDate asks whether the placement starts on the release date.
// Its title quotes the release date when one is recorded. An answer kept
// from before the release date was withdrawn still rebuilds.
type PlacementDate struct {
	form.Base
	body        placementDateBody
	date        fields.Date
	releaseDate string
}

func newPlacementDate(input form.Input, app *application.Application, previous string) (form.Page, error) {
	releaseDate := form.OptionalString(app, TaskBasicInformation, PageReleaseDate, "releaseDate")
	same := fields.String(input, "startDateSameAsReleaseDate")
	p := &PlacementDate{
		Base:        form.Base{App: app, From: previous},
		body:        placementDateBody{StartDateSameAsReleaseDate: same},
		releaseDate: releaseDate,
	}
	if same == fields.No {
		p.date = fields.ReadDate(input, "startDate")
		p.body.StartDate = p.date.ISO()
	}
	return p, nil
}

func (p *PlacementDate) Title() string {
	if p.releaseDate == "" {
		return "Is the release date the date you want the placement to start?"
	}
	return fmt.Sprintf("Is %s the date you want the placement to start?", fields.FormatDate(p.releaseDate))
}

func (p *PlacementDate) Body() any { return p.body }

func (p *PlacementDate) Next() string { return PagePlacementPurpose }

func (p *PlacementDate) Previous() string { return PageReleaseDate }

func (p *PlacementDate) Errors() form.Errors {
	errs := form.Errors{}
	if !fields.IsYesNo(p.body.StartDateSameAsReleaseDate) {
		errs.Add("startDateSameAsReleaseDate", "You must specify if the start date is the same as the release date")
		return errs
	}
	if p.body.StartDateSameAsReleaseDate == fields.No {
		if msg := fields.DateError(p.date, "placement start date"); msg != "" {
			errs.Add("startDate", msg)
		}
	}
	return errs
}

func (p *PlacementDate) Response() []form.Answer {
	out := []form.Answer{{Question: p.Title(), Answer: fields.YesNoLabel(p.body.StartDateSameAsReleaseDate)}}
	if p.body.StartDateSameAsReleaseDate == fields.No {
		out = append(out, form.Answer{Question: "Placement start date", Answer: fields.FormatDate(p.body.StartDate)})
	}
	return out
}

// --- placement-purpose ---

const otherPurpose = "otherReason"

var placementPurposes = fields.Choices{
	{Value: "publicProtection", Label: "Public protection"},
	{Value: "preventContact", Label: "Prevent contact"},
	{Value: "readjust", Label: "Help individual readjust to life outside custody"},
	{Value: "drugAlcoholMonitoring", Label: "Provide drug or alcohol monitoring"},
	{Value: "preventSelfHarm", Label: "Prevent self harm or suicide"},
	{Value: otherPurpose, Label: "Other (please specify)"},
}

type placementPurposeBody struct {
	PlacementPurposes []string `json:"placementPurposes"`
	OtherReason       string   `json:"otherReason,omitempty"`
}

// PlacementPurpose is the last page of basic information.
type PlacementPurpose struct {
	form.Base
	body placementPurposeBody
}

func newPlacementPurpose(input form.Input, app *application.Application, previous string) (form.Page, error) {
	purposes := placementPurposes.Filter(fields.Strings(input, "placementPurposes"))
	return &PlacementPurpose{
		Base: form.Base{App: app, From: previous},
		body: placementPurposeBody{
			PlacementPurposes: purposes,
			OtherReason:       fields.OnlyIf(fields.Contains(purposes, otherPurpose), fields.String(input, "otherReason")),
		},
	}, nil
}

func (p *PlacementPurpose) Title() string {
	return "What is the purpose of the Approved Premises (AP) placement?"
}

func (p *PlacementPurpose) Body() any { return p.body }

func (p *PlacementPurpose) Next() string { return "" }

func (p *PlacementPurpose) Previous() string {
	if form.OptionalString(p.App, TaskBasicInformation, PageReleaseDate, "knowReleaseDate") == fields.Yes {
		return PagePlacementDate
	}
	return PageOralHearing
}

func (p *PlacementPurpose) Errors() form.Errors {
	errs := form.Errors{}
	if len(p.body.PlacementPurposes) == 0 {
		errs.Add("placementPurposes", "You must choose at least one placement purpose")
	}
	if fields.Contains(p.body.PlacementPurposes, otherPurpose) && fields.Blank(p.body.OtherReason) {
		errs.Add("otherReason", "You must explain the reason")
	}
	return errs
}

func (p *PlacementPurpose) Response() []form.Answer {
	out := []form.Answer{{Question: p.Title(), Answer: fields.JoinLabels(p.body.PlacementPurposes, placementPurposes.Labels())}}
	if fields.Contains(p.body.PlacementPurposes, otherPurpose) {
		out = append(out, form.Answer{Question: "Other purpose for AP placement", Answer: p.body.OtherReason})
	}
	return out
}

// basicInformation is the first task of the form.
var basicInformation = form.Task{
	Slug:  TaskBasicInformation,
	Title: "Basic information",
	Pages: []form.Descriptor{
		{Slug: PageTransgender, New: newTransgender, Links: []string{PageComplexCaseBoard, PageSentenceType}},
		{Slug: PageComplexCaseBoard, New: newComplexCaseBoard, Links: []string{PageSentenceType, PageTransgender}},
		{Slug: PageSentenceType, New: newSentenceType, Links: []string{PageReleaseType, PageSituation, PageReleaseDate, PageComplexCaseBoard, PageTransgender}},
		{Slug: PageReleaseType, New: newReleaseType, Links: []string{PageReleaseDate, PageSentenceType}},
		{Slug: PageSituation, New: newSituation, Links: []string{PageReleaseDate, PageSentenceType}},
		{Slug: PageReleaseDate, New: newReleaseDate, Links: []string{PagePlacementDate, PageOralHearing, PageSituation, PageSentenceType, PageReleaseType}},
		{Slug: PageOralHearing, New: newOralHearing, Links: []string{PagePlacementPurpose, PageReleaseDate}},
		{Slug: PagePlacementDate, New: newPlacementDate, Links: []string{PagePlacementPurpose, PageReleaseDate}},
		{Slug: PagePlacementPurpose, New: newPlacementPurpose, Links: []string{PagePlacementDate, PageOralHearing}},
	},
}
