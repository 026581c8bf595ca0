package apply

import (
	"regexp"
	"strings"

	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/fields"
	"github.com/HendryAvila/apply-wizard/internal/form"
)

// postcodeArea matches the outward part of a UK postcode, e.g. "SW1A".
var postcodeArea = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]?$`)

// --- describe-location-factors ---

type locationFactorsBody struct {
	PostcodeArea      string `json:"postcodeArea"`
	PositiveFactors   string `json:"positiveFactors"`
	RestrictionDetail string `json:"restrictionDetail,omitempty"`
	Restrictions      string `json:"restrictions"`
	AlternativeRadius string `json:"alternativeRadiusAccepted"`
	DifferentPDU      string `json:"differentPDU"`
}

// DescribeLocationFactors captures the preferred placement location.
type DescribeLocationFactors struct {
	form.Base
	body locationFactorsBody
}

func newDescribeLocationFactors(input form.Input, app *application.Application, previous string) (form.Page, error) {
	restrictions := fields.String(input, "restrictions")
	return &DescribeLocationFactors{
		Base: form.Base{App: app, From: previous},
		body: locationFactorsBody{
			PostcodeArea:      strings.ToUpper(strings.TrimSpace(fields.String(input, "postcodeArea"))),
			PositiveFactors:   fields.String(input, "positiveFactors"),
			Restrictions:      restrictions,
			RestrictionDetail: fields.OnlyIf(restrictions == fields.Yes, fields.String(input, "restrictionDetail")),
			AlternativeRadius: fields.String(input, "alternativeRadiusAccepted"),
			DifferentPDU:      fields.String(input, "differentPDU"),
		},
	}, nil
}

func (p *DescribeLocationFactors) Title() string { return "Location factors" }

func (p *DescribeLocationFactors) Body() any { return p.body }

func (p *DescribeLocationFactors) Next() string {
	if p.body.DifferentPDU == fields.Yes {
		return PagePDUTransfer
	}
	return ""
}

func (p *DescribeLocationFactors) Previous() string { return "" }

func (p *DescribeLocationFactors) Errors() form.Errors {
	errs := form.Errors{}
	switch {
	case p.body.PostcodeArea == "":
		errs.Add("postcodeArea", "You must specify a postcode area")
	case !postcodeArea.MatchString(p.body.PostcodeArea):
		errs.Add("postcodeArea", "You must enter a valid postcode area, for example SW1A")
	}
	if fields.Blank(p.body.PositiveFactors) {
		errs.Add("positiveFactors", "You must describe the positive factors of the preferred location")
	}
	if !fields.IsYesNo(p.body.Restrictions) {
		errs.Add("restrictions", "You must specify if there are any restrictions linked to placement location")
	} else if p.body.Restrictions == fields.Yes && fields.Blank(p.body.RestrictionDetail) {
		errs.Add("restrictionDetail", "You must provide details of any restrictions linked to placement location")
	}
	if !fields.IsYesNo(p.body.AlternativeRadius) {
		errs.Add("alternativeRadiusAccepted", "You must specify if a placement in an alternative area would be considered")
	}
	if !fields.IsYesNo(p.body.DifferentPDU) {
		errs.Add("differentPDU", "You must specify if the person is moving to a different probation delivery unit")
	}
	return errs
}

func (p *DescribeLocationFactors) Response() []form.Answer {
	restrictions := fields.YesNoLabel(p.body.Restrictions)
	if p.body.Restrictions == fields.Yes {
		restrictions += " - " + p.body.RestrictionDetail
	}
	return []form.Answer{
		{Question: "Postcode area for the AP placement", Answer: p.body.PostcodeArea},
		{Question: "Describe any positive factors of the preferred location", Answer: p.body.PositiveFactors},
		{Question: "Are there any restrictions linked to placement location?", Answer: restrictions},
		{Question: "If an AP placement is not available in this area, would a placement in an alternative area be considered?", Answer: fields.YesNoLabel(p.body.AlternativeRadius)},
		{Question: "Is the person moving to a different probation delivery unit (PDU)?", Answer: fields.YesNoLabel(p.body.DifferentPDU)},
	}
}

// --- pdu-transfer ---

type pduTransferBody struct {
	Transferred           string `json:"transferStatus"`
	ProbationPractitioner string `json:"probationPractitioner,omitempty"`
}

var transferStatuses = fields.Choices{
	{Value: "yes", Label: "Yes, the transfer has been agreed"},
	{Value: "noNeedToMakeArrangements", Label: "No, arrangements still need to be made"},
}

// PDUTransfer records whether a transfer to the receiving PDU is agreed.
type PDUTransfer struct {
	form.Base
	body pduTransferBody
}

func newPDUTransfer(input form.Input, app *application.Application, previous string) (form.Page, error) {
	status := fields.String(input, "transferStatus")
	return &PDUTransfer{
		Base: form.Base{App: app, From: previous},
		body: pduTransferBody{
			Transferred:           status,
			ProbationPractitioner: fields.OnlyIf(status == "yes", fields.String(input, "probationPractitioner")),
		},
	}, nil
}

func (p *PDUTransfer) Title() string {
	return "Have you agreed the transfer with the receiving probation delivery unit (PDU)?"
}

func (p *PDUTransfer) Body() any { return p.body }

func (p *PDUTransfer) Next() string { return "" }

func (p *PDUTransfer) Previous() string { return PageDescribeLocationFactors }

func (p *PDUTransfer) Errors() form.Errors {
	errs := form.Errors{}
	if !transferStatuses.Has(p.body.Transferred) {
		errs.Add("transferStatus", "You must specify if the transfer has been agreed")
	} else if p.body.Transferred == "yes" && fields.Blank(p.body.ProbationPractitioner) {
		errs.Add("probationPractitioner", "You must provide the name of the probation practitioner you agreed the transfer with")
	}
	return errs
}

func (p *PDUTransfer) Response() []form.Answer {
	out := []form.Answer{{Question: p.Title(), Answer: fields.Label(p.body.Transferred, transferStatuses.Labels())}}
	if p.body.Transferred == "yes" {
		out = append(out, form.Answer{Question: "Who have you agreed the transfer with?", Answer: p.body.ProbationPractitioner})
	}
	return out
}

var locationFactors = form.Task{
	Slug:  TaskLocationFactors,
	Title: "Describe location factors",
	Pages: []form.Descriptor{
		{Slug: PageDescribeLocationFactors, New: newDescribeLocationFactors, Links: []string{PagePDUTransfer}},
		{Slug: PagePDUTransfer, New: newPDUTransfer, Links: []string{PageDescribeLocationFactors}},
	},
}
