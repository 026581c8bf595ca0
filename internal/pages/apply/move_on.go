package apply

import (
	"fmt"

	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/fields"
	"github.com/HendryAvila/apply-wizard/internal/form"
)

// maxPlacementWeeks is the longest placement that can be requested.
const maxPlacementWeeks = 52

// --- placement-duration ---

type placementDurationBody struct {
	DifferentDuration string `json:"differentDuration"`
	Weeks             string `json:"durationWeeks,omitempty"`
	Days              string `json:"durationDays,omitempty"`
	Reason            string `json:"reason,omitempty"`
}

// PlacementDuration records whether the standard placement length fits,
// and the requested length otherwise.
type PlacementDuration struct {
	form.Base
	body placementDurationBody
}

func newPlacementDuration(input form.Input, app *application.Application, previous string) (form.Page, error) {
	different := fields.String(input, "differentDuration")
	yes := different == fields.Yes
	return &PlacementDuration{
		Base: form.Base{App: app, From: previous},
		body: placementDurationBody{
			DifferentDuration: different,
			Weeks:             fields.OnlyIf(yes, fields.String(input, "durationWeeks")),
			Days:              fields.OnlyIf(yes, fields.String(input, "durationDays")),
			Reason:            fields.OnlyIf(yes, fields.String(input, "reason")),
		},
	}, nil
}

func (p *PlacementDuration) Title() string { return "Placement duration and move on" }

func (p *PlacementDuration) Body() any { return p.body }

func (p *PlacementDuration) Next() string { return PageRelocationRegion }

func (p *PlacementDuration) Previous() string { return "" }

func (p *PlacementDuration) Errors() form.Errors {
	errs := form.Errors{}
	if !fields.IsYesNo(p.body.DifferentDuration) {
		errs.Add("differentDuration", "You must specify if the person needs a different placement duration")
		return errs
	}
	if p.body.DifferentDuration == fields.No {
		return errs
	}
	weeks, wok := fields.Int(form.Input{"w": p.body.Weeks}, "w")
	days, dok := fields.Int(form.Input{"d": p.body.Days}, "d")
	switch {
	case !wok && !dok:
		errs.Add("duration", "You must specify the duration of the placement")
	case weeks < 0 || days < 0 || (p.body.Days != "" && !dok) || (p.body.Weeks != "" && !wok):
		errs.Add("duration", "The duration of the placement must be a whole number of weeks and days")
	case weeks*7+days > maxPlacementWeeks*7:
		errs.Add("duration", fmt.Sprintf("The duration of the placement must be %d weeks or less", maxPlacementWeeks))
	}
	if fields.Blank(p.body.Reason) {
		errs.Add("reason", "You must specify the reason for the different placement duration")
	}
	return errs
}

func (p *PlacementDuration) Response() []form.Answer {
	out := []form.Answer{{Question: "Does this application require a different placement duration?", Answer: fields.YesNoLabel(p.body.DifferentDuration)}}
	if p.body.DifferentDuration == fields.Yes {
		weeks, _ := fields.Int(form.Input{"w": p.body.Weeks}, "w")
		days, _ := fields.Int(form.Input{"d": p.body.Days}, "d")
		out = append(out,
			form.Answer{Question: "How long should the person stay at the AP for?", Answer: fmt.Sprintf("%s, %s", fields.Pluralize(weeks, "week"), fields.Pluralize(days, "day"))},
			form.Answer{Question: "Why does the person need a different placement duration?", Answer: p.body.Reason},
		)
	}
	return out
}

// --- relocation-region ---

type relocationRegionBody struct {
	PostcodeArea string `json:"postcodeArea"`
}

// RelocationRegion records where the person is likely to live afterwards.
type RelocationRegion struct {
	form.Base
	body relocationRegionBody
}

func newRelocationRegion(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &RelocationRegion{
		Base: form.Base{App: app, From: previous},
		body: relocationRegionBody{PostcodeArea: fields.String(input, "postcodeArea")},
	}, nil
}

func (p *RelocationRegion) Title() string {
	return "Where is the person most likely to live when they move on from the AP?"
}

func (p *RelocationRegion) Body() any { return p.body }

func (p *RelocationRegion) Next() string { return PagePlansInPlace }

func (p *RelocationRegion) Previous() string { return PagePlacementDuration }

func (p *RelocationRegion) Errors() form.Errors {
	errs := form.Errors{}
	if fields.Blank(p.body.PostcodeArea) {
		errs.Add("postcodeArea", "You must enter a postcode area")
	}
	return errs
}

func (p *RelocationRegion) Response() []form.Answer {
	return []form.Answer{{Question: p.Title(), Answer: p.body.PostcodeArea}}
}

// --- plans-in-place ---

type plansInPlaceBody struct {
	ArePlansInPlace string `json:"arePlansInPlace"`
}

// PlansInPlace asks whether move-on arrangements already exist.
type PlansInPlace struct {
	form.Base
	body plansInPlaceBody
}

func newPlansInPlace(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &PlansInPlace{
		Base: form.Base{App: app, From: previous},
		body: plansInPlaceBody{ArePlansInPlace: fields.String(input, "arePlansInPlace")},
	}, nil
}

func (p *PlansInPlace) Title() string {
	return "Are move on arrangements already in place for when the person leaves the AP?"
}

func (p *PlansInPlace) Body() any { return p.body }

func (p *PlansInPlace) Next() string {
	if p.body.ArePlansInPlace == fields.Yes {
		return PageTypeOfAccommodation
	}
	return ""
}

func (p *PlansInPlace) Previous() string { return PageRelocationRegion }

func (p *PlansInPlace) Errors() form.Errors {
	errs := form.Errors{}
	if !fields.IsYesNo(p.body.ArePlansInPlace) {
		errs.Add("arePlansInPlace", "You must specify if move on arrangements are in place")
	}
	return errs
}

func (p *PlansInPlace) Response() []form.Answer {
	return []form.Answer{{Question: p.Title(), Answer: fields.YesNoLabel(p.body.ArePlansInPlace)}}
}

// --- type-of-accommodation ---

var accommodationTypes = fields.Choices{
	{Value: "ownAccommodation", Label: "Own accommodation"},
	{Value: "councilHousing", Label: "Council housing"},
	{Value: "familyOrFriends", Label: "Living with family or friends"},
	{Value: "supportedHousing", Label: "Supported housing"},
	{Value: "privateRented", Label: "Private rented accommodation"},
	{Value: "foreignNational", Label: "Removal (foreign national)"},
	{Value: "other", Label: "Other"},
}

type typeOfAccommodationBody struct {
	AccommodationType      string `json:"accommodationType"`
	OtherAccommodationType string `json:"otherAccommodationType,omitempty"`
}

// TypeOfAccommodation records the planned accommodation after the AP.
type TypeOfAccommodation struct {
	form.Base
	body typeOfAccommodationBody
}

func newTypeOfAccommodation(input form.Input, app *application.Application, previous string) (form.Page, error) {
	kind := fields.String(input, "accommodationType")
	return &TypeOfAccommodation{
		Base: form.Base{App: app, From: previous},
		body: typeOfAccommodationBody{
			AccommodationType:      kind,
			OtherAccommodationType: fields.OnlyIf(kind == "other", fields.String(input, "otherAccommodationType")),
		},
	}, nil
}

func (p *TypeOfAccommodation) Title() string {
	return "What type of accommodation will the person have when they leave the AP?"
}

func (p *TypeOfAccommodation) Body() any { return p.body }

func (p *TypeOfAccommodation) Next() string { return "" }

func (p *TypeOfAccommodation) Previous() string { return PagePlansInPlace }

func (p *TypeOfAccommodation) Errors() form.Errors {
	errs := form.Errors{}
	if !accommodationTypes.Has(p.body.AccommodationType) {
		errs.Add("accommodationType", "You must specify the type of accommodation")
	} else if p.body.AccommodationType == "other" && fields.Blank(p.body.OtherAccommodationType) {
		errs.Add("otherAccommodationType", "You must specify the type of accommodation")
	}
	return errs
}

func (p *TypeOfAccommodation) Response() []form.Answer {
	answer := fields.Label(p.body.AccommodationType, accommodationTypes.Labels())
	if p.body.AccommodationType == "other" {
		answer = p.body.OtherAccommodationType
	}
	return []form.Answer{{Question: p.Title(), Answer: answer}}
}

var moveOn = form.Task{
	Slug:  TaskMoveOn,
	Title: "Add move on information",
	Pages: []form.Descriptor{
		{Slug: PagePlacementDuration, New: newPlacementDuration, Links: []string{PageRelocationRegion}},
		{Slug: PageRelocationRegion, New: newRelocationRegion, Links: []string{PagePlansInPlace, PagePlacementDuration}},
		{Slug: PagePlansInPlace, New: newPlansInPlace, Links: []string{PageTypeOfAccommodation, PageRelocationRegion}},
		{Slug: PageTypeOfAccommodation, New: newTypeOfAccommodation, Links: []string{PagePlansInPlace}},
	},
}
