package apply

import (
	"github.com/HendryAvila/apply-wizard/internal/fields"
	"github.com/HendryAvila/apply-wizard/internal/form"
	"github.com/HendryAvila/apply-wizard/internal/pages/shared"
)

var furtherConsiderationPages = []shared.YesNoSpec{
	{
		Slug:     PageRoomSharing,
		Title:    "Room sharing",
		NextPage: PageVulnerability,
		Questions: []shared.Question{
			{Key: "riskToStaff", Question: "Is there any evidence that the person may pose a risk to AP staff?", Error: "You must specify if there is a risk to staff"},
			{Key: "riskToOthers", Question: "Is there any evidence that the person may pose a risk to other AP residents?", Error: "You must specify if there is a risk to others"},
			{Key: "sharingConcerns", Question: "Is there any evidence that the person may have problems sharing a room?", Error: "You must specify if there are sharing concerns"},
		},
	},
	{
		Slug:         PageVulnerability,
		Title:        "Vulnerability",
		NextPage:     PagePreviousPlacements,
		PreviousPage: PageRoomSharing,
		Questions: []shared.Question{
			{Key: "exploitable", Question: "Is the person at risk of exploitation?", Error: "You must specify if the person is exploitable"},
			{Key: "exploitableToOthers", Question: "Is there evidence the person may exploit others?", Error: "You must specify if the person may exploit others"},
		},
	},
	{
		Slug:         PagePreviousPlacements,
		Title:        "Previous placements",
		NextPage:     PageCatering,
		PreviousPage: PageVulnerability,
		Questions: []shared.Question{
			{Key: "previousPlacement", Question: "Has the person previously stayed in an AP?", Error: "You must specify if the person has been in an AP before", DetailHint: "You must describe the previous placement"},
		},
	},
	{
		Slug:         PageCatering,
		Title:        "Catering requirements",
		NextPage:     PageArson,
		PreviousPage: PagePreviousPlacements,
		Questions: []shared.Question{
			{Key: "catering", Question: "Can the person be placed in a self-catered Approved Premises (AP)?", Error: "You must specify if the person can be placed in a self-catered AP", DetailWhen: fields.No, DetailHint: "You must explain why the person cannot self-cater"},
		},
	},
	{
		Slug:         PageArson,
		Title:        "Arson",
		PreviousPage: PageCatering,
		Questions: []shared.Question{
			{Key: "arson", Question: "Does the person pose an arson risk?", Error: "You must specify if the person poses an arson risk", DetailHint: "You must describe the arson risk"},
		},
	},
}

func furtherConsiderationDescriptors() []form.Descriptor {
	out := make([]form.Descriptor, 0, len(furtherConsiderationPages))
	for _, spec := range furtherConsiderationPages {
		out = append(out, spec.Descriptor())
	}
	return out
}

var furtherConsiderations = form.Task{
	Slug:  TaskFurtherConsiderations,
	Title: "Detail further considerations for placement",
	Pages: furtherConsiderationDescriptors(),
}
