// Package apply declares the Approved Premises application form: its
// sections, tasks and every page a caseworker fills in.
package apply

import (
	"github.com/HendryAvila/apply-wizard/internal/form"
	"github.com/HendryAvila/apply-wizard/internal/pages/shared"
)

// Name is the form name used in paths and logs.
const Name = "apply"

// Task slugs.
const (
	TaskBasicInformation        = "basic-information"
	TaskTypeOfAP                = "type-of-ap"
	TaskOASysImport             = "oasys-import"
	TaskRiskManagementFeatures  = "risk-management-features"
	TaskPrisonInformation       = "prison-information"
	TaskLocationFactors         = "location-factors"
	TaskAccessAndHealthcare     = "access-and-healthcare"
	TaskFurtherConsiderations   = "further-considerations"
	TaskMoveOn                  = "move-on"
	TaskAttachRequiredDocuments = "attach-required-documents"
	TaskCheckYourAnswers        = "check-your-answers"
)

// Services lists every reference data lookup made by apply pages.
var Services = []string{
	ServiceOASysSelections,
	ServiceRoshSummary,
	ServiceRiskToSelf,
	ServicePrisonCaseNotes,
	ServiceAdjudications,
	ServiceDocuments,
}

// Page slugs. Slugs are unique within their task only; risk management
// reuses its task slug for its first page.
const (
	PageTransgender      = "transgender"
	PageComplexCaseBoard = "complex-case-board"
	PageSentenceType     = "sentence-type"
	PageReleaseType      = "release-type"
	PageSituation        = "situation"
	PageReleaseDate      = "release-date"
	PageOralHearing      = "oral-hearing"
	PagePlacementDate    = "placement-date"
	PagePlacementPurpose = "placement-purpose"

	PageAPType           = "ap-type"
	PagePipeReferral     = "pipe-referral"
	PagePipeOPDScreening = "pipe-opd-screening"
	PageESAPScreening    = "esap-placement-screening"
	PageESAPSecreting    = "esap-placement-secreting"
	PageESAPCCTV         = "esap-placement-cctv"

	PageOptionalOASysSections = "optional-oasys-sections"
	PageRoshSummary           = "rosh-summary"
	PageRiskToSelf            = "risk-to-self"

	PageRiskManagementFeatures      = "risk-management-features"
	PageConvictedOffences           = "convicted-offences"
	PageTypeOfConvictedOffence      = "type-of-convicted-offence"
	PageRehabilitativeInterventions = "rehabilitative-interventions"

	PageCaseNotes = "case-notes"

	PageDescribeLocationFactors = "describe-location-factors"
	PagePDUTransfer             = "pdu-transfer"

	PageAccessNeeds         = "access-needs"
	PageAccessNeedsMobility = "access-needs-mobility"

	PageRoomSharing        = "room-sharing"
	PageVulnerability      = "vulnerability"
	PagePreviousPlacements = "previous-placements"
	PageCatering           = "catering"
	PageArson              = "arson"

	PagePlacementDuration   = "placement-duration"
	PageRelocationRegion    = "relocation-region"
	PagePlansInPlace        = "plans-in-place"
	PageTypeOfAccommodation = "type-of-accommodation"

	PageAttachDocuments = "attach-documents"
)

var checkYourAnswers = form.Task{
	Slug:  TaskCheckYourAnswers,
	Title: "Check your answers",
	Pages: []form.Descriptor{shared.ReviewDescriptor},
}

// Form is the apply form graph.
var Form = form.MustDefine(Name,
	form.Section{
		Title: "Reasons for placement",
		Tasks: []form.Task{basicInformation, typeOfAP},
	},
	form.Section{
		Title: "Risk and need factors",
		Tasks: []form.Task{
			oasysImport,
			riskManagementFeatures,
			prisonInformation,
			locationFactors,
			accessAndHealthcare,
			furtherConsiderations,
		},
	},
	form.Section{
		Title: "Considerations for when the placement ends",
		Tasks: []form.Task{moveOn},
	},
	form.Section{
		Title: "Add documents",
		Tasks: []form.Task{attachRequiredDocuments},
	},
	form.Section{
		Title: "Check your answers",
		Tasks: []form.Task{checkYourAnswers},
	},
)
