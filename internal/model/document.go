package model

import "sort"

// DocumentType identifies the kind of clinical document under review.
type DocumentType string

const (
	DocumentAdmissionRecord  DocumentType = "admission_record"
	DocumentProgressNote     DocumentType = "progress_note"
	DocumentDischargeSummary DocumentType = "discharge_summary"
)

// Well-known section names used by the default rule sets.
const (
	SectionChiefComplaint = "chief_complaint"
	SectionPresentIllness = "present_illness"
	SectionPastHistory    = "past_history"
	SectionPhysicalExam   = "physical_exam"
	SectionDiagnosis      = "diagnosis"
	SectionTreatmentPlan  = "treatment_plan"
)

// Document is one segmented clinical document as supplied by the host system.
// Section segmentation is the caller's responsibility; the pipeline never
// re-splits text.
type Document struct {
	DocumentType DocumentType      `json:"document_type" yaml:"document_type"`
	Sections     map[string]string `json:"sections" yaml:"sections"`
}

// SectionNames returns the section names in sorted order so that every
// iteration over a document is deterministic.
func (d Document) SectionNames() []string {
	names := make([]string, 0, len(d.Sections))
	for name := range d.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
