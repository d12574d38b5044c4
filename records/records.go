// Package records defines the voter record schemas produced by the scraper.
package records

import "strings"

// NoDataSentinel is the placeholder the portal renders for fields it has no
// value for. It must never be stored as a field value.
const NoDataSentinel = "No Data Provided"

// Summary holds the basic voter information parsed from one search-result
// row. It is built once per row and never mutated afterwards.
type Summary struct {
	Name            string `json:"name"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	ZipCode         string `json:"zip_code"`
	Phone           string `json:"phone,omitempty"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	CalculatedParty string `json:"calculated_party,omitempty"`
	ViewVoterURL    string `json:"view_voter_url,omitempty"`
	VoterID         string `json:"voter_id,omitempty"`
	Precinct        string `json:"precinct,omitempty"`
	Status          string `json:"status,omitempty"`

	// Detail is populated only when detail extraction is enabled and the
	// detail page for this row could be reached and verified.
	Detail *Detail `json:"detailed_info,omitempty"`
}

// Detail holds the comprehensive voter information extracted from a detail
// page. Every field is optional; an empty value means "not observed", never
// "known to be empty". It is populated incrementally by independent
// per-section extractors and is terminal once all sections have been visited.
type Detail struct {
	// Identity
	Name       string `json:"name"`
	FirstName  string `json:"first_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Birthday   string `json:"birthday,omitempty"`
	Age        string `json:"age,omitempty"`
	Gender     string `json:"gender,omitempty"`

	// Contact
	MobilePhone              string `json:"mobile_phone,omitempty"`
	MobilePhoneReliability   string `json:"mobile_phone_reliability,omitempty"`
	LandlinePhone            string `json:"landline_phone,omitempty"`
	LandlinePhoneReliability string `json:"landline_phone_reliability,omitempty"`
	PrimaryAddress           string `json:"primary_address,omitempty"`
	SecondaryAddress         string `json:"secondary_address,omitempty"`
	Facebook                 string `json:"facebook,omitempty"`
	Instagram                string `json:"instagram,omitempty"`
	Twitter                  string `json:"twitter,omitempty"`

	// Registration
	RegistrationStatus string `json:"registration_status,omitempty"`
	RegistrationDate   string `json:"registration_date,omitempty"`
	LastActivityDate   string `json:"last_activity_date,omitempty"`
	OfficialParty      string `json:"official_party,omitempty"`
	ObservedParty      string `json:"observed_party,omitempty"`
	CalculatedParty    string `json:"calculated_party,omitempty"`

	// Ethnicity
	StateReportedEthnicity string `json:"state_reported_ethnicity,omitempty"`
	ModeledEthnicity       string `json:"modeled_ethnicity,omitempty"`
	ObservedEthnicity      string `json:"observed_ethnicity,omitempty"`

	// Identification numbers
	GOPDCVoterKey          string `json:"gopdc_voter_key,omitempty"`
	RNCClientID            string `json:"rnc_client_id,omitempty"`
	StateVoterID           string `json:"state_voter_id,omitempty"`
	JurisdictionalVoterID  string `json:"jurisdictional_voter_id,omitempty"`
	RNCRegistrationID      string `json:"rnc_registration_id,omitempty"`

	// Districting
	CongressionalDistrict string   `json:"congressional_district,omitempty"`
	SenateDistrict        string   `json:"senate_district,omitempty"`
	LegislativeDistrict   string   `json:"legislative_district,omitempty"`
	Jurisdiction          string   `json:"jurisdiction,omitempty"`
	Precinct              string   `json:"precinct,omitempty"`
	PrecinctNumber        string   `json:"precinct_number,omitempty"`
	CustomDistricts       []string `json:"custom_districts,omitempty"`

	// Vote history. The table itself is recognized but not parsed into the
	// map yet; only the early vote date is extracted.
	EarlyVoteDate string                       `json:"early_vote_date,omitempty"`
	VoteHistory   map[string]map[string]string `json:"vote_history,omitempty"`

	// Frequency scores
	OverallFrequency       string `json:"overall_frequency,omitempty"`
	GeneralFrequency       string `json:"general_frequency,omitempty"`
	PrimaryFrequency       string `json:"primary_frequency,omitempty"`
	VoterRegularityGeneral string `json:"voter_regularity_general,omitempty"`
	VoterRegularityPrimary string `json:"voter_regularity_primary,omitempty"`

	// Geography
	DMA         string `json:"dma,omitempty"`
	CensusBlock string `json:"census_block,omitempty"`
	Turf        string `json:"turf,omitempty"`

	// Tags and free-text notes, in scrape order.
	Tags  []string `json:"tags,omitempty"`
	Notes []string `json:"notes,omitempty"`
}

// IsNoData reports whether a scraped value is the portal's "no data"
// placeholder (exact or prefix match) or effectively empty.
func IsNoData(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.HasPrefix(v, NoDataSentinel)
}

// Set assigns v to dst only if dst is still unset and v carries real data.
// Extractors run in order from most to least specific, so refusing to
// overwrite gives first-writer-wins semantics across section handlers.
func Set(dst *string, v string) {
	if *dst != "" {
		return
	}
	v = strings.TrimSpace(v)
	if IsNoData(v) {
		return
	}
	*dst = v
}

// AssembleName rebuilds the display name from the name components, if any
// were extracted. The display name is the one field a record must carry.
func (d *Detail) AssembleName() {
	if d.FirstName == "" && d.LastName == "" {
		return
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{d.FirstName, d.MiddleName, d.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	d.Name = strings.Join(parts, " ")
}
