// Package detail extracts comprehensive voter records from detail pages.
//
// A detail page is a sequence of titled article sections. Each known section
// has its own extractor; sections are independent, so a malformed one cannot
// lose the progress already recorded by the others. Unrecognized sections
// fall through to a generic label/value extractor.
package detail

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"voterlookup/htmltext"
	"voterlookup/records"
)

// sectionHandler populates rec from one article section. Handlers never
// overwrite fields set by an earlier handler (records.Set).
type sectionHandler func(section *goquery.Selection, rec *records.Detail)

// sections maps a case-insensitive title substring to its handler, in
// dispatch order. Tags is recognized but deliberately skipped.
var sections = []struct {
	title   string
	handler sectionHandler
}{
	{"personal info", extractPersonalInfo},
	{"contact info", extractContactInfo},
	{"voter identification", extractIdentification},
	{"voter info", extractVoterInfo},
	{"district info", extractDistrictInfo},
	{"vote history", extractVoteHistory},
	{"voter frequency", extractVoterFrequency},
	{"geographical location", extractGeography},
	{"tags", nil},
	{"notes", extractNotes},
}

// Extract builds a Detail record from a parsed detail page. Every section is
// individually guarded; extraction failures surface as missing fields, never
// as an error.
func Extract(doc *goquery.Document, logger *zap.Logger) *records.Detail {
	rec := &records.Detail{}

	articles := doc.Find("article")
	logger.Debug("extracting detail sections", zap.Int("count", articles.Length()))

	articles.Each(func(i int, section *goquery.Selection) {
		extractSection(section, rec, logger)
	})

	rec.AssembleName()
	return rec
}

func extractSection(section *goquery.Selection, rec *records.Detail, logger *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("section extractor panicked", zap.Any("panic", r))
		}
	}()

	text := strings.ToLower(section.Text())
	for _, s := range sections {
		if !strings.Contains(text, s.title) {
			continue
		}
		if s.handler != nil {
			s.handler(section, rec)
		}
		return
	}

	logger.Debug("unknown section, using generic extraction")
	extractGeneric(section, rec)
}

func extractPersonalInfo(section *goquery.Selection, rec *records.Detail) {
	records.Set(&rec.FirstName, value(section, "First Name", "FirstName"))
	records.Set(&rec.MiddleName, value(section, "Middle Name", "MiddleName"))
	records.Set(&rec.LastName, value(section, "Last Name", "LastName"))
	records.Set(&rec.Birthday, value(section, "Birthday", "Birthday"))
	records.Set(&rec.Age, value(section, "Age", "Age"))
	records.Set(&rec.Gender, value(section, "Gender", "Gender"))
}

func extractContactInfo(section *goquery.Selection, rec *records.Detail) {
	records.Set(&rec.MobilePhone, value(section, "Mobile Phone", "MobilePhone"))
	records.Set(&rec.MobilePhoneReliability, value(section, "TRC", "PhoneTRC"))
	records.Set(&rec.LandlinePhone, value(section, "Landline Phone", "LandlinePhone"))
	records.Set(&rec.LandlinePhoneReliability, value(section, "Landline TRC", "LandlineTRC"))

	// Addresses span two lines: street, then city/state/zip.
	records.Set(&rec.PrimaryAddress, twoLineAddress(section, "Primary Address", "PrimaryAddress"))
	records.Set(&rec.SecondaryAddress, twoLineAddress(section, "Secondary Address", "SecondaryAddress"))

	records.Set(&rec.Facebook, value(section, "Facebook", "Facebook"))
	records.Set(&rec.Instagram, value(section, "Instagram", "Instagram"))
	records.Set(&rec.Twitter, value(section, "Twitter", "Twitter"))
}

func twoLineAddress(section *goquery.Selection, label, token string) string {
	street := value(section, label, token)
	if street == "" {
		return ""
	}
	if second := labelSiblingSecondLine(section, label); second != "" && !records.IsNoData(second) {
		return street + ", " + second
	}
	return street
}

func extractVoterInfo(section *goquery.Selection, rec *records.Detail) {
	records.Set(&rec.RegistrationStatus, value(section, "Registration Status", "RegistrationStatus"))
	records.Set(&rec.RegistrationDate, value(section, "Registration Date", "RegistrationDate"))
	records.Set(&rec.LastActivityDate, value(section, "Last Activity Date", "LastActivity"))
	records.Set(&rec.OfficialParty, value(section, "Official Party", "OfficialParty"))
	records.Set(&rec.ObservedParty, value(section, "Observed Party", "ObservedParty"))
	records.Set(&rec.CalculatedParty, value(section, "Calculated Party", "CalculatedParty"))
	records.Set(&rec.StateReportedEthnicity, value(section, "State Reported Ethnicity", "StateEthnicity"))
	records.Set(&rec.ModeledEthnicity, value(section, "Modeled Ethnicity", "ModeledEthnicity"))
	records.Set(&rec.ObservedEthnicity, value(section, "Observed Ethnicity", "ObservedEthnicity"))
}

func extractIdentification(section *goquery.Selection, rec *records.Detail) {
	records.Set(&rec.GOPDCVoterKey, value(section, "GOPDC Voter Key", "VoterKey"))
	records.Set(&rec.RNCClientID, value(section, "RNC Client ID", "ClientId"))
	records.Set(&rec.StateVoterID, value(section, "State Voter ID", "StateVoterId"))
	records.Set(&rec.JurisdictionalVoterID, value(section, "Jurisdictional Voter ID", "JurisdictionalVoterId"))
	records.Set(&rec.RNCRegistrationID, value(section, "RNC Registration ID", "RegistrationId"))
}

func extractDistrictInfo(section *goquery.Selection, rec *records.Detail) {
	records.Set(&rec.CongressionalDistrict, value(section, "Congressional District", "CongressionalDistrict"))
	records.Set(&rec.SenateDistrict, value(section, "Senate District", "SenateDistrict"))
	records.Set(&rec.LegislativeDistrict, value(section, "Legislative District", "LegislativeDistrict"))
	records.Set(&rec.Jurisdiction, value(section, "Jurisdiction", "Jurisdiction"))
	records.Set(&rec.PrecinctNumber, value(section, "Precinct Number", "PrecinctNumber"))
	records.Set(&rec.Precinct, value(section, "Precinct", "Precinct"))

	// Jurisdiction-specific custom districts are listed after the fixed
	// labels, one list item each.
	section.Find("li").Each(func(_ int, li *goquery.Selection) {
		if v := htmltext.Clean(li.Text()); !records.IsNoData(v) {
			rec.CustomDistricts = append(rec.CustomDistricts, v)
		}
	})
}

func extractVoteHistory(section *goquery.Selection, rec *records.Detail) {
	records.Set(&rec.EarlyVoteDate, value(section, "Early Vote Date", "EarlyVoteDate"))
	// TODO: parse the election/ballot-type table into rec.VoteHistory.
}

func extractVoterFrequency(section *goquery.Selection, rec *records.Detail) {
	records.Set(&rec.OverallFrequency, value(section, "Overall Frequency", "OverallFrequency"))
	records.Set(&rec.GeneralFrequency, value(section, "General Frequency", "GeneralFrequency"))
	records.Set(&rec.PrimaryFrequency, value(section, "Primary Frequency", "PrimaryFrequency"))
	records.Set(&rec.VoterRegularityGeneral, value(section, "Voter Regularity General", "RegularityGeneral"))
	records.Set(&rec.VoterRegularityPrimary, value(section, "Voter Regularity Primary", "RegularityPrimary"))
}

func extractGeography(section *goquery.Selection, rec *records.Detail) {
	records.Set(&rec.DMA, value(section, "DMA", "DMA"))
	records.Set(&rec.CensusBlock, value(section, "Census Block", "CensusBlock"))
	records.Set(&rec.Turf, value(section, "Turf", "Turf"))
}

func extractNotes(section *goquery.Selection, rec *records.Detail) {
	section.Find("li").Each(func(_ int, li *goquery.Selection) {
		if v := htmltext.Clean(li.Text()); v != "" {
			rec.Notes = append(rec.Notes, v)
		}
	})
}
