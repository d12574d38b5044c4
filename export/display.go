package export

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"voterlookup/records"
)

// Render prints the result set as console tables, one section per searched
// name.
func Render(w io.Writer, rs ResultSet) {
	for _, name := range sortedNames(rs) {
		results := rs[name]
		fmt.Fprintf(w, "\nResults for %q: %d match(es)\n", name, len(results))
		if len(results) == 0 {
			continue
		}

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"#", "Name", "Address", "City", "State", "Zip", "Phone", "DOB", "Party"})
		for i, rec := range results {
			t.AppendRow(table.Row{
				i + 1, rec.Name, rec.Address, rec.City, rec.State,
				rec.ZipCode, rec.Phone, rec.DateOfBirth, rec.CalculatedParty,
			})
		}
		t.Render()

		for _, rec := range results {
			if rec.Detail != nil {
				renderDetail(w, rec.Detail)
			}
		}
	}
}

// detailGroups lays out the detail fields for display, in page order.
var detailGroups = []struct {
	title  string
	fields func(d *records.Detail) []table.Row
}{
	{"Personal Info", func(d *records.Detail) []table.Row {
		return rows(
			"Name", d.Name,
			"Birthday", d.Birthday,
			"Age", d.Age,
			"Gender", d.Gender,
		)
	}},
	{"Contact Info", func(d *records.Detail) []table.Row {
		return rows(
			"Mobile Phone", d.MobilePhone,
			"Landline Phone", d.LandlinePhone,
			"Primary Address", d.PrimaryAddress,
			"Secondary Address", d.SecondaryAddress,
		)
	}},
	{"Voter Info", func(d *records.Detail) []table.Row {
		return rows(
			"Registration Status", d.RegistrationStatus,
			"Registration Date", d.RegistrationDate,
			"Official Party", d.OfficialParty,
			"Calculated Party", d.CalculatedParty,
		)
	}},
	{"Voter Identification", func(d *records.Detail) []table.Row {
		return rows(
			"GOPDC Voter Key", d.GOPDCVoterKey,
			"RNC Client ID", d.RNCClientID,
			"State Voter ID", d.StateVoterID,
		)
	}},
	{"District Info", func(d *records.Detail) []table.Row {
		return rows(
			"Congressional District", d.CongressionalDistrict,
			"Senate District", d.SenateDistrict,
			"Legislative District", d.LegislativeDistrict,
			"Jurisdiction", d.Jurisdiction,
			"Precinct", d.Precinct,
		)
	}},
	{"Voter Frequency", func(d *records.Detail) []table.Row {
		return rows(
			"Overall", d.OverallFrequency,
			"General", d.GeneralFrequency,
			"Primary", d.PrimaryFrequency,
		)
	}},
	{"Geographical Location", func(d *records.Detail) []table.Row {
		return rows(
			"DMA", d.DMA,
			"Census Block", d.CensusBlock,
			"Turf", d.Turf,
		)
	}},
}

func renderDetail(w io.Writer, d *records.Detail) {
	fmt.Fprintf(w, "\nDetailed record for %s\n", d.Name)
	for _, group := range detailGroups {
		groupRows := group.fields(d)
		if len(groupRows) == 0 {
			continue
		}
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle(group.title)
		t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 60, WidthMaxEnforcer: text.WrapSoft}})
		t.AppendRows(groupRows)
		t.Render()
	}
	if len(d.Notes) > 0 {
		fmt.Fprintln(w, "Notes:")
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  - %s\n", n)
		}
	}
}

// rows builds label/value pairs, dropping the empty ones.
func rows(pairs ...string) []table.Row {
	var out []table.Row
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		out = append(out, table.Row{pairs[i], pairs[i+1]})
	}
	return out
}
