// models/export.go
package models

// MeetingExportRow is one line of the NAWS-style meeting CSV export.
// CSV tags must EXACTLY match the headers NAWS tooling expects.
type MeetingExportRow struct {
	RootServerName string `csv:"RootServer"`
	SourceID       int64  `csv:"BMLTID"`
	ServiceBody    string `csv:"ServiceBody"`
	Name           string `csv:"MeetingName"`
	Weekday        int    `csv:"Day"`
	StartTime      string `csv:"Time"`
	Duration       string `csv:"Duration"`
	Language       string `csv:"Language"`
	Formats        string `csv:"Formats"` // comma-joined key strings
	Street         string `csv:"Address"`
	Municipality   string `csv:"City"`
	Province       string `csv:"State"`
	PostalCode     string `csv:"Zip"`
	Nation         string `csv:"Country"`
	Latitude       string `csv:"Latitude"`
	Longitude      string `csv:"Longitude"`
	WorldID        string `csv:"WorldID"`
	Published      bool   `csv:"Published"`
	Deleted        bool   `csv:"Deleted"`
}
