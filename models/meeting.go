// models/meeting.go
package models

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"
)

// Weekday values as published by root servers (1-7, Sunday = 1).
const (
	Sunday = 1 + iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// ValidWeekdays is the set of accepted weekday_tinyint values.
var ValidWeekdays = []int{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Venue type values (BMLT convention).
const (
	VenueInPerson = 1
	VenueVirtual  = 2
	VenueHybrid   = 3
)

// TimeOfDay is a wall-clock time with minute precision, as used for meeting
// start times. It is a pure value type; coercion from raw input lives in the
// importer package.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String renders the time as HH:MM, the same shape the store's TIME column
// round-trips.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Meeting is a single recurring meeting belonging to one service body.
// Latitude/Longitude are kept at DECIMAL(15,12) precision; Point is derived
// from them whenever either changes. Deleted is the source's soft-delete flag
// and is independent of physical deletion by the orphan reaper.
type Meeting struct {
	ID            int64           `db:"id" json:"id"`
	RootServerID  int64           `db:"root_server_id" json:"root_server_id"`
	SourceID      int64           `db:"source_id" json:"source_id"`
	ServiceBodyID int64           `db:"service_body_id" json:"service_body_id"`
	Name          string          `db:"name" json:"name"`
	Weekday       int             `db:"weekday" json:"weekday"`
	VenueType     *int            `db:"venue_type" json:"venue_type,omitempty"`
	StartTime     TimeOfDay       `db:"start_time" json:"start_time"`
	Duration      time.Duration   `db:"duration" json:"duration"`
	Language      string          `db:"language" json:"language"`
	Latitude      decimal.Decimal `db:"latitude" json:"latitude"`
	Longitude     decimal.Decimal `db:"longitude" json:"longitude"`
	Point         *orb.Point      `db:"point" json:"point,omitempty"`
	Published     bool            `db:"published" json:"published"`
	Deleted       bool            `db:"deleted" json:"deleted"`

	// Loaded alongside the meeting by the store.
	Info      *MeetingInfo `db:"-" json:"info,omitempty"`
	FormatIDs []int64      `db:"-" json:"format_ids,omitempty"`
}

// MeetingInfo is the one-to-one bag of optional textual detail fields for a
// meeting. Created lazily on first sync if absent; deleted only as a cascade
// of its meeting.
type MeetingInfo struct {
	ID        int64 `db:"id" json:"id"`
	MeetingID int64 `db:"meeting_id" json:"meeting_id"`

	Email                        *string `db:"email" json:"email,omitempty"`
	LocationText                 *string `db:"location_text" json:"location_text,omitempty"`
	LocationInfo                 *string `db:"location_info" json:"location_info,omitempty"`
	LocationStreet               *string `db:"location_street" json:"location_street,omitempty"`
	LocationCitySubsection       *string `db:"location_city_subsection" json:"location_city_subsection,omitempty"`
	LocationNeighborhood         *string `db:"location_neighborhood" json:"location_neighborhood,omitempty"`
	LocationMunicipality         *string `db:"location_municipality" json:"location_municipality,omitempty"`
	LocationSubProvince          *string `db:"location_sub_province" json:"location_sub_province,omitempty"`
	LocationProvince             *string `db:"location_province" json:"location_province,omitempty"`
	LocationPostalCode           *string `db:"location_postal_code_1" json:"location_postal_code_1,omitempty"`
	LocationNation               *string `db:"location_nation" json:"location_nation,omitempty"`
	TrainLines                   *string `db:"train_lines" json:"train_lines,omitempty"`
	BusLines                     *string `db:"bus_lines" json:"bus_lines,omitempty"`
	WorldID                      *string `db:"world_id" json:"world_id,omitempty"`
	Comments                     *string `db:"comments" json:"comments,omitempty"`
	VirtualMeetingLink           *string `db:"virtual_meeting_link" json:"virtual_meeting_link,omitempty"`
	PhoneMeetingNumber           *string `db:"phone_meeting_number" json:"phone_meeting_number,omitempty"`
	VirtualMeetingAdditionalInfo *string `db:"virtual_meeting_additional_info" json:"virtual_meeting_additional_info,omitempty"`
}
