// importer/meeting_sync.go
package importer

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"

	"github.com/gewnthar/meetsync/models"
)

type meetingCandidate struct {
	SourceID    int64
	ServiceBody *models.ServiceBody
	Name        string
	Weekday     int
	VenueType   *int
	StartTime   models.TimeOfDay
	Duration    time.Duration
	Language    string
	Latitude    decimal.Decimal
	Longitude   decimal.Decimal
	Published   bool
	Deleted     bool
	Formats     []*models.Format
	Info        meetingInfoCandidate
}

// meetingInfoCandidate carries every meetinginfo key the wire format knows.
// Absent keys stay nil so the diff core can distinguish "not sent" from "sent
// empty".
type meetingInfoCandidate struct {
	Email                        *string
	LocationText                 *string
	LocationInfo                 *string
	LocationStreet               *string
	LocationCitySubsection       *string
	LocationNeighborhood         *string
	LocationMunicipality         *string
	LocationSubProvince          *string
	LocationProvince             *string
	LocationPostalCode           *string
	LocationNation               *string
	TrainLines                   *string
	BusLines                     *string
	WorldID                      *string
	Comments                     *string
	VirtualMeetingLink           *string
	PhoneMeetingNumber           *string
	VirtualMeetingAdditionalInfo *string
}

// validateMeeting coerces one raw meeting record, resolving both of its
// cross-entity references (service body by source id, formats via the
// resolver). Store lookup failures propagate; everything data-shaped comes
// back as a *ValidationError.
func (imp *Importer) validateMeeting(root *models.RootServer, rec RawRecord) (*meetingCandidate, error) {
	formats, err := imp.resolveFormats(root, rec)
	if err != nil {
		return nil, err
	}

	var venueType *int
	if raw, ok := rec.Get("venue_type"); ok && raw != "" {
		n, convErr := strconv.Atoi(strings.TrimSpace(raw))
		if convErr != nil {
			return nil, &ValidationError{Kind: MalformedField, Field: "venue_type", Record: rec}
		}
		venueType = &n
	}

	sourceID, err := getInt(rec, "id_bigint")
	if err != nil {
		return nil, err
	}
	bodySourceID, err := getInt(rec, "service_body_bigint")
	if err != nil {
		return nil, err
	}
	body, err := imp.ServiceBodies.GetBySourceID(root.ID, bodySourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up service body %d: %w", bodySourceID, err)
	}
	if body == nil {
		return nil, &ValidationError{Kind: UnresolvedReference, Field: "service_body", Record: rec}
	}

	name, err := getRequiredStr(rec, "meeting_name")
	if err != nil {
		return nil, err
	}
	weekday, err := getIntChoice(rec, "weekday_tinyint", models.ValidWeekdays)
	if err != nil {
		return nil, err
	}
	startTime, err := getTimeOfDay(rec, "start_time")
	if err != nil {
		return nil, err
	}
	duration, err := getDuration(rec, "duration_time")
	if err != nil {
		return nil, err
	}
	latitude, err := getDecimal(rec, "latitude")
	if err != nil {
		return nil, err
	}
	longitude, err := getDecimal(rec, "longitude")
	if err != nil {
		return nil, err
	}

	return &meetingCandidate{
		SourceID:    sourceID,
		ServiceBody: body,
		Name:        name,
		Weekday:     weekday,
		VenueType:   venueType,
		StartTime:   startTime,
		Duration:    duration,
		Language:    rec.GetDefault("lang_enum", "en"),
		Latitude:    latitude,
		Longitude:   longitude,
		Published:   rec.GetDefault("published", "0") == "1",
		Deleted:     isTruthy(rec.GetDefault("deleted", "")),
		Formats:     formats,
		Info: meetingInfoCandidate{
			Email:                        optionalStr(rec, "email_contact"),
			LocationText:                 optionalStr(rec, "location_text"),
			LocationInfo:                 optionalStr(rec, "location_info"),
			LocationStreet:               optionalStr(rec, "location_street"),
			LocationCitySubsection:       optionalStr(rec, "location_city_subsection"),
			LocationNeighborhood:         optionalStr(rec, "location_neighborhood"),
			LocationMunicipality:         optionalStr(rec, "location_municipality"),
			LocationSubProvince:          optionalStr(rec, "location_sub_province"),
			LocationProvince:             optionalStr(rec, "location_province"),
			LocationPostalCode:           optionalStr(rec, "location_postal_code_1"),
			LocationNation:               optionalStr(rec, "location_nation"),
			TrainLines:                   optionalStr(rec, "train_lines"),
			BusLines:                     optionalStr(rec, "bus_lines"),
			WorldID:                      optionalStr(rec, "worldid_mixed"),
			Comments:                     optionalStr(rec, "comments"),
			VirtualMeetingLink:           optionalStr(rec, "virtual_meeting_link"),
			PhoneMeetingNumber:           optionalStr(rec, "phone_meeting_number"),
			VirtualMeetingAdditionalInfo: optionalStr(rec, "virtual_meeting_additional_info"),
		},
	}, nil
}

func isTruthy(v string) bool {
	return v == "1" || v == "true"
}

// importMeetings reconciles the meeting snapshot. One bad meeting — whether
// its data fails validation or the store rejects the write — is logged and
// skipped; it never takes its siblings or the run with it.
func (imp *Importer) importMeetings(root *models.RootServer, records []RawRecord) error {
	imp.reapAbsent(root, "meetings", records, "id_bigint", imp.Meetings.DeleteAbsent)

	for _, rec := range records {
		cand, err := imp.validateMeeting(root, rec)
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			log.Printf("WARN Importer: Error parsing meeting: %v\n", verr)
			imp.logProblem(root, verr.Error(), rec)
			continue
		}

		if err := imp.saveMeeting(root, cand); err != nil {
			message := fmt.Sprintf("Error saving meeting: %v", err)
			log.Printf("ERROR Importer: %s\n", message)
			imp.logProblem(root, message, rec)
		}
	}
	return nil
}

// saveMeeting diffs one validated candidate against the stored meeting and
// persists only what changed: the meeting row when any tracked field (or the
// derived point) moved, the info row when any detail field moved, and the
// format association only when the resolved set differs as a whole.
func (imp *Importer) saveMeeting(root *models.RootServer, cand *meetingCandidate) error {
	meeting, err := imp.Meetings.GetBySourceID(root.ID, cand.SourceID)
	if err != nil {
		return err
	}
	if meeting == nil {
		meeting = &models.Meeting{RootServerID: root.ID, SourceID: cand.SourceID}
	}

	dirty := meeting.ID == 0
	if setIfChanged(&meeting.ServiceBodyID, cand.ServiceBody.ID) {
		dirty = true
	}
	if setIfChanged(&meeting.Name, cand.Name) {
		dirty = true
	}
	if setIfChanged(&meeting.Weekday, cand.Weekday) {
		dirty = true
	}
	if setIfChangedPtr(&meeting.VenueType, cand.VenueType) {
		dirty = true
	}
	if setIfChanged(&meeting.StartTime, cand.StartTime) {
		dirty = true
	}
	if setIfChanged(&meeting.Duration, cand.Duration) {
		dirty = true
	}
	if setIfChanged(&meeting.Language, cand.Language) {
		dirty = true
	}
	if setIfChangedDecimal(&meeting.Latitude, cand.Latitude) {
		dirty = true
	}
	if setIfChangedDecimal(&meeting.Longitude, cand.Longitude) {
		dirty = true
	}
	if setIfChanged(&meeting.Published, cand.Published) {
		dirty = true
	}
	if setIfChanged(&meeting.Deleted, cand.Deleted) {
		dirty = true
	}

	// The point is derived, never imported: recompute from the (possibly
	// just-updated) coordinates and compare structurally before dirtying.
	if !meeting.Latitude.IsZero() && !meeting.Longitude.IsZero() {
		latF, _ := meeting.Latitude.Float64()
		lngF, _ := meeting.Longitude.Float64()
		point := orb.Point{lngF, latF}
		if meeting.Point == nil || *meeting.Point != point {
			meeting.Point = &point
			dirty = true
		}
	}

	if dirty {
		if err := imp.Meetings.Save(meeting); err != nil {
			return err
		}
	}

	// MeetingInfo is created lazily the first time its meeting syncs.
	if meeting.Info == nil {
		info := &models.MeetingInfo{MeetingID: meeting.ID}
		if err := imp.Meetings.SaveInfo(info); err != nil {
			return err
		}
		meeting.Info = info
	}

	info := meeting.Info
	infoDirty := false
	if setIfChangedPtr(&info.Email, cand.Info.Email) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.LocationText, cand.Info.LocationText) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.LocationInfo, cand.Info.LocationInfo) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.LocationStreet, cand.Info.LocationStreet) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.LocationCitySubsection, cand.Info.LocationCitySubsection) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.LocationNeighborhood, cand.Info.LocationNeighborhood) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.LocationMunicipality, cand.Info.LocationMunicipality) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.LocationSubProvince, cand.Info.LocationSubProvince) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.LocationProvince, cand.Info.LocationProvince) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.LocationPostalCode, cand.Info.LocationPostalCode) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.LocationNation, cand.Info.LocationNation) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.TrainLines, cand.Info.TrainLines) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.BusLines, cand.Info.BusLines) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.WorldID, cand.Info.WorldID) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.Comments, cand.Info.Comments) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.VirtualMeetingLink, cand.Info.VirtualMeetingLink) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.PhoneMeetingNumber, cand.Info.PhoneMeetingNumber) {
		infoDirty = true
	}
	if setIfChangedPtr(&info.VirtualMeetingAdditionalInfo, cand.Info.VirtualMeetingAdditionalInfo) {
		infoDirty = true
	}
	if infoDirty {
		if err := imp.Meetings.SaveInfo(info); err != nil {
			return err
		}
	}

	// Format associations are replaced as a whole set, never element-wise.
	newIDs := make([]int64, 0, len(cand.Formats))
	for _, f := range cand.Formats {
		newIDs = append(newIDs, f.ID)
	}
	slices.Sort(newIDs)
	currentIDs := slices.Clone(meeting.FormatIDs)
	slices.Sort(currentIDs)
	if !slices.Equal(newIDs, currentIDs) {
		if err := imp.Meetings.SetFormats(meeting.ID, newIDs); err != nil {
			return err
		}
	}
	return nil
}
