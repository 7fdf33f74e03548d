// database/meeting_store.go
package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/shopspring/decimal"

	"github.com/gewnthar/meetsync/models"
)

// MeetingStore implements importer.MeetingStore against MySQL.
type MeetingStore struct {
	db *sql.DB
}

func NewMeetingStore(db *sql.DB) *MeetingStore {
	return &MeetingStore{db: db}
}

// GetBySourceID loads the meeting with its info row and format id set, which
// is everything the diff pass compares against.
func (s *MeetingStore) GetBySourceID(rootServerID, sourceID int64) (*models.Meeting, error) {
	row := s.db.QueryRow(`
		SELECT id, root_server_id, source_id, service_body_id, name, weekday,
		       venue_type, start_time, duration, language, latitude, longitude,
		       ST_AsText(point), published, deleted
		FROM meetings
		WHERE root_server_id = ? AND source_id = ?
	`, rootServerID, sourceID)

	var m models.Meeting
	var venueType sql.NullInt64
	var startTime, duration, language, latitude, longitude, point sql.NullString
	err := row.Scan(&m.ID, &m.RootServerID, &m.SourceID, &m.ServiceBodyID, &m.Name,
		&m.Weekday, &venueType, &startTime, &duration, &language,
		&latitude, &longitude, &point, &m.Published, &m.Deleted)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan meeting row: %w", err)
	}

	m.VenueType = intPtr(venueType)
	if language.Valid {
		m.Language = language.String
	}
	if startTime.Valid {
		if m.StartTime, err = parseTimeColumn(startTime.String); err != nil {
			return nil, fmt.Errorf("failed to parse start_time for meeting %d: %w", m.ID, err)
		}
	}
	if duration.Valid {
		if m.Duration, err = parseDurationColumn(duration.String); err != nil {
			return nil, fmt.Errorf("failed to parse duration for meeting %d: %w", m.ID, err)
		}
	}
	if latitude.Valid {
		if m.Latitude, err = decimal.NewFromString(latitude.String); err != nil {
			return nil, fmt.Errorf("failed to parse latitude for meeting %d: %w", m.ID, err)
		}
	}
	if longitude.Valid {
		if m.Longitude, err = decimal.NewFromString(longitude.String); err != nil {
			return nil, fmt.Errorf("failed to parse longitude for meeting %d: %w", m.ID, err)
		}
	}
	if point.Valid {
		p, err := wkt.UnmarshalPoint(point.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse point for meeting %d: %w", m.ID, err)
		}
		m.Point = &p
	}

	if m.Info, err = s.getInfo(m.ID); err != nil {
		return nil, err
	}
	if m.FormatIDs, err = s.getFormatIDs(m.ID); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MeetingStore) Save(meeting *models.Meeting) error {
	var pointWKT sql.NullString
	if meeting.Point != nil {
		pointWKT = sql.NullString{String: wkt.MarshalString(*meeting.Point), Valid: true}
	}
	startTime := meeting.StartTime.String() + ":00"
	duration := formatDurationColumn(meeting.Duration)

	if meeting.ID == 0 {
		result, err := s.db.Exec(`
			INSERT INTO meetings (
				root_server_id, source_id, service_body_id, name, weekday,
				venue_type, start_time, duration, language, latitude, longitude,
				point, published, deleted
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ST_GeomFromText(?), ?, ?)
		`, meeting.RootServerID, meeting.SourceID, meeting.ServiceBodyID, meeting.Name,
			meeting.Weekday, nullIntFromPtr(meeting.VenueType), startTime, duration,
			meeting.Language, meeting.Latitude.String(), meeting.Longitude.String(),
			pointWKT, meeting.Published, meeting.Deleted)
		if err != nil {
			return fmt.Errorf("failed to insert meeting %d: %w", meeting.SourceID, err)
		}
		meeting.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read meeting insert id: %w", err)
		}
		return nil
	}

	_, err := s.db.Exec(`
		UPDATE meetings
		SET service_body_id = ?, name = ?, weekday = ?, venue_type = ?,
		    start_time = ?, duration = ?, language = ?, latitude = ?,
		    longitude = ?, point = ST_GeomFromText(?), published = ?, deleted = ?
		WHERE id = ?
	`, meeting.ServiceBodyID, meeting.Name, meeting.Weekday, nullIntFromPtr(meeting.VenueType),
		startTime, duration, meeting.Language, meeting.Latitude.String(),
		meeting.Longitude.String(), pointWKT, meeting.Published, meeting.Deleted, meeting.ID)
	if err != nil {
		return fmt.Errorf("failed to update meeting %d: %w", meeting.ID, err)
	}
	return nil
}

func (s *MeetingStore) getInfo(meetingID int64) (*models.MeetingInfo, error) {
	row := s.db.QueryRow(`
		SELECT id, meeting_id, email, location_text, location_info, location_street,
		       location_city_subsection, location_neighborhood, location_municipality,
		       location_sub_province, location_province, location_postal_code_1,
		       location_nation, train_lines, bus_lines, world_id, comments,
		       virtual_meeting_link, phone_meeting_number, virtual_meeting_additional_info
		FROM meeting_info
		WHERE meeting_id = ?
	`, meetingID)

	var info models.MeetingInfo
	cols := make([]sql.NullString, 18)
	err := row.Scan(&info.ID, &info.MeetingID,
		&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5], &cols[6],
		&cols[7], &cols[8], &cols[9], &cols[10], &cols[11], &cols[12], &cols[13],
		&cols[14], &cols[15], &cols[16], &cols[17])
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan meeting info row: %w", err)
	}

	fields := []**string{
		&info.Email, &info.LocationText, &info.LocationInfo, &info.LocationStreet,
		&info.LocationCitySubsection, &info.LocationNeighborhood, &info.LocationMunicipality,
		&info.LocationSubProvince, &info.LocationProvince, &info.LocationPostalCode,
		&info.LocationNation, &info.TrainLines, &info.BusLines, &info.WorldID,
		&info.Comments, &info.VirtualMeetingLink, &info.PhoneMeetingNumber,
		&info.VirtualMeetingAdditionalInfo,
	}
	for i, field := range fields {
		*field = stringPtr(cols[i])
	}
	return &info, nil
}

func (s *MeetingStore) SaveInfo(info *models.MeetingInfo) error {
	values := []any{
		nullString(info.Email), nullString(info.LocationText), nullString(info.LocationInfo),
		nullString(info.LocationStreet), nullString(info.LocationCitySubsection),
		nullString(info.LocationNeighborhood), nullString(info.LocationMunicipality),
		nullString(info.LocationSubProvince), nullString(info.LocationProvince),
		nullString(info.LocationPostalCode), nullString(info.LocationNation),
		nullString(info.TrainLines), nullString(info.BusLines), nullString(info.WorldID),
		nullString(info.Comments), nullString(info.VirtualMeetingLink),
		nullString(info.PhoneMeetingNumber), nullString(info.VirtualMeetingAdditionalInfo),
	}

	if info.ID == 0 {
		args := append([]any{info.MeetingID}, values...)
		result, err := s.db.Exec(`
			INSERT INTO meeting_info (
				meeting_id, email, location_text, location_info, location_street,
				location_city_subsection, location_neighborhood, location_municipality,
				location_sub_province, location_province, location_postal_code_1,
				location_nation, train_lines, bus_lines, world_id, comments,
				virtual_meeting_link, phone_meeting_number, virtual_meeting_additional_info
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, args...)
		if err != nil {
			return fmt.Errorf("failed to insert meeting info for meeting %d: %w", info.MeetingID, err)
		}
		info.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read meeting info insert id: %w", err)
		}
		return nil
	}

	args := append(values, info.ID)
	_, err := s.db.Exec(`
		UPDATE meeting_info
		SET email = ?, location_text = ?, location_info = ?, location_street = ?,
		    location_city_subsection = ?, location_neighborhood = ?,
		    location_municipality = ?, location_sub_province = ?, location_province = ?,
		    location_postal_code_1 = ?, location_nation = ?, train_lines = ?,
		    bus_lines = ?, world_id = ?, comments = ?, virtual_meeting_link = ?,
		    phone_meeting_number = ?, virtual_meeting_additional_info = ?
		WHERE id = ?
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to update meeting info %d: %w", info.ID, err)
	}
	return nil
}

func (s *MeetingStore) getFormatIDs(meetingID int64) ([]int64, error) {
	rows, err := s.db.Query(`
		SELECT format_id FROM meeting_formats WHERE meeting_id = ? ORDER BY format_id
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query format ids for meeting %d: %w", meetingID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan meeting format row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetFormats replaces the association set wholesale inside one transaction.
func (s *MeetingStore) SetFormats(meetingID int64, formatIDs []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for meeting formats: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM meeting_formats WHERE meeting_id = ?`, meetingID); err != nil {
		return fmt.Errorf("failed to clear formats for meeting %d: %w", meetingID, err)
	}
	for _, formatID := range formatIDs {
		if _, err := tx.Exec(`
			INSERT INTO meeting_formats (meeting_id, format_id) VALUES (?, ?)
		`, meetingID, formatID); err != nil {
			return fmt.Errorf("failed to link meeting %d to format %d: %w", meetingID, formatID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit meeting formats for meeting %d: %w", meetingID, err)
	}
	return nil
}

func (s *MeetingStore) DeleteAbsent(rootServerID int64, keepSourceIDs []int64) error {
	query, args := deleteAbsentQuery("meetings", rootServerID, keepSourceIDs)
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete absent meetings: %w", err)
	}
	return nil
}

// parseTimeColumn reads a MySQL TIME value ("HH:MM:SS") into a TimeOfDay.
func parseTimeColumn(v string) (models.TimeOfDay, error) {
	parts := strings.Split(v, ":")
	if len(parts) < 2 {
		return models.TimeOfDay{}, fmt.Errorf("unexpected TIME value %q", v)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return models.TimeOfDay{}, fmt.Errorf("unexpected TIME value %q", v)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return models.TimeOfDay{}, fmt.Errorf("unexpected TIME value %q", v)
	}
	return models.TimeOfDay{Hour: hour, Minute: minute}, nil
}

func parseDurationColumn(v string) (time.Duration, error) {
	t, err := parseTimeColumn(v)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute, nil
}

func formatDurationColumn(d time.Duration) string {
	minutes := int(d.Minutes())
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}
