// services/export_service_test.go
package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gewnthar/meetsync/models"
)

func TestWriteMeetingsCSV(t *testing.T) {
	rows := []models.MeetingExportRow{
		{
			RootServerName: "Test Region",
			SourceID:       100,
			ServiceBody:    "Downtown Area",
			Name:           "Serenity Now",
			Weekday:        2,
			StartTime:      "19:30",
			Duration:       "01:30",
			Language:       "en",
			Formats:        "BT,O",
			Municipality:   "New York",
			Province:       "NY",
			Latitude:       "40.712775829999",
			Longitude:      "-74.005972839999",
			Published:      true,
		},
		{
			RootServerName: "Test Region",
			SourceID:       101,
			ServiceBody:    "Downtown Area",
			Name:           "Early Risers",
			Weekday:        5,
			StartTime:      "07:00",
			Duration:       "01:00",
			Language:       "en",
			Deleted:        true,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMeetingsCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "RootServer")
	assert.Contains(t, lines[0], "MeetingName")
	assert.Contains(t, lines[1], "Serenity Now")
	assert.Contains(t, lines[1], "40.712775829999")
	assert.Contains(t, lines[2], "Early Risers")
}

func TestWriteMeetingsCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMeetingsCSV(&buf, nil))

	// Header only.
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "BMLTID")
}
