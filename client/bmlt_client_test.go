// client/bmlt_client_test.go
package client

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gewnthar/meetsync/importer"
	"github.com/gewnthar/meetsync/models"
)

func TestSwitcherURL(t *testing.T) {
	assert.Equal(t,
		"https://bmlt.example.org/main_server/client_interface/json/?switcher=GetFormats",
		switcherURL("https://bmlt.example.org/main_server/", "GetFormats", nil))
	assert.Equal(t,
		"https://bmlt.example.org/main_server/client_interface/json/?switcher=GetFormats",
		switcherURL("https://bmlt.example.org/main_server", "GetFormats", nil))
}

func TestDecodeRecordsCoercion(t *testing.T) {
	body := []byte(`[
		{"id_bigint": "100", "weekday_tinyint": 2, "published": true, "deleted": false, "comments": null, "latitude": 40.712775829999}
	]`)
	records, err := decodeRecords(body)
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]

	assert.Equal(t, "100", rec["id_bigint"])
	// Numbers keep their textual form, including full decimal precision.
	assert.Equal(t, "2", rec["weekday_tinyint"])
	assert.Equal(t, "40.712775829999", rec["latitude"])
	// Bools become the wire's "1"/"0".
	assert.Equal(t, "1", rec["published"])
	assert.Equal(t, "0", rec["deleted"])
	// Nulls stay absent, not empty.
	_, present := rec.Get("comments")
	assert.False(t, present)
}

func TestDecodeRecordsRejectsNonArray(t *testing.T) {
	_, err := decodeRecords([]byte(`{"error": "nope"}`))
	assert.Error(t, err)
}

func TestGroupFormats(t *testing.T) {
	groups := groupFormats([]importer.RawRecord{
		{"id": "7", "lang": "en"},
		{"id": "7", "lang": "es"},
		{"id": "12", "lang": "en"},
	})

	require.Len(t, groups, 2)
	require.Len(t, groups["7"], 2)
	assert.Equal(t, "es", groups["7"]["es"]["lang"])
	require.Len(t, groups["12"], 1)

	// A record with no id lands in the empty group for the importer to
	// report, rather than being silently dropped.
	groups = groupFormats([]importer.RawRecord{{"lang": "en"}})
	require.Len(t, groups, 1)
	assert.Contains(t, groups, "")
}

func TestFetchSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/main_server/client_interface/json/", r.URL.Path)
		switch r.URL.Query().Get("switcher") {
		case "GetServiceBodies":
			fmt.Fprint(w, `[{"id": "10", "parent_id": "0", "name": "Test Area"}]`)
		case "GetFormats":
			fmt.Fprint(w, `[
				{"id": "7", "lang": "en", "key_string": "O", "name_string": "Open"},
				{"id": "7", "lang": "es", "key_string": "A", "name_string": "Abierto"}
			]`)
		case "GetSearchResults":
			// Unpublished meetings must be requested explicitly.
			require.Equal(t, "0", r.URL.Query().Get("advanced_published"))
			fmt.Fprint(w, `[{"id_bigint": "100", "meeting_name": "Serenity Now"}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := New(5 * time.Second)
	root := &models.RootServer{ID: 1, URL: server.URL + "/main_server"}
	snap, err := c.FetchSnapshot(root)
	require.NoError(t, err)

	require.Len(t, snap.ServiceBodies, 1)
	assert.Equal(t, "Test Area", snap.ServiceBodies[0]["name"])
	require.Len(t, snap.Formats, 1)
	require.Len(t, snap.Formats["7"], 2)
	require.Len(t, snap.Meetings, 1)
}

func TestFetchSnapshotErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := New(5 * time.Second)
	_, err := c.FetchSnapshot(&models.RootServer{ID: 1, URL: server.URL})
	assert.Error(t, err)
}

func TestFetchServerInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "GetServerInfo", r.URL.Query().Get("switcher"))
		fmt.Fprint(w, "\n[{\"version\": \"3.0.3\"}]\n")
	}))
	defer server.Close()

	c := New(5 * time.Second)
	info, err := c.FetchServerInfo(server.URL)
	require.NoError(t, err)
	assert.Equal(t, `[{"version": "3.0.3"}]`, info)
}
