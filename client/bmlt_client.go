// client/bmlt_client.go
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gewnthar/meetsync/importer"
	"github.com/gewnthar/meetsync/models"
)

// Client fetches full snapshots from a BMLT root server's JSON interface.
// The transport is deliberately dumb: download, decode, coerce to RawRecord.
// All reconciliation intelligence lives in the importer.
type Client struct {
	httpClient *http.Client
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchSnapshot pulls the three record sets one sync run needs. The format
// list arrives flat (one record per translation) and is grouped here into the
// id -> language -> record mapping the importer expects.
func (c *Client) FetchSnapshot(root *models.RootServer) (*importer.Snapshot, error) {
	bodies, err := c.fetchRecords(root.URL, "GetServiceBodies", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service bodies from %s: %w", root.URL, err)
	}

	formatRecords, err := c.fetchRecords(root.URL, "GetFormats", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch formats from %s: %w", root.URL, err)
	}
	formats := groupFormats(formatRecords)

	meetings, err := c.fetchRecords(root.URL, "GetSearchResults", url.Values{
		"advanced_published": {"0"}, // include unpublished meetings
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meetings from %s: %w", root.URL, err)
	}

	log.Printf("Fetched snapshot from %s: %d service bodies, %d formats, %d meetings\n",
		root.URL, len(bodies), len(formats), len(meetings))

	return &importer.Snapshot{
		ServiceBodies: bodies,
		Formats:       formats,
		Meetings:      meetings,
	}, nil
}

// FetchServerInfo returns the raw GetServerInfo payload, stored verbatim on
// the root server row for diagnostics.
func (c *Client) FetchServerInfo(baseURL string) (string, error) {
	body, err := c.get(switcherURL(baseURL, "GetServerInfo", nil))
	if err != nil {
		return "", fmt.Errorf("failed to fetch server info from %s: %w", baseURL, err)
	}
	return strings.TrimSpace(string(body)), nil
}

func (c *Client) fetchRecords(baseURL, switcher string, params url.Values) ([]importer.RawRecord, error) {
	body, err := c.get(switcherURL(baseURL, switcher, params))
	if err != nil {
		return nil, err
	}
	return decodeRecords(body)
}

func (c *Client) get(requestURL string) ([]byte, error) {
	resp, err := c.httpClient.Get(requestURL)
	if err != nil {
		return nil, fmt.Errorf("failed to make GET request to %s: %w", requestURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request to %s returned status code %d", requestURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", requestURL, err)
	}
	return body, nil
}

func switcherURL(baseURL, switcher string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("switcher", switcher)
	return strings.TrimSuffix(baseURL, "/") + "/client_interface/json/?" + params.Encode()
}

// decodeRecords turns a JSON array of objects into raw records. Root servers
// publish values as strings, but the occasional number, bool or null sneaks
// through depending on server version; everything is coerced to the string
// form the validation layer expects, and nulls stay absent.
func decodeRecords(body []byte) ([]importer.RawRecord, error) {
	decoder := json.NewDecoder(strings.NewReader(string(body)))
	decoder.UseNumber()

	var raw []map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON record list: %w", err)
	}

	records := make([]importer.RawRecord, 0, len(raw))
	for _, obj := range raw {
		rec := make(importer.RawRecord, len(obj))
		for key, value := range obj {
			switch v := value.(type) {
			case nil:
				// absent, not empty
			case string:
				rec[key] = v
			case json.Number:
				rec[key] = v.String()
			case bool:
				if v {
					rec[key] = "1"
				} else {
					rec[key] = "0"
				}
			default:
				rec[key] = fmt.Sprintf("%v", v)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// groupFormats indexes the flat translation list by format source id, then by
// language. A duplicate (id, lang) pair keeps the last record, matching how
// the servers themselves resolve it.
func groupFormats(records []importer.RawRecord) map[string]map[string]importer.RawRecord {
	groups := make(map[string]map[string]importer.RawRecord)
	for _, rec := range records {
		id, ok := rec.Get("id")
		if !ok {
			// No usable key; let the importer's reaper report the problem
			// by keeping the record under an empty id group.
			id = ""
		}
		lang := rec.GetDefault("lang", "en")
		if groups[id] == nil {
			groups[id] = make(map[string]importer.RawRecord)
		}
		groups[id][lang] = rec
	}
	return groups
}
