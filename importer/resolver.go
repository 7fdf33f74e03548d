// importer/resolver.go
package importer

import (
	"strconv"
	"strings"

	"github.com/gewnthar/meetsync/models"
)

// resolveFormats maps a meeting's raw format references to canonical formats
// in the root server's scope. Exactly one of two strategies applies, selected
// by which raw field the record carries:
//
//  1. format_shared_id_list — the source's own numeric format ids. This path
//     is authoritative: parse, look up, done. A single non-numeric entry
//     fails the whole meeting record.
//  2. formats + lang_enum — short key-string codes matched against the
//     translations in the meeting's language. Best-effort textual matching:
//     a format can be reached through several translations, so matches are
//     de-duplicated by key_string with the first occurrence winning.
func (imp *Importer) resolveFormats(root *models.RootServer, rec RawRecord) ([]*models.Format, error) {
	if list, ok := rec.Get("format_shared_id_list"); ok && list != "" {
		parts := strings.Split(list, ",")
		sourceIDs := make([]int64, 0, len(parts))
		for _, p := range parts {
			id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
			if err != nil {
				return nil, &ValidationError{Kind: MalformedField, Field: "format_shared_id_list", Record: rec}
			}
			sourceIDs = append(sourceIDs, id)
		}
		return imp.Formats.FindBySourceIDs(root.ID, sourceIDs)
	}

	var keyStrings []string
	for _, ks := range strings.Split(rec.GetDefault("formats", ""), ",") {
		if strings.TrimSpace(ks) != "" {
			keyStrings = append(keyStrings, ks)
		}
	}
	// An empty or whitespace-only key-string list is not an error; the
	// meeting simply has no formats.
	if len(keyStrings) == 0 {
		return nil, nil
	}

	language := rec.GetDefault("lang_enum", "en")
	matched, err := imp.Formats.FindByKeyStrings(root.ID, language, keyStrings)
	if err != nil {
		return nil, err
	}

	// The key-string join can reach the same key through multiple formats.
	// Walk matches in query order; the first format claiming a key_string
	// keeps it, and a format whose translations only re-claim seen keys is
	// dropped.
	seen := make(map[string]bool)
	unique := make([]*models.Format, 0, len(matched))
	for _, format := range matched {
		duplicate := false
		for _, tf := range format.Translations {
			if tf.Language != language {
				continue
			}
			if seen[tf.KeyString] {
				duplicate = true
				break
			}
			seen[tf.KeyString] = true
		}
		if !duplicate {
			unique = append(unique, format)
		}
	}
	return unique, nil
}
