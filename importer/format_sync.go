// importer/format_sync.go
package importer

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/gewnthar/meetsync/models"
)

type formatCandidate struct {
	SourceID int64
	Type     *string
	WorldID  *string
}

func validateFormat(rec RawRecord) (*formatCandidate, error) {
	sourceID, err := getInt(rec, "id")
	if err != nil {
		return nil, err
	}
	return &formatCandidate{
		SourceID: sourceID,
		Type:     optionalStr(rec, "format_type_enum"),
		WorldID:  optionalStr(rec, "world_id"),
	}, nil
}

type translatedFormatCandidate struct {
	KeyString   string
	Name        string
	Description *string
	Language    string
}

func validateTranslatedFormat(rec RawRecord) (*translatedFormatCandidate, error) {
	keyString, err := getRequiredStr(rec, "key_string")
	if err != nil {
		return nil, err
	}
	name, err := getRequiredStr(rec, "name_string")
	if err != nil {
		return nil, err
	}
	language, err := getRequiredStr(rec, "lang")
	if err != nil {
		return nil, err
	}
	return &translatedFormatCandidate{
		KeyString:   keyString,
		Name:        name,
		Description: optionalStr(rec, "description_string"),
		Language:    language,
	}, nil
}

// importFormats reconciles the format snapshot. The snapshot arrives keyed by
// source id, one record per language; the scope-level fields (type, world_id)
// are repeated on every variant, so the first variant stands in for the
// format itself and the full variant group drives translation sync.
func (imp *Importer) importFormats(root *models.RootServer, groups map[string]map[string]RawRecord) error {
	imp.reapFormats(root, groups)

	for _, sourceKey := range sortedKeys(groups) {
		variants := groups[sourceKey]
		records := make([]RawRecord, 0, len(variants))
		for _, language := range sortedKeys(variants) {
			records = append(records, variants[language])
		}

		cand, err := validateFormat(records[0])
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			log.Printf("WARN Importer: Error parsing format: %v\n", verr)
			imp.logProblem(root, verr.Error(), records[0])
			continue
		}

		format, err := imp.Formats.GetBySourceID(root.ID, cand.SourceID)
		if err != nil {
			return fmt.Errorf("failed to look up format %d: %w", cand.SourceID, err)
		}
		if format == nil {
			format = &models.Format{RootServerID: root.ID, SourceID: cand.SourceID}
		}

		dirty := format.ID == 0
		if setIfChangedPtr(&format.Type, cand.Type) {
			dirty = true
		}
		if setIfChangedPtr(&format.WorldID, cand.WorldID) {
			dirty = true
		}
		if dirty {
			if err := imp.Formats.Save(format); err != nil {
				message := fmt.Sprintf("Error saving format: %v", err)
				log.Printf("ERROR Importer: %s\n", message)
				imp.logProblem(root, message, records[0])
				continue
			}
		}

		if err := imp.importTranslatedFormats(root, format, records); err != nil {
			return err
		}
	}
	return nil
}

// reapFormats derives the id set from the snapshot's map keys rather than a
// record field; otherwise it is the standard reap.
func (imp *Importer) reapFormats(root *models.RootServer, groups map[string]map[string]RawRecord) {
	ids := make([]int64, 0, len(groups))
	for key := range groups {
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			imp.reapFailed(root, "formats", err)
			return
		}
		ids = append(ids, id)
	}
	if err := imp.Formats.DeleteAbsent(root.ID, ids); err != nil {
		imp.reapFailed(root, "formats", err)
	}
}

// importTranslatedFormats reconciles one format's per-language variants:
// translations for languages gone from the snapshot are deleted, the rest are
// diffed and upserted under the (format, language) uniqueness rule.
func (imp *Importer) importTranslatedFormats(root *models.RootServer, format *models.Format, records []RawRecord) error {
	languages := make([]string, 0, len(records))
	languagesOK := true
	for _, rec := range records {
		lang, err := getKey(rec, "lang")
		if err != nil {
			imp.reapFailed(root, "translated formats", err)
			languagesOK = false
			break
		}
		languages = append(languages, lang)
	}
	if languagesOK {
		if err := imp.Translations.DeleteAbsentLanguages(format.ID, languages); err != nil {
			imp.reapFailed(root, "translated formats", err)
		}
	}

	for _, rec := range records {
		cand, err := validateTranslatedFormat(rec)
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			log.Printf("WARN Importer: Error parsing translated format: %v\n", verr)
			imp.logProblem(root, verr.Error(), rec)
			continue
		}

		tf, err := imp.Translations.GetByLanguage(format.ID, cand.Language)
		if err != nil {
			return fmt.Errorf("failed to look up translation %d/%s: %w", format.ID, cand.Language, err)
		}
		if tf == nil {
			tf = &models.TranslatedFormat{FormatID: format.ID, Language: cand.Language}
		}

		dirty := tf.ID == 0
		if setIfChanged(&tf.KeyString, cand.KeyString) {
			dirty = true
		}
		if setIfChanged(&tf.Name, cand.Name) {
			dirty = true
		}
		if setIfChangedPtr(&tf.Description, cand.Description) {
			dirty = true
		}
		if dirty {
			if err := imp.Translations.Save(tf); err != nil {
				message := fmt.Sprintf("Error saving translated format: %v", err)
				log.Printf("ERROR Importer: %s\n", message)
				imp.logProblem(root, message, rec)
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
