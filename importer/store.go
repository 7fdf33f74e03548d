// importer/store.go
package importer

import "github.com/gewnthar/meetsync/models"

// Store access contracts the importer depends on. The database package
// implements them against MySQL; tests use in-memory fakes. Lookups return
// (nil, nil) when nothing matches — only real store failures are errors.

// ServiceBodyStore persists service bodies scoped to a root server.
type ServiceBodyStore interface {
	GetBySourceID(rootServerID, sourceID int64) (*models.ServiceBody, error)
	// Save inserts when the body has no local id yet, updates otherwise.
	Save(body *models.ServiceBody) error
	// DeleteAbsent removes every body in scope whose source_id is not in
	// keepSourceIDs. The store cascades to descendant bodies and meetings.
	DeleteAbsent(rootServerID int64, keepSourceIDs []int64) error
}

// FormatStore persists formats and answers the resolver's lookups.
type FormatStore interface {
	GetBySourceID(rootServerID, sourceID int64) (*models.Format, error)
	Save(format *models.Format) error
	DeleteAbsent(rootServerID int64, keepSourceIDs []int64) error
	// FindBySourceIDs returns the formats in scope whose source_id is in
	// sourceIDs (the shared-id resolution path).
	FindBySourceIDs(rootServerID int64, sourceIDs []int64) ([]*models.Format, error)
	// FindByKeyStrings returns the formats in scope that have a translation
	// in language with a key_string in keyStrings, translations preloaded,
	// in stable query order. A format may appear once even when several of
	// its translations match.
	FindByKeyStrings(rootServerID int64, language string, keyStrings []string) ([]*models.Format, error)
}

// TranslatedFormatStore persists the per-language variants of a format.
type TranslatedFormatStore interface {
	GetByLanguage(formatID int64, language string) (*models.TranslatedFormat, error)
	Save(tf *models.TranslatedFormat) error
	// DeleteAbsentLanguages removes the format's translations whose language
	// is not in keepLanguages.
	DeleteAbsentLanguages(formatID int64, keepLanguages []string) error
}

// MeetingStore persists meetings, their info rows and format associations.
type MeetingStore interface {
	// GetBySourceID loads the meeting with Info and FormatIDs populated.
	GetBySourceID(rootServerID, sourceID int64) (*models.Meeting, error)
	Save(meeting *models.Meeting) error
	SaveInfo(info *models.MeetingInfo) error
	// SetFormats replaces the meeting's format association set wholesale.
	SetFormats(meetingID int64, formatIDs []int64) error
	DeleteAbsent(rootServerID int64, keepSourceIDs []int64) error
}

// ProblemStore appends to the import problem log.
type ProblemStore interface {
	Create(rootServerID int64, message, data string) error
}
