// importer/memstore_test.go
package importer

import (
	"errors"
	"slices"
	"sort"

	"github.com/gewnthar/meetsync/models"
)

// memStore is an in-memory implementation of every store interface the
// importer depends on. Saves are counted per entity so tests can assert the
// minimal-write property, and individual operations can be made to fail.
type memStore struct {
	nextID int64

	bodies       []*models.ServiceBody
	formats      []*models.Format
	translations []*models.TranslatedFormat
	meetings     []*models.Meeting
	infos        map[int64]*models.MeetingInfo // by meeting id
	formatLinks  map[int64][]int64             // meeting id -> format ids
	problems     []memProblem

	bodySaves        int
	formatSaves      int
	translationSaves int
	meetingSaves     int
	infoSaves        int
	setFormatsCalls  int

	failMeetingSaveForSource int64 // Save fails for this meeting source id
	failBodySaveNamed        string
}

type memProblem struct {
	rootServerID int64
	message      string
	data         string
}

func newMemStore() *memStore {
	return &memStore{
		infos:       make(map[int64]*models.MeetingInfo),
		formatLinks: make(map[int64][]int64),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// --- ServiceBodyStore ---

func (m *memStore) GetBySourceID(rootServerID, sourceID int64) (*models.ServiceBody, error) {
	for _, b := range m.bodies {
		if b.RootServerID == rootServerID && b.SourceID == sourceID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memStore) Save(body *models.ServiceBody) error {
	if m.failBodySaveNamed != "" && body.Name == m.failBodySaveNamed {
		return errors.New("store rejected write")
	}
	m.bodySaves++
	if body.ID == 0 {
		body.ID = m.id()
		clone := *body
		m.bodies = append(m.bodies, &clone)
		return nil
	}
	for i, b := range m.bodies {
		if b.ID == body.ID {
			clone := *body
			m.bodies[i] = &clone
			return nil
		}
	}
	return errors.New("update of unknown service body")
}

func (m *memStore) DeleteAbsent(rootServerID int64, keepSourceIDs []int64) error {
	kept := m.bodies[:0]
	for _, b := range m.bodies {
		if b.RootServerID != rootServerID || slices.Contains(keepSourceIDs, b.SourceID) {
			kept = append(kept, b)
		}
	}
	m.bodies = kept
	return nil
}

// --- FormatStore (wrapped so the Save/GetBySourceID/DeleteAbsent method set
// does not collide with the service-body one) ---

type memFormatStore struct{ *memStore }

func (m memFormatStore) GetBySourceID(rootServerID, sourceID int64) (*models.Format, error) {
	for _, f := range m.formats {
		if f.RootServerID == rootServerID && f.SourceID == sourceID {
			return m.cloneFormat(f), nil
		}
	}
	return nil, nil
}

func (m memFormatStore) Save(format *models.Format) error {
	m.formatSaves++
	if format.ID == 0 {
		format.ID = m.id()
		m.formats = append(m.formats, m.cloneFormat(format))
		return nil
	}
	for i, f := range m.formats {
		if f.ID == format.ID {
			m.formats[i] = m.cloneFormat(format)
			return nil
		}
	}
	return errors.New("update of unknown format")
}

func (m memFormatStore) DeleteAbsent(rootServerID int64, keepSourceIDs []int64) error {
	kept := m.formats[:0]
	for _, f := range m.formats {
		if f.RootServerID != rootServerID || slices.Contains(keepSourceIDs, f.SourceID) {
			kept = append(kept, f)
		} else {
			m.deleteTranslations(f.ID)
		}
	}
	m.formats = kept
	return nil
}

func (m memFormatStore) FindBySourceIDs(rootServerID int64, sourceIDs []int64) ([]*models.Format, error) {
	var out []*models.Format
	for _, f := range m.formats {
		if f.RootServerID == rootServerID && slices.Contains(sourceIDs, f.SourceID) {
			out = append(out, m.cloneFormat(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceID < out[j].SourceID })
	return out, nil
}

func (m memFormatStore) FindByKeyStrings(rootServerID int64, language string, keyStrings []string) ([]*models.Format, error) {
	var out []*models.Format
	for _, f := range m.formats {
		if f.RootServerID != rootServerID {
			continue
		}
		for _, tf := range m.translationsOf(f.ID) {
			if tf.Language == language && slices.Contains(keyStrings, tf.KeyString) {
				out = append(out, m.cloneFormat(f))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) cloneFormat(f *models.Format) *models.Format {
	clone := *f
	clone.Translations = nil
	for _, tf := range m.translationsOf(f.ID) {
		clone.Translations = append(clone.Translations, *tf)
	}
	return &clone
}

func (m *memStore) translationsOf(formatID int64) []*models.TranslatedFormat {
	var out []*models.TranslatedFormat
	for _, tf := range m.translations {
		if tf.FormatID == formatID {
			out = append(out, tf)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) deleteTranslations(formatID int64) {
	kept := m.translations[:0]
	for _, tf := range m.translations {
		if tf.FormatID != formatID {
			kept = append(kept, tf)
		}
	}
	m.translations = kept
}

// --- TranslatedFormatStore ---

type memTranslationStore struct{ *memStore }

func (m memTranslationStore) GetByLanguage(formatID int64, language string) (*models.TranslatedFormat, error) {
	for _, tf := range m.translations {
		if tf.FormatID == formatID && tf.Language == language {
			clone := *tf
			return &clone, nil
		}
	}
	return nil, nil
}

func (m memTranslationStore) Save(tf *models.TranslatedFormat) error {
	m.translationSaves++
	if tf.ID == 0 {
		tf.ID = m.id()
		clone := *tf
		m.translations = append(m.translations, &clone)
		return nil
	}
	for i, existing := range m.translations {
		if existing.ID == tf.ID {
			clone := *tf
			m.translations[i] = &clone
			return nil
		}
	}
	return errors.New("update of unknown translation")
}

func (m memTranslationStore) DeleteAbsentLanguages(formatID int64, keepLanguages []string) error {
	kept := m.translations[:0]
	for _, tf := range m.translations {
		if tf.FormatID != formatID || slices.Contains(keepLanguages, tf.Language) {
			kept = append(kept, tf)
		}
	}
	m.translations = kept
	return nil
}

// --- MeetingStore ---

type memMeetingStore struct{ *memStore }

func (m memMeetingStore) GetBySourceID(rootServerID, sourceID int64) (*models.Meeting, error) {
	for _, mt := range m.meetings {
		if mt.RootServerID == rootServerID && mt.SourceID == sourceID {
			clone := *mt
			if info, ok := m.infos[mt.ID]; ok {
				infoClone := *info
				clone.Info = &infoClone
			}
			clone.FormatIDs = slices.Clone(m.formatLinks[mt.ID])
			return &clone, nil
		}
	}
	return nil, nil
}

func (m memMeetingStore) Save(meeting *models.Meeting) error {
	if m.failMeetingSaveForSource != 0 && meeting.SourceID == m.failMeetingSaveForSource {
		return errors.New("store rejected write")
	}
	m.meetingSaves++
	if meeting.ID == 0 {
		meeting.ID = m.id()
		clone := *meeting
		clone.Info = nil
		clone.FormatIDs = nil
		m.meetings = append(m.meetings, &clone)
		return nil
	}
	for i, mt := range m.meetings {
		if mt.ID == meeting.ID {
			clone := *meeting
			clone.Info = nil
			clone.FormatIDs = nil
			m.meetings[i] = &clone
			return nil
		}
	}
	return errors.New("update of unknown meeting")
}

func (m memMeetingStore) SaveInfo(info *models.MeetingInfo) error {
	m.infoSaves++
	if info.ID == 0 {
		info.ID = m.id()
	}
	clone := *info
	m.infos[info.MeetingID] = &clone
	return nil
}

func (m memMeetingStore) SetFormats(meetingID int64, formatIDs []int64) error {
	m.setFormatsCalls++
	m.formatLinks[meetingID] = slices.Clone(formatIDs)
	return nil
}

func (m memMeetingStore) DeleteAbsent(rootServerID int64, keepSourceIDs []int64) error {
	kept := m.meetings[:0]
	for _, mt := range m.meetings {
		if mt.RootServerID != rootServerID || slices.Contains(keepSourceIDs, mt.SourceID) {
			kept = append(kept, mt)
		} else {
			delete(m.infos, mt.ID)
			delete(m.formatLinks, mt.ID)
		}
	}
	m.meetings = kept
	return nil
}

// --- ProblemStore ---

type memProblemStore struct{ *memStore }

func (m memProblemStore) Create(rootServerID int64, message, data string) error {
	m.problems = append(m.problems, memProblem{rootServerID: rootServerID, message: message, data: data})
	return nil
}

// newTestImporter wires an Importer over one shared memStore.
func newTestImporter() (*Importer, *memStore) {
	store := newMemStore()
	imp := New(
		store,
		memFormatStore{store},
		memTranslationStore{store},
		memMeetingStore{store},
		memProblemStore{store},
	)
	return imp, store
}

func testRoot() *models.RootServer {
	return &models.RootServer{ID: 1, Name: "Test Region", URL: "https://bmlt.example.org/main_server"}
}
