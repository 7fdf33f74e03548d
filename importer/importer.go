// importer/importer.go
package importer

import (
	"log"

	"github.com/gewnthar/meetsync/models"
)

// Importer reconciles one root server's full snapshot against the local
// store. It is stateless between runs; all collaborators are injected.
type Importer struct {
	ServiceBodies ServiceBodyStore
	Formats       FormatStore
	Translations  TranslatedFormatStore
	Meetings      MeetingStore
	Problems      ProblemStore
}

// Snapshot is the complete current record set for one root server. Formats
// arrive keyed by source id, then by language, because the wire format lists
// one record per translation.
type Snapshot struct {
	ServiceBodies []RawRecord
	Formats       map[string]map[string]RawRecord
	Meetings      []RawRecord
}

// New builds an Importer over the given store collaborators.
func New(bodies ServiceBodyStore, formats FormatStore, translations TranslatedFormatStore,
	meetings MeetingStore, problems ProblemStore) *Importer {
	return &Importer{
		ServiceBodies: bodies,
		Formats:       formats,
		Translations:  translations,
		Meetings:      meetings,
		Problems:      problems,
	}
}

// ImportSnapshot runs the full reconciliation for one root server in fixed
// dependency order: service bodies, then formats (with their translations),
// then meetings. Data-quality failures are logged to the problem store and
// never abort the run; any error returned here is an engine-level failure.
func (imp *Importer) ImportSnapshot(root *models.RootServer, snap Snapshot) error {
	log.Printf("Importer: Starting snapshot import for root server %d (%s)\n", root.ID, root.URL)

	if err := imp.importServiceBodies(root, snap.ServiceBodies); err != nil {
		return err
	}
	if err := imp.importFormats(root, snap.Formats); err != nil {
		return err
	}
	if err := imp.importMeetings(root, snap.Meetings); err != nil {
		return err
	}

	log.Printf("Importer: Finished snapshot import for root server %d\n", root.ID)
	return nil
}

// logProblem appends one entry to the problem log. The log itself must never
// take a run down, so a failing append is only logged.
func (imp *Importer) logProblem(root *models.RootServer, message string, record RawRecord) {
	data := ""
	if record != nil {
		data = record.String()
	}
	if err := imp.Problems.Create(root.ID, message, data); err != nil {
		log.Printf("ERROR Importer: Failed to record import problem %q: %v\n", message, err)
	}
}
