// importer/servicebody_sync.go
package importer

import (
	"errors"
	"fmt"
	"log"

	"github.com/gewnthar/meetsync/models"
)

type serviceBodyCandidate struct {
	SourceID       int64
	ParentSourceID int64 // 0 means no parent
	Name           string
	Type           *string
	Description    *string
	URL            *string
	Helpline       *string
	WorldID        *string
}

func validateServiceBody(rec RawRecord) (*serviceBodyCandidate, error) {
	sourceID, err := getInt(rec, "id")
	if err != nil {
		return nil, err
	}
	parentSourceID, err := getInt(rec, "parent_id")
	if err != nil {
		return nil, err
	}
	name, err := getRequiredStr(rec, "name")
	if err != nil {
		return nil, err
	}
	return &serviceBodyCandidate{
		SourceID:       sourceID,
		ParentSourceID: parentSourceID,
		Name:           name,
		Type:           optionalStr(rec, "type"),
		Description:    optionalStr(rec, "description"),
		URL:            optionalStr(rec, "url"),
		Helpline:       optionalStr(rec, "helpline"),
		WorldID:        optionalStr(rec, "world_id"),
	}, nil
}

// importServiceBodies reconciles the service-body snapshot in two passes.
// Pass 1 reaps orphans and upserts every body without touching parent links;
// pass 2 re-walks the same snapshot and resolves parents by source id, which
// is the only way to handle a child appearing before its parent (or a forward
// reference anywhere in the hierarchy).
func (imp *Importer) importServiceBodies(root *models.RootServer, records []RawRecord) error {
	imp.reapAbsent(root, "service bodies", records, "id", imp.ServiceBodies.DeleteAbsent)

	for _, rec := range records {
		cand, err := validateServiceBody(rec)
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			log.Printf("WARN Importer: Error parsing service body: %v\n", verr)
			imp.logProblem(root, verr.Error(), rec)
			continue
		}

		body, err := imp.ServiceBodies.GetBySourceID(root.ID, cand.SourceID)
		if err != nil {
			return fmt.Errorf("failed to look up service body %d: %w", cand.SourceID, err)
		}
		if body == nil {
			body = &models.ServiceBody{RootServerID: root.ID, SourceID: cand.SourceID}
		}

		dirty := body.ID == 0
		if setIfChanged(&body.Name, cand.Name) {
			dirty = true
		}
		if setIfChangedPtr(&body.Type, cand.Type) {
			dirty = true
		}
		if setIfChangedPtr(&body.Description, cand.Description) {
			dirty = true
		}
		if setIfChangedPtr(&body.URL, cand.URL) {
			dirty = true
		}
		if setIfChangedPtr(&body.Helpline, cand.Helpline) {
			dirty = true
		}
		if setIfChangedPtr(&body.WorldID, cand.WorldID) {
			dirty = true
		}

		if dirty {
			if err := imp.ServiceBodies.Save(body); err != nil {
				message := fmt.Sprintf("Error saving service body: %v", err)
				log.Printf("ERROR Importer: %s\n", message)
				imp.logProblem(root, message, rec)
			}
		}
	}

	return imp.linkServiceBodyParents(root, records)
}

// linkServiceBodyParents is the second pass: now that every body in the
// snapshot exists, resolve parent references purely by source id. Records
// that failed validation in pass 1 are skipped silently — the problem is
// already logged.
func (imp *Importer) linkServiceBodyParents(root *models.RootServer, records []RawRecord) error {
	for _, rec := range records {
		cand, err := validateServiceBody(rec)
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			continue
		}

		body, err := imp.ServiceBodies.GetBySourceID(root.ID, cand.SourceID)
		if err != nil {
			return fmt.Errorf("failed to look up service body %d: %w", cand.SourceID, err)
		}
		if body == nil {
			// Pass 1 failed to save this body; nothing to link.
			continue
		}

		var parentID *int64
		if cand.ParentSourceID != 0 {
			parent, err := imp.ServiceBodies.GetBySourceID(root.ID, cand.ParentSourceID)
			if err != nil {
				return fmt.Errorf("failed to look up parent service body %d: %w", cand.ParentSourceID, err)
			}
			if parent == nil {
				verr := &ValidationError{Kind: UnresolvedReference, Field: "parent_id", Record: rec}
				log.Printf("WARN Importer: Error linking service body %d: %v\n", cand.SourceID, verr)
				imp.logProblem(root, verr.Error(), rec)
				continue
			}
			parentID = &parent.ID
		}

		if setIfChangedPtr(&body.ParentID, parentID) {
			if err := imp.ServiceBodies.Save(body); err != nil {
				message := fmt.Sprintf("Error saving service body parent link: %v", err)
				log.Printf("ERROR Importer: %s\n", message)
				imp.logProblem(root, message, rec)
			}
		}
	}
	return nil
}
