// services/sync_service.go
package services

import (
	"fmt"
	"log"
	"sync"

	"github.com/gewnthar/meetsync/client"
	"github.com/gewnthar/meetsync/config"
	"github.com/gewnthar/meetsync/database"
	"github.com/gewnthar/meetsync/importer"
	"github.com/gewnthar/meetsync/models"
	"github.com/gewnthar/meetsync/scraper"
)

// RegisterRootServers seeds the registry from the static config list, then
// merges in whatever the discovery page currently advertises. Registration
// is upsert-only; root servers are never auto-removed, since dropping one
// cascades away all of its imported data.
func RegisterRootServers() error {
	for _, seed := range config.AppConfig.RootServers {
		if err := database.UpsertRootServer(seed.Name, seed.URL); err != nil {
			return fmt.Errorf("failed to register configured root server %s: %w", seed.URL, err)
		}
	}

	listURL := config.AppConfig.Discovery.ListPageURL
	if listURL == "" {
		log.Println("Service: No discovery list page configured; using configured root servers only.")
		return nil
	}
	entries, err := scraper.FetchRootServerList(listURL, config.AppConfig.Discovery.RowSelector)
	if err != nil {
		// Discovery being down should not block syncing the servers we
		// already know about.
		log.Printf("WARN Service: Root server discovery failed: %v\n", err)
		return nil
	}
	for _, entry := range entries {
		if err := database.UpsertRootServer(entry.Name, entry.URL); err != nil {
			return fmt.Errorf("failed to register discovered root server %s: %w", entry.URL, err)
		}
	}
	return nil
}

// SyncRootServer runs one full reconciliation for one root server: fetch the
// snapshot, import it, then refresh the denormalized stats. Data-quality
// problems land in the problem log; an error returned here means the run
// itself failed and the store keeps its previous (consistent) state for
// whatever was not yet processed.
func SyncRootServer(server *models.RootServer) error {
	log.Printf("Service: Starting sync for root server %d (%s)\n", server.ID, server.URL)

	bmlt := client.New(config.AppConfig.Sync.HTTPTimeout)
	snapshot, err := bmlt.FetchSnapshot(server)
	if err != nil {
		return fmt.Errorf("failed to fetch snapshot for root server %d: %w", server.ID, err)
	}

	imp := importer.New(
		database.NewServiceBodyStore(database.DB),
		database.NewFormatStore(database.DB),
		database.NewTranslatedFormatStore(database.DB),
		database.NewMeetingStore(database.DB),
		database.NewProblemStore(database.DB),
	)
	if err := imp.ImportSnapshot(server, *snapshot); err != nil {
		return fmt.Errorf("import failed for root server %d: %w", server.ID, err)
	}

	serverInfo, err := bmlt.FetchServerInfo(server.URL)
	if err != nil {
		// Not worth failing a completed import over.
		log.Printf("WARN Service: Failed to fetch server info for root server %d: %v\n", server.ID, err)
		serverInfo = server.ServerInfo
	}
	if err := database.UpdateRootServerStats(server, serverInfo); err != nil {
		return fmt.Errorf("failed to update stats for root server %d: %w", server.ID, err)
	}

	if count, err := database.CountImportProblems(server.ID); err != nil {
		log.Printf("WARN Service: Could not count import problems for root server %d: %v\n", server.ID, err)
	} else {
		log.Printf("Service: Finished sync for root server %d (%d problems logged in total)\n", server.ID, count)
	}
	return nil
}

// SyncAllRootServers syncs every registered root server. Scopes never
// overlap, so the servers sync concurrently; within one server the pipeline
// stays strictly sequential. Returns an error if any server's run failed.
func SyncAllRootServers() error {
	servers, err := database.GetRootServers()
	if err != nil {
		return fmt.Errorf("failed to list root servers: %w", err)
	}
	if len(servers) == 0 {
		log.Println("Service: No root servers registered; nothing to sync.")
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, len(servers))
	for i := range servers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := SyncRootServer(&servers[i]); err != nil {
				log.Printf("ERROR Service: Sync failed for root server %d: %v\n", servers[i].ID, err)
				errs[i] = err
			}
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d root server syncs failed", failed, len(servers))
	}
	return nil
}
