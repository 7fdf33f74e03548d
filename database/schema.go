// database/schema.go
package database

import (
	"fmt"
	"log"
)

// The deletion policy lives here, not in the importer: dropping a service
// body takes its descendant bodies and their meetings with it, dropping a
// meeting takes its info row and format links, and dropping a root server
// clears everything in its scope.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS root_servers (
		id BIGINT NOT NULL AUTO_INCREMENT,
		source_id BIGINT NOT NULL DEFAULT -1,
		name VARCHAR(255) NOT NULL DEFAULT '',
		url VARCHAR(255) NOT NULL,
		server_info TEXT,
		last_successful_import DATETIME NULL,
		num_zones INT NOT NULL DEFAULT 0,
		num_regions INT NOT NULL DEFAULT 0,
		num_areas INT NOT NULL DEFAULT 0,
		num_groups INT NOT NULL DEFAULT 0,
		num_meetings INT NOT NULL DEFAULT 0,
		PRIMARY KEY (id),
		UNIQUE KEY uq_root_servers_url (url)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS import_problems (
		id BIGINT NOT NULL AUTO_INCREMENT,
		root_server_id BIGINT NOT NULL,
		message VARCHAR(255) NOT NULL,
		data TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_import_problems_root (root_server_id),
		CONSTRAINT fk_import_problems_root FOREIGN KEY (root_server_id)
			REFERENCES root_servers (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS service_bodies (
		id BIGINT NOT NULL AUTO_INCREMENT,
		root_server_id BIGINT NOT NULL,
		source_id BIGINT NOT NULL,
		parent_id BIGINT NULL,
		name VARCHAR(255) NOT NULL,
		type CHAR(2) NULL,
		description TEXT NULL,
		url VARCHAR(255) NULL,
		helpline VARCHAR(255) NULL,
		world_id VARCHAR(255) NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_service_bodies_scope (root_server_id, source_id),
		CONSTRAINT fk_service_bodies_root FOREIGN KEY (root_server_id)
			REFERENCES root_servers (id) ON DELETE CASCADE,
		CONSTRAINT fk_service_bodies_parent FOREIGN KEY (parent_id)
			REFERENCES service_bodies (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS formats (
		id BIGINT NOT NULL AUTO_INCREMENT,
		root_server_id BIGINT NOT NULL,
		source_id BIGINT NOT NULL,
		type VARCHAR(7) NULL,
		world_id VARCHAR(255) NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_formats_scope (root_server_id, source_id),
		CONSTRAINT fk_formats_root FOREIGN KEY (root_server_id)
			REFERENCES root_servers (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS translated_formats (
		id BIGINT NOT NULL AUTO_INCREMENT,
		format_id BIGINT NOT NULL,
		key_string VARCHAR(20) NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NULL,
		language VARCHAR(7) NOT NULL DEFAULT 'en',
		PRIMARY KEY (id),
		UNIQUE KEY uq_translated_formats_lang (format_id, language),
		KEY idx_translated_formats_language (language),
		CONSTRAINT fk_translated_formats_format FOREIGN KEY (format_id)
			REFERENCES formats (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS meetings (
		id BIGINT NOT NULL AUTO_INCREMENT,
		root_server_id BIGINT NOT NULL,
		source_id BIGINT NOT NULL,
		service_body_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		weekday TINYINT NOT NULL,
		venue_type SMALLINT NULL,
		start_time TIME NULL,
		duration TIME NULL,
		language VARCHAR(7) NULL,
		latitude DECIMAL(15,12) NOT NULL,
		longitude DECIMAL(15,12) NOT NULL,
		point POINT NULL,
		published TINYINT(1) NOT NULL DEFAULT 0,
		deleted TINYINT(1) NOT NULL DEFAULT 0,
		PRIMARY KEY (id),
		UNIQUE KEY uq_meetings_scope (root_server_id, source_id),
		KEY idx_meetings_deleted_published (deleted, published),
		CONSTRAINT fk_meetings_root FOREIGN KEY (root_server_id)
			REFERENCES root_servers (id) ON DELETE CASCADE,
		CONSTRAINT fk_meetings_service_body FOREIGN KEY (service_body_id)
			REFERENCES service_bodies (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS meeting_info (
		id BIGINT NOT NULL AUTO_INCREMENT,
		meeting_id BIGINT NOT NULL,
		email VARCHAR(255) NULL,
		location_text VARCHAR(512) NULL,
		location_info VARCHAR(512) NULL,
		location_street VARCHAR(255) NULL,
		location_city_subsection VARCHAR(255) NULL,
		location_neighborhood VARCHAR(255) NULL,
		location_municipality VARCHAR(255) NULL,
		location_sub_province VARCHAR(255) NULL,
		location_province VARCHAR(255) NULL,
		location_postal_code_1 VARCHAR(255) NULL,
		location_nation VARCHAR(255) NULL,
		train_lines VARCHAR(255) NULL,
		bus_lines VARCHAR(512) NULL,
		world_id VARCHAR(255) NULL,
		comments TEXT NULL,
		virtual_meeting_link TEXT NULL,
		phone_meeting_number VARCHAR(255) NULL,
		virtual_meeting_additional_info VARCHAR(255) NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_meeting_info_meeting (meeting_id),
		CONSTRAINT fk_meeting_info_meeting FOREIGN KEY (meeting_id)
			REFERENCES meetings (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS meeting_formats (
		meeting_id BIGINT NOT NULL,
		format_id BIGINT NOT NULL,
		PRIMARY KEY (meeting_id, format_id),
		CONSTRAINT fk_meeting_formats_meeting FOREIGN KEY (meeting_id)
			REFERENCES meetings (id) ON DELETE CASCADE,
		CONSTRAINT fk_meeting_formats_format FOREIGN KEY (format_id)
			REFERENCES formats (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables. Statements are idempotent, so this
// is safe to run on every startup.
func EnsureSchema() error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	for _, stmt := range schemaStatements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	log.Println("Database schema is up to date.")
	return nil
}
