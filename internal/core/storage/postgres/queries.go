package postgres

// SQL queries for download document storage.

const (
	queryListDocuments = `
		SELECT name, repo, start_day, prop, content
		FROM download_documents
		ORDER BY name ASC
	`

	queryGetDocument = `
		SELECT name, repo, start_day, prop, content
		FROM download_documents
		WHERE name = $1
	`

	// queryUpsertDocument replaces content and overrides of an existing
	// document or inserts a new one.
	queryUpsertDocument = `
		INSERT INTO download_documents (name, repo, start_day, prop, content, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET
			repo       = EXCLUDED.repo,
			start_day  = EXCLUDED.start_day,
			prop       = EXCLUDED.prop,
			content    = EXCLUDED.content,
			updated_at = EXCLUDED.updated_at
	`

	queryInsertRun = `
		INSERT INTO sync_runs (
			id, document, repo, mode, started_at, finished_at, fetched, added, error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	queryRecentRuns = `
		SELECT id, document, repo, mode, started_at, finished_at, fetched, added, COALESCE(error, '')
		FROM sync_runs
		WHERE document = $1
		ORDER BY started_at DESC
		LIMIT $2
	`

	queryTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = $1
		)
	`
)
