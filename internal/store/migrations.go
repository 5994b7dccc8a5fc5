package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create intake cases",
		SQL: `
			CREATE TABLE intake_cases (
				id               TEXT PRIMARY KEY,
				name             TEXT NOT NULL,
				contact          TEXT NOT NULL,
				date_of_incident TEXT NOT NULL,
				description      TEXT NOT NULL,
				created_at       TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_cases_created ON intake_cases (created_at);
			CREATE INDEX idx_cases_incident ON intake_cases (date_of_incident);
		`,
	},
}
