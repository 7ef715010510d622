package catalog

// schemaStatements creates the files table, its indexes, and the meta
// table, per spec.md §4.5. Issued inside the same transaction as the
// initial build.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY,
		filename TEXT NOT NULL,
		filename_lower TEXT NOT NULL,
		full_path TEXT NOT NULL UNIQUE,
		parent_dir TEXT NOT NULL,
		extension TEXT NOT NULL,
		size INTEGER NOT NULL,
		mtime REAL NOT NULL,
		is_dir INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_files_filename_lower ON files(filename_lower)`,
	`CREATE INDEX IF NOT EXISTS idx_files_parent_dir ON files(parent_dir)`,
	`CREATE INDEX IF NOT EXISTS idx_files_extension ON files(extension)`,
	`CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

// ftsStatements create the FTS5 auxiliary and the triggers that keep it in
// sync with files outside of rebuild windows, per spec.md §4.5's "FTS
// auxiliary ... is consistent with files — enforced by insert/delete
// triggers".
var ftsStatements = []string{
	`CREATE VIRTUAL TABLE IF NOT EXISTS files_fts USING fts5(
		filename, content='files', content_rowid='id'
	)`,
	`CREATE TRIGGER IF NOT EXISTS files_ai AFTER INSERT ON files BEGIN
		INSERT INTO files_fts(rowid, filename) VALUES (new.id, new.filename);
	END`,
	`CREATE TRIGGER IF NOT EXISTS files_ad AFTER DELETE ON files BEGIN
		INSERT INTO files_fts(files_fts, rowid, filename) VALUES('delete', old.id, old.filename);
	END`,
	`CREATE TRIGGER IF NOT EXISTS files_au AFTER UPDATE ON files BEGIN
		INSERT INTO files_fts(files_fts, rowid, filename) VALUES('delete', old.id, old.filename);
		INSERT INTO files_fts(rowid, filename) VALUES (new.id, new.filename);
	END`,
}

// dropStatements tear down files (and its FTS auxiliary) ahead of a full
// rebuild, per spec.md §4.5 build() order: "drop files_fts and files;
// recreate files".
var dropStatements = []string{
	`DROP TRIGGER IF EXISTS files_ai`,
	`DROP TRIGGER IF EXISTS files_ad`,
	`DROP TRIGGER IF EXISTS files_au`,
	`DROP TABLE IF EXISTS files_fts`,
	`DROP TABLE IF EXISTS files`,
}
