package sqlite

// Schema DDL for the objects table. Metadata is stored as a JSON document;
// rowid preserves insertion order, which is the order Find returns.
const (
	createObjects = `CREATE TABLE objects (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    metadata TEXT NOT NULL DEFAULT '{}',
    created_at TEXT NOT NULL,
    modified_at TEXT NOT NULL
);`

	idxObjectsType     = `CREATE INDEX idx_objects_type ON objects(type);`
	idxObjectsTypeSlug = `CREATE UNIQUE INDEX idx_objects_type_slug ON objects(type, slug);`
)

// schemaDDL lists all CREATE statements in dependency order.
var schemaDDL = []string{
	createObjects,
	idxObjectsType,
	idxObjectsTypeSlug,
}

// objectColumns is the column list shared by SELECT and INSERT statements.
const objectColumns = "id, type, slug, title, content, metadata, created_at, modified_at"
