package testsupport

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteMemoryDB opens a named shared in-memory SQLite database. The
// shared cache keeps the schema visible across connections within the same
// process, and the name isolates one test package's data from another's.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	if name == "" {
		name = "testsupport"
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)
	return sql.Open("sqlite3", dsn)
}
