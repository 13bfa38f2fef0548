package sqlite

import "errors"

var (
	// ErrPathRequired is returned when Open is called with an empty path.
	ErrPathRequired = errors.New("workshop sqlite: database path is required")
	// ErrDBRequired is returned when a nil *sql.DB is provided.
	ErrDBRequired = errors.New("workshop sqlite: db is required")
)
