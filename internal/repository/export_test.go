package repository

import "database/sql"

// PostgresDB exposes the container database to the catalog tests in repository_test
func PostgresDB() *sql.DB { return testDB }

var Classify = classify
