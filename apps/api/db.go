package main

import (
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/storage/database"
)

// setUpDB creates the database if needed, connects to it & applies the pending migrations.
func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
