package testutil

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Schema creates the fixture tables in SQLite.
var Schema = []string{
	`CREATE TABLE site_user (id INTEGER PRIMARY KEY, username TEXT NOT NULL)`,
	`CREATE TABLE person (
		id INTEGER PRIMARY KEY,
		age INTEGER,
		status TEXT,
		owner INTEGER NULL REFERENCES site_user(id),
		created TEXT,
		nickname TEXT,
		created_by TEXT,
		translations TEXT
	)`,
	`CREATE TABLE tag (id INTEGER PRIMARY KEY, label TEXT NOT NULL)`,
	`CREATE TABLE person_tag (
		person_id INTEGER NOT NULL REFERENCES person(id),
		tag_id INTEGER NOT NULL REFERENCES tag(id)
	)`,
}

// Rows inserts the fixture data:
//
//	id  age  status    owner  created_by  en    es
//	1   35   active_1  1      alice       Bob   Roberto
//	2   8    closed_2  -      bob         Ann   Ana
//	3   20   active_1  2      alice       Carl  -
//
// Tags: person 1 has vip and new, person 3 has new.
var Rows = []string{
	`INSERT INTO site_user (id, username) VALUES (1, 'alice'), (2, 'bob')`,
	`INSERT INTO person (id, age, status, owner, created, nickname, created_by, translations) VALUES
		(1, 35, 'active_1', 1, '2024-01-10', 'bobby', 'alice',
			'[{"language_code":"en","name":"Bob"},{"language_code":"es","name":"Roberto"}]'),
		(2, 8, 'closed_2', NULL, '2024-03-02', '', 'bob',
			'[{"language_code":"en","name":"Ann"},{"language_code":"es","name":"Ana"}]'),
		(3, 20, 'active_1', 2, '2023-12-31', NULL, 'alice',
			'[{"language_code":"en","name":"Carl"}]')`,
	`INSERT INTO tag (id, label) VALUES (1, 'vip'), (2, 'new')`,
	`INSERT INTO person_tag (person_id, tag_id) VALUES (1, 1), (1, 2), (3, 2)`,
}

// Seed returns Schema followed by Rows.
func Seed() []string {
	out := make([]string, 0, len(Schema)+len(Rows))
	out = append(out, Schema...)
	return append(out, Rows...)
}

// OpenSQLite opens a private in-memory SQLite database loaded with Seed.
// The caller closes it.
func OpenSQLite() (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	for _, stmt := range Seed() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed statement %q: %w", stmt, err)
		}
	}
	return db, nil
}
