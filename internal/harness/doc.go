// Package harness runs YAML query scenarios.
//
// A scenario names a catalog, a dialect, an object and a request, and states
// what compiling it must produce:
//
//	name: adults_or_minors
//	description: OR group nested under AND
//	catalog: ../../../../testdata/catalog
//	dialect: mysql
//	object: person
//	request:
//	  where:
//	    glue: and
//	    rules:
//	      - {key: age, rule: greater, value: 30}
//	expect:
//	  sql: SELECT `person`.* FROM `person` WHERE `age` > ?
//	  args: [30]
//
// Scenarios with a fixture, seed statements or row_ids run against a fresh
// in-memory SQLite database; all others only compile. Snapshot renders a
// result in golden file form; the package tests compare snapshots with
// goldie so regressions show up as diffs.
package harness
