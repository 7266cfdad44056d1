// Package catalog describes the objects and fields a query may reference.
//
// The catalog is the compiler's only view of the schema. For every object
// it supplies the table name, the primary key and the fields; for every
// field its column, its type tag, whether its values live in the
// multilingual translations blob, the options of a list field and the
// relation metadata of a connect field.
//
// A Catalog is built once (New, LoadDir, LoadString) and is immutable
// afterwards. Lookups are map-backed and read-only, so a single Catalog
// may be shared by any number of concurrent compiles. Callers that swap
// catalogs at runtime should do so between requests, never during one.
//
// Field ids are UUIDs. A condition key that parses as a UUID is looked
// up by id; anything else is treated as a raw column name.
//
// CUE FORMAT:
//
//	object: team: {
//		table: "site_team"
//		pk:    "id"
//		fields: {
//			name: {id: "6f3c...", type: "string", multilingual: true}
//			members: {
//				id:   "9a1e..."
//				type: "connectObject"
//				link: {object: "user", column: "<reciprocal field id>", type: "many", via: "one"}
//			}
//		}
//	}
package catalog
