// Package condition defines the client-facing query description consumed
// by the condition compiler.
//
// A request arrives as JSON produced by a query-builder UI:
//
//	{
//	  "where": {"glue": "and", "rules": [
//	    {"key": "name", "rule": "equals", "value": "Bob"},
//	    {"glue": "or", "rules": [
//	      {"key": "age", "rule": "greater", "value": 30},
//	      {"key": "age", "rule": "less", "value": 10}
//	    ]}
//	  ]},
//	  "sort": [{"key": "<field-id>", "dir": "desc"}],
//	  "offset": 20,
//	  "limit": 10,
//	  "includeRelativeData": true
//	}
//
// The where tree is a tagged union. An object carrying "rules" (or "glue")
// is a Group; anything else is a Leaf. Decoding never fails on partially
// built conditions: the UI emits half-edited rules while the user types,
// and those are dropped later by the compiler rather than rejected here.
// Only syntactically invalid JSON is an error.
//
// Node values are immutable once decoded. The compiler works on resolved
// copies and never writes back into a Node.
package condition
