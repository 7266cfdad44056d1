// Package engine runs query requests end to end.
//
// A request flows through four steps:
//
//  1. Decode the request JSON into a condition.Request
//  2. Compile it against the catalog into a queryplan.Plan
//  3. Render the plan to SQL for the store's dialect
//  4. Execute the SQL and load eager relations
//
// Each step fails with a RequestError carrying the step's code, so callers
// can tell a bad request from a failing database.
//
// An Engine holds no per-request state and is safe for concurrent use.
// Explain stops after step 3 and needs no database.
package engine
