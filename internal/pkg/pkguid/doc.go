// Package pkguid provides generators for unique identifiers.
//
// Callers depend on StringID (correlation IDs, UUIDv7) or NumberID
// (Snowflake, used to order recorded LLM exchanges) rather than on a
// concrete strategy.
package pkguid
