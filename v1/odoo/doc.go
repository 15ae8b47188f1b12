// Package odoo is a read-only JSON-RPC client for an Odoo ERP instance.
//
// Every call goes through a method whitelist (search_read, read,
// search_count, fields_get, search), so this client is structurally
// incapable of mutating ERP data. Failures come back as *QueryError with
// a kind and a diagnostic checklist, because the usual causes (VPN down,
// password instead of API key, wrong database name) are operational and
// the error text is what the operator acts on.
//
// SchemaSource adapts the client into a catalog source: it reads the
// ir.model registry and per-model fields_get definitions and converts
// them into projection schemas.
package odoo
