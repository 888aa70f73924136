// Package server implements the tablekit HTTP service: upload tables,
// reshape them on the server, and download the results in any supported
// format.
//
// # Architecture
//
// The service is three layers:
//
//  1. Handlers: decode requests, map errors to statuses (chi router)
//  2. Store: dataset persistence (memory for development, MongoDB for
//     deployments)
//  3. Cache: reshape results keyed by dataset content and operation
//     parameters (pkg/cache backends)
//
// Datasets are stored as Parquet payloads plus metadata, so column kinds
// survive storage exactly.
//
// # Endpoints
//
//	POST   /v1/datasets              upload (text/csv, application/json, octet-stream Parquet)
//	GET    /v1/datasets              list metadata
//	GET    /v1/datasets/{id}         download (?format=csv|json|parquet)
//	DELETE /v1/datasets/{id}         remove
//	POST   /v1/datasets/{id}/reshape apply one operation, store the result
//	GET    /healthz                  liveness and version
//
// Reshape requests use the same operation encoding as recipe steps:
//
//	{"op": "longer", "id_columns": ["country"], "names_to": "date", "values_to": "cases"}
//
// # Configuration
//
// A TOML file selects the backends:
//
//	[server]
//	addr = ":8080"
//	read_timeout = "30s"
//
//	[store]
//	backend = "mongo"
//	uri = "mongodb://localhost:27017"
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
//	scope = "prod:"
//
// Everything defaults to a self-contained process: memory store, no cache.
// The cache scope prefixes every key, keeping deployments that share one
// Redis from seeing each other's entries.
//
// # Errors
//
// Failures return {"code", "error"} JSON. Validation and reshape failures
// (SCHEMA_ERROR, SPLIT_ARITY, INVALID_*) map to 400, missing datasets to
// 404, everything else to 500.
package server
