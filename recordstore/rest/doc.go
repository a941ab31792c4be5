/*
Package rest implements the recordstore capability against the
provider's REST API.

A Connector mints handles bound to one (access key, base ID) pair.
Batch writes go through the table endpoints (POST for create, PATCH for
partial update, PUT for full replace, DELETE with records[] query
parameters), single reads through the record endpoint, and queries
through the list endpoint with offset-token pagination.

Provider failures are surfaced as errors.RemoteError carrying the HTTP
status and the error envelope's type and message; a 404 on a record
fetch becomes errors.NotFoundError. The handle performs no batching,
throttling or retries of its own.
*/
package rest
