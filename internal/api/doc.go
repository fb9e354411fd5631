// Package api serves Ken Burns planning over HTTP.
//
// # Endpoints
//
//	GET  /healthz                    liveness and build information
//	POST /v1/plans                   plan a timeline from JSON [pipeline.Options]
//	GET  /v1/plans/{id}              fetch a previously computed plan
//	GET  /v1/plans/{id}/frames/{n}   fetch one frame of a plan
//	GET  /v1/transform               compute a viewport matrix from query parameters
//
// Errors are JSON objects of the form {"error": {"code": ..., "message": ...}}.
// Precondition codes map to 400, NOT_FOUND to 404 and everything else to 500.
//
// Every response carries an X-Request-ID header. A client-supplied UUID is
// reused, otherwise a new one is generated. The request ID is attached to the
// request logger.
//
// [pipeline.Options]: github.com/matzehuels/kenburns/pkg/pipeline.Options
package api
