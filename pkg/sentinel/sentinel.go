package sentinel

import "errors"

// Sentinel errors for pipeline and infrastructure facts. Stores, sources and
// transports return these (optionally wrapped) so the orchestrator can
// classify failures without string matching.
//
// These map onto the run-level error taxonomy:
// - ErrUnauthorized: trigger precondition failed, no side effects occurred
// - ErrSourceFetch: catalog paging was interrupted, audit aborted with no partial report
// - ErrDelivery: the email transport rejected a rendered report
// - ErrMalformedEvent: a queued event failed to decode (skip-and-continue policy)
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSourceFetch    = errors.New("catalog fetch failed")
	ErrDelivery       = errors.New("delivery failed")
	ErrMalformedEvent = errors.New("malformed event")
)
