// Package queue defines message payloads exchanged over the message
// broker and the background worker that serves them.
package queue

// ExportQueueName is the durable queue carrying export requests.
const ExportQueueName = "export.requested"

// ExportRequestedEvent is published when an operator asks for an
// export to be produced in the background.  It carries everything the
// worker needs without querying request state.
type ExportRequestedEvent struct {
	Entity      string `json:"entity"`       // products, exhibitions, records or snapshot
	Format      string `json:"format"`       // xlsx, csv, pdf or json
	RequestedBy string `json:"requested_by"` // operator id, for the audit trail
	RequestedAt string `json:"requested_at"` // RFC3339 submission time
}
