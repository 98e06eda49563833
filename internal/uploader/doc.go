// Package uploader submits stabilized capture pairs to the ingestion
// endpoint and reconciles the dedup ledger with the response.
//
// An attempt is admitted to the ledger before any file is read and released
// exactly once when the attempt ends, whatever the outcome. Only a 2xx or
// 409 response commits the signature as processed; every other ending leaves
// the capture eligible for a retry triggered by a later filesystem event.
package uploader
