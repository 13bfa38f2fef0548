// Package workshop is the offline-first persistence and synchronization core
// of the Alsami workshop equipment tracker.
//
// Typical flow:
//  1. Presentation code calls Writer.Save with a collection name and a field
//     map. The record is made durable in the local Store first, then staged
//     as a pending entry in the outbox Queue.
//  2. An Engine delivers pending outbox entries to the remote endpoint in
//     batches, marking them synced only after a confirmed success response.
//     Delivery is at-least-once; the remote endpoint deduplicates by entry id.
//  3. An Aggregator answers point lookups and time-range exports by folding
//     every partial record for a business key into one latest-wins view.
//
// For the SQLite-backed Store and Queue see the sqlite package; for the
// remote endpoint client and the connectivity monitor see httpapi.
package workshop
