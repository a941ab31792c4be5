/*
Package batch splits bulk inputs into provider-sized chunks and fans
them out with bounded concurrency while preserving input order.

Chunk bounds every outbound write or delete to MaxBatchSize items.
Dispatch is an ordered map-with-bounded-parallelism: chunks are
dispatched in input order, completion order is unconstrained, and the
flattened output always matches input order. A failed chunk fails the
whole dispatch, but sibling chunks already in flight run to completion
and remote writes they issued are not rolled back.
*/
package batch
