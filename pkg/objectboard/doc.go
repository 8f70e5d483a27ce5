// Package objectboard provides a small library for registering "objects" --
// a title, a description, and an associated image -- while keeping a metadata
// record and a blob-store image consistent with each other, and fanning out
// change notifications to live subscribers.
//
// It exposes a Service interface that orchestrates the create/delete lifecycle
// across a Repository (metadata store) and a BlobStore (binary store), and a
// Notifier that broadcasts created/deleted events to connected subscribers.
// Implementations of repositories (memory, Postgres) and blob stores (memory,
// filesystem, S3) are provided under subpackages.
//
// Consistency Contract
//
// Create writes the blob first and the metadata record second: a failed blob
// write leaves no record behind, while a failed record insert after a
// successful blob write leaves an orphaned blob with no referencing record.
// Delete mirrors that ordering so that a partial failure leaves a dangling
// imageUrl rather than a leaked blob. Neither window is repaired by the
// library; callers retry whole operations.
package objectboard
