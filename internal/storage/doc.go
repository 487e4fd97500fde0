// Package storage persists benchmark results per label.
//
// Every label owns four slots:
//
//   - current-sample / old-sample: sampling data of a benchmark run
//   - current-results / old-results: timing data of a plain timer run
//
// Writing a slot first rotates the existing current slot to old, best
// effort, and then replaces current. Comparison reads current only; old is
// a soft backup.
//
// Two backends implement the slot layout:
//
//   - FileBackend: one directory per label, one file per slot, written via
//     a temporary file and a rename
//   - BadgerBackend: one key per label and slot in an embedded Badger v3
//     database, rotated inside a single transaction
//
// There is no locking across processes: two processes writing the same
// label race on the rotation.
package storage
