// Package xmlstore implements the XML-backed module store: it walks a data
// directory of course directories, parses each course's markup tree into a
// graph of descriptors, and indexes every node by Location.
//
// # Loading model
//
// The store is built once, synchronously, by New. Each course directory is
// loaded independently; a failure loading one course is recorded in that
// course's LoadResult and logged, and loading continues with the next
// directory. Partial failure is a first-class policy: a data directory with
// one broken course still yields a store serving every other course.
//
// A failed course's already-registered child nodes are left in the global
// index. Only the course catalog is authoritative for "which courses
// loaded"; the index is a flat namespace of everything that parsed.
//
// # After loading
//
// The index is safe for concurrent readers. Under lazy loading it still
// grows when a container first resolves its children; that growth is
// synchronized inside the store, so readers never observe a torn index.
// All mutation entry points fail with modulestore.ErrReadOnlyStore.
package xmlstore
