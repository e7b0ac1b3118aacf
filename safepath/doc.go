// Package safepath joins untrusted path fragments onto a trusted base
// directory without letting them escape it.
//
// # Rules
//
// Each fragment is cleaned with [path.Clean] (empty fragments are left as
// they are) and rejected when the result
//
//   - contains the platform separator, if that is not "/" (a backslash on Windows),
//   - is absolute or carries a volume name,
//   - is exactly "..", or
//   - starts with "../".
//
// A single rejected fragment rejects the whole call. Rejection is reported
// with ok == false, never with an error, so hostile input needs no special
// handling beyond "not found".
//
// # Quick start
//
//	p, ok := safepath.Join("/var/data", r.URL.Query().Get("file"))
//	if !ok {
//	    http.NotFound(w, r)
//	    return
//	}
//
// # Limitations
//
// Resolution is purely syntactic and never touches the filesystem. A symlink
// inside the base directory can still point outside it; callers that open
// the returned path must handle that themselves, for example with [os.Root].
package safepath
