/*
Package server implements msgpack IPC for word ladder queries.

The server reads msgpack values from stdin and writes one msgpack value per
response to stdout. Logs go to stderr so the stream stays clean. The first
value written is a status message:

	{"status": "ready", "words": 235886, "index": "wildcard", "finder": "dual"}

# IPC

Every request carries an ID that is echoed back. A request without an
action is a path query:

	{"id": "q1", "s": "cat", "e": "dog"}
	{"id": "q2", "s": "cat", "e": "dog", "f": "single"}

The server answers with every shortest path, sorted, the number of paths,
the distance in edits and the time taken in microseconds:

	{"id": "q1", "p": [["cat","cot","cog","dog"], ["cat","cot","dot","dog"]], "c": 2, "d": 3, "t": 412}

Other actions:

	{"id": "n1", "action": "neighbors", "w": "cat"}
	{"id": "i1", "action": "info"}

# Errors

Failed requests get a PathError with an HTTP-like code:

	400 malformed request or invalid word
	404 word not in the dictionary
	204 both words exist but no ladder joins them
	408 the query ran past the configured timeout
	500 anything else

Requests are processed one at a time, in order.
*/
package server

// PathRequest asks for every shortest ladder between two words.
type PathRequest struct {
	ID     string `msgpack:"id"`
	Start  string `msgpack:"s"`
	End    string `msgpack:"e"`
	Finder string `msgpack:"f,omitempty"` // "single" or "dual"; server default when empty
}

// PathResponse carries the sorted shortest paths.
type PathResponse struct {
	ID        string     `msgpack:"id"`
	Paths     [][]string `msgpack:"p"`
	Count     int        `msgpack:"c"`
	Distance  int        `msgpack:"d"`
	TimeTaken int64      `msgpack:"t"`
}

// NeighborRequest lists the words one edit away from W.
type NeighborRequest struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"` // "neighbors"
	Word   string `msgpack:"w"`
}

// NeighborResponse - neighbors of a word, ascending by (length, word)
type NeighborResponse struct {
	ID        string   `msgpack:"id"`
	Word      string   `msgpack:"w"`
	Neighbors []string `msgpack:"n"`
	Count     int      `msgpack:"c"`
}

// InfoRequest - server and dictionary information
type InfoRequest struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"` // "info"
}

// InfoResponse describes the loaded dictionary and search setup.
type InfoResponse struct {
	ID        string `msgpack:"id,omitempty"`
	Status    string `msgpack:"status"`
	Words     int    `msgpack:"words"`
	MaxLength int    `msgpack:"max_len"`
	Index     string `msgpack:"index"`
	Finder    string `msgpack:"finder"`
	Requests  int    `msgpack:"requests"`
}

// PathError holds basic error information for any failed request
type PathError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// Error codes.
const (
	CodeNoPath     = 204
	CodeBadRequest = 400
	CodeNotFound   = 404
	CodeTimeout    = 408
	CodeInternal   = 500
)

// request is the union of every request shape, decoded before dispatch.
type request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"`
	Start  string `msgpack:"s"`
	End    string `msgpack:"e"`
	Finder string `msgpack:"f"`
	Word   string `msgpack:"w"`
}
