/*
Package server implements msgpack IPC for a word/frequency dictionary.

Clients write a stream of msgpack maps to the server's input and read one msgpack map
back per request. Requests are processed one at a time, in order, and every response
carries the request ID and the time taken in microseconds.

# IPC

Every request names an op:

	{"id": "r1", "op": "search", "w": "cut"}
	{"id": "r2", "op": "insert", "w": "cutlass", "f": 12}
	{"id": "r3", "op": "delete", "w": "cut"}
	{"id": "r4", "op": "complete", "p": "cu", "l": 3}
	{"id": "r5", "op": "stats"}
	{"id": "r6", "op": "set_size", "chunk_count": 2}
	{"id": "r7", "op": "dict_info"}

Word ops answer with a WordResponse:

	{"id": "r1", "status": "ok", "f": 10, "ok": true, "t": 3}

where "f" is the stored frequency (0 when absent) and "ok" reports whether the word was
found, inserted or deleted. Completions answer with suggestions ranked by frequency,
ties broken by word:

	{"id": "r4", "s": [{"w": "cute", "f": 20, "r": 1}, {"w": "cut", "f": 10, "r": 2}], "c": 2, "t": 5}

An omitted limit means 3; larger limits are capped by the server config and never
exceed 65535, the highest rank.

# Dictionary size

A server started on a directory of chunk files can load or unload whole chunks while
it runs. "set_size" keeps the first chunk_count chunks loaded and "dict_info" reports
the loaded and available chunks with the size options; both answer a DictionaryResponse:

	{"id": "r6", "status": "ok", "current_chunks": 2, "available_chunks": 3, "words": 5}

Without chunk files these ops fail with code 400.

Failures answer with an ErrorResponse and the loop keeps going:

	{"id": "r2", "e": "frequency must be positive", "c": 400}

Only a stream that can no longer be framed (truncated or garbage bytes) stops the server.
*/
package server

import "github.com/bastiangx/wordtree/pkg/dictionary"

// Op names
const (
	OpSearch   = "search"
	OpInsert   = "insert"
	OpDelete   = "delete"
	OpComplete = "complete"
	OpStats    = "stats"
	OpSetSize  = "set_size"
	OpDictInfo = "dict_info"
)

// Request is a single client message. Fields not used by the op are ignored.
type Request struct {
	ID        string `msgpack:"id"`
	Op        string `msgpack:"op"`
	Word      string `msgpack:"w,omitempty"`
	Frequency int    `msgpack:"f,omitempty"`
	Prefix    string `msgpack:"p,omitempty"`
	Limit     int    `msgpack:"l,omitempty"`
	// ChunkCount is the target of set_size
	ChunkCount int `msgpack:"chunk_count,omitempty"`
}

// WordResponse answers search, insert and delete
type WordResponse struct {
	ID        string `msgpack:"id"`
	Status    string `msgpack:"status"`
	Frequency int    `msgpack:"f"`
	OK        bool   `msgpack:"ok"`
	TimeTaken int64  `msgpack:"t"`
}

// CompletionSuggestion is one ranked completion
type CompletionSuggestion struct {
	Word      string `msgpack:"w"`
	Frequency int    `msgpack:"f"`
	Rank      uint16 `msgpack:"r"`
}

// CompletionResponse answers complete
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// StatsResponse answers stats
type StatsResponse struct {
	ID       string `msgpack:"id"`
	Status   string `msgpack:"status"`
	Backend  string `msgpack:"backend"`
	Words    int    `msgpack:"words"`
	Nodes    int    `msgpack:"nodes,omitempty"`
	Requests int    `msgpack:"requests"`
}

// DictionaryResponse answers set_size and dict_info
type DictionaryResponse struct {
	ID              string                            `msgpack:"id"`
	Status          string                            `msgpack:"status"`
	CurrentChunks   int                               `msgpack:"current_chunks"`
	AvailableChunks int                               `msgpack:"available_chunks"`
	Words           int                               `msgpack:"words"`
	Options         []dictionary.DictionarySizeOption `msgpack:"options,omitempty"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// Error codes
const (
	CodeBadRequest = 400
	CodeInternal   = 500
)
