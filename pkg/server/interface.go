/*
Package server implements msgpack IPC for rhyme lookup services.

The server reads a stream of msgpack messages from stdin and writes one msgpack response per
request to stdout. Messages are self-delimiting, so no framing is needed between them.

# IPC

Every request carries an ID, echoed in its response, and an op naming the operation:

	{"id": "req_001", "op": "rhyme", "w": "Haus", "s": 2, "l": 20}

Rhyme responses hold one group per rhyme tail, longest tail first, plus compounds ending in the
query word:

	{"id": "req_001", "q": "Haus", "g": [{"label": "/aʊs/", "syl": 1, "fav": true,
	  "w": [{"w": "aus", "p": "aʊs", "r": 1, "f": 8}, {"w": "Maus", "p": "maʊs", "r": 2, "f": 3}]}],
	  "c": 2, "t": 145}

The other ops are:

	{"id": "2", "op": "suffix", "x": "ung", "l": 10}
	{"id": "3", "op": "lookup", "w": "Bank"}
	{"id": "4", "op": "complete", "p": "stra", "l": 10}
	{"id": "5", "op": "dict", "action": "list"}
	{"id": "6", "op": "dict", "action": "disable", "name": "en"}
	{"id": "7", "op": "health"}

Dictionary actions are list, enable, disable and reload.
Failed requests get an ErrorResponse with an HTTP-like code instead.

Times are in microseconds.
*/
package server

// Request is the envelope every message is first decoded into
type Request struct {
	ID string `msgpack:"id"`
	Op string `msgpack:"op"`
}

// RhymeRequest asks for the rhymes of a word
type RhymeRequest struct {
	ID        string `msgpack:"id"`
	Word      string `msgpack:"w"`
	Syllables int    `msgpack:"s,omitempty"`
	Limit     int    `msgpack:"l,omitempty"`
}

// RhymeWord is one ranked word of a response
type RhymeWord struct {
	Word      string `msgpack:"w"`
	Phonetic  string `msgpack:"p"`
	Rank      uint16 `msgpack:"r"`
	Frequency int64  `msgpack:"f"`
}

// RhymeGroup is a labelled list of ranked words
type RhymeGroup struct {
	Label     string      `msgpack:"label"`
	Syllables int         `msgpack:"syl,omitempty"`
	Favorite  bool        `msgpack:"fav,omitempty"`
	Words     []RhymeWord `msgpack:"w"`
}

// RhymeResponse - rhyme response
type RhymeResponse struct {
	ID         string       `msgpack:"id"`
	Query      string       `msgpack:"q"`
	Words      []RhymeWord  `msgpack:"words,omitempty"`
	Groups     []RhymeGroup `msgpack:"g"`
	Extensions []RhymeGroup `msgpack:"x,omitempty"`
	Count      int          `msgpack:"c"`
	TimeTaken  int64        `msgpack:"t"`
}

// SuffixRequest asks for the words ending in a spelling suffix
type SuffixRequest struct {
	ID     string `msgpack:"id"`
	Suffix string `msgpack:"x"`
	Limit  int    `msgpack:"l,omitempty"`
}

// SuffixResponse - suffix response
type SuffixResponse struct {
	ID        string     `msgpack:"id"`
	Group     RhymeGroup `msgpack:"g"`
	Count     int        `msgpack:"c"`
	TimeTaken int64      `msgpack:"t"`
}

// LookupRequest asks for the pronunciations of a word
type LookupRequest struct {
	ID   string `msgpack:"id"`
	Word string `msgpack:"w"`
}

// LookupResponse - lookup response
type LookupResponse struct {
	ID    string      `msgpack:"id"`
	Words []RhymeWord `msgpack:"words"`
	Count int         `msgpack:"c"`
}

// CompletionRequest - minimal completion request
type CompletionRequest struct {
	ID     string `msgpack:"id"`
	Prefix string `msgpack:"p"`
	Limit  int    `msgpack:"l,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// DictionaryRequest - dictionary management request
type DictionaryRequest struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"`         // "list", "enable", "disable", "reload"
	Name   string `msgpack:"name,omitempty"` // all actions but "list"
}

// DictionaryInfo describes one loaded dictionary
type DictionaryInfo struct {
	Name    string `msgpack:"name"`
	Path    string `msgpack:"path"`
	Entries int    `msgpack:"entries"`
	Enabled bool   `msgpack:"enabled"`
}

// DictionaryResponse - dictionary operation response
type DictionaryResponse struct {
	ID      string           `msgpack:"id"`
	Status  string           `msgpack:"status"`
	Sources []DictionaryInfo `msgpack:"sources,omitempty"`
}

// HealthResponse reports readiness and engine statistics
type HealthResponse struct {
	ID     string         `msgpack:"id,omitempty"`
	Status string         `msgpack:"status"`
	Stats  map[string]int `msgpack:"stats,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
