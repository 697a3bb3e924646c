// Package databend is a small client for the Databend HTTP query API
// (POST /v1/query).
package databend

import "encoding/json"

// QueryRequest is the body of POST /v1/query.
type QueryRequest struct {
	SessionID    string          `json:"session_id,omitempty"`
	Session      *SessionConf    `json:"session,omitempty"`
	SQL          string          `json:"sql"`
	Pagination   *PaginationConf `json:"pagination,omitempty"`
	StringFields *bool           `json:"string_fields,omitempty"`
}

// SessionConf carries the session state sent along a query.
type SessionConf struct {
	Database              string            `json:"database,omitempty"`
	KeepServerSessionSecs *uint64           `json:"keep_server_session_secs,omitempty"`
	Settings              map[string]string `json:"settings,omitempty"`
}

// DefaultWaitTimeSecs is the server's own wait time, sent when Execute is
// given no bound.
const DefaultWaitTimeSecs = 1

// PaginationConf controls how long the server waits before answering and how
// many rows it returns per page.
type PaginationConf struct {
	WaitTimeSecs    *uint32 `json:"wait_time_secs,omitempty"`
	MaxRowsInBuffer *uint64 `json:"max_rows_in_buffer,omitempty"`
	MaxRowsPerPage  *uint64 `json:"max_rows_per_page,omitempty"`
}

// ExecuteState is the state of a query as reported by the server.
type ExecuteState string

const (
	StateRunning   ExecuteState = "Running"
	StateFailed    ExecuteState = "Failed"
	StateSucceeded ExecuteState = "Succeeded"
)

// QueryError is the error reported for a failed SQL query.
type QueryError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ProgressValues counts rows and bytes.
type ProgressValues struct {
	Rows  uint64 `json:"rows"`
	Bytes uint64 `json:"bytes"`
}

// QueryStats holds the progress counters of a query. The server sends the
// progresses at the same level as running_time_ms.
type QueryStats struct {
	ScanProgress   ProgressValues `json:"scan_progress"`
	WriteProgress  ProgressValues `json:"write_progress"`
	ResultProgress ProgressValues `json:"result_progress"`
	RunningTimeMS  float64        `json:"running_time_ms"`
}

// QueryResponse is the answer to POST /v1/query.
type QueryResponse struct {
	ID        string            `json:"id"`
	SessionID string            `json:"session_id,omitempty"`
	Session   *SessionConf      `json:"session,omitempty"`
	Schema    json.RawMessage   `json:"schema,omitempty"`
	Data      []json.RawMessage `json:"data"`
	State     ExecuteState      `json:"state"`
	Error     *QueryError       `json:"error,omitempty"`
	Stats     QueryStats        `json:"stats"`
	Affect    json.RawMessage   `json:"affect,omitempty"`
	StatsURI  string            `json:"stats_uri,omitempty"`
	FinalURI  string            `json:"final_uri,omitempty"`
	NextURI   string            `json:"next_uri,omitempty"`
	KillURI   string            `json:"kill_uri,omitempty"`
}
