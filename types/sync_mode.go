package types

// SyncMode is the replication strategy of a stream.
type SyncMode string

const (
	FULLREFRESH SyncMode = "full_refresh"
	INCREMENTAL SyncMode = "incremental"
)

// ViolationPolicy decides what happens when a record fails schema conformance.
type ViolationPolicy string

const (
	DropViolation ViolationPolicy = "drop"
	FailViolation ViolationPolicy = "fail"
)
