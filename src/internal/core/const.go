// FILE: pathfinder/src/internal/core/const.go
package core

// Record fields and wire defaults
const (
	TimestampField = "ts"
	HostField      = "hn"
	DefaultHost    = "ghost-pathfinder"
	TimestampFmt   = "2006-01-02 15:04:05"
)

// Separator replaces literal newlines in bodies before they are sent.
const NewlineSeparator = "::newline::"

const DefaultPort = 1984
