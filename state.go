package swfstream

// state is the parser's position in the container's fixed top-level
// sequence: preamble, then (for LZMA bodies only) the LZMA properties
// block, then the decompressed header fields, then the tag stream.
type state int

const (
	stateStarted state = iota
	stateLZMAHeader
	stateHeader
	stateBody
	stateFinished
)

func (s state) String() string {
	switch s {
	case stateStarted:
		return "started"
	case stateLZMAHeader:
		return "lzma_header"
	case stateHeader:
		return "header"
	case stateBody:
		return "body"
	case stateFinished:
		return "finished"
	default:
		return "unknown"
	}
}
