package wirebind

import "fmt"

// DefaultLoc is the wire location applied to fields that carry no explicit
// wire spec. The zero value means no default is configured, which makes
// unannotated fields an error.
type DefaultLoc int

const (
	LocUnspecified DefaultLoc = iota
	LocBody
	LocQuery
)

// String returns the name of the default location.
func (l DefaultLoc) String() string {
	switch l {
	case LocUnspecified:
		return "unspecified"
	case LocBody:
		return "body"
	case LocQuery:
		return "query"
	default:
		return fmt.Sprintf("defaultloc(%d)", int(l))
	}
}

// WireLoc converts the default location into the wire location it implies.
func (l DefaultLoc) WireLoc() WireLoc {
	if l == LocQuery {
		return WireLoc{Kind: WireQuery}
	}
	return WireLoc{Kind: WireBody}
}

// WireLocKind identifies the transport channel a field travels in.
type WireLocKind int

const (
	WireBody WireLocKind = iota
	WireQuery
	WireHeader
	WirePath
	WireCookie
)

// String returns the name of the wire location kind.
func (k WireLocKind) String() string {
	switch k {
	case WireBody:
		return "body"
	case WireQuery:
		return "query"
	case WireHeader:
		return "header"
	case WirePath:
		return "path"
	case WireCookie:
		return "cookie"
	default:
		return fmt.Sprintf("wireloc(%d)", int(k))
	}
}

// WireLoc is the resolved placement of one field. Name carries the
// on-the-wire name for header and cookie placements.
type WireLoc struct {
	Kind WireLocKind
	Name string
}
