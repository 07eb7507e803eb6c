package common

// SecurityType selects the margin model variant for an instrument.
type SecurityType int

const (
	Future SecurityType = iota
	Equity
	Option
)

func (st SecurityType) String() string {
	switch st {
	case Future:
		return "future"
	case Equity:
		return "equity"
	case Option:
		return "option"
	default:
		return "unknown"
	}
}

// ParseSecurityType maps a manifest string to a SecurityType. Unknown
// strings fall back to Equity, the least leveraged variant.
func ParseSecurityType(s string) SecurityType {
	switch s {
	case "future":
		return Future
	case "option":
		return Option
	default:
		return Equity
	}
}
