package registry

import "fmt"

// Kind classifies what a Constructor produces.
type Kind int

const (
	KindNumeric Kind = iota + 1
	KindBoolean
	KindDatetime
	KindTimezone
	KindCompound
)

var kindNames = map[Kind]string{
	KindNumeric:  "numeric",
	KindBoolean:  "boolean",
	KindDatetime: "datetime",
	KindTimezone: "timezone",
	KindCompound: "compound",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText renders the kind by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
