package core

import "strings"

// PrimitiveKind is the engine-neutral type of a parameter or constant.
type PrimitiveKind int

// PrimitiveKind constants.
const (
	KindInvalid PrimitiveKind = iota
	KindBinary
	KindBoolean
	KindByte
	KindSByte
	KindInt16
	KindInt32
	KindInt64
	KindSingle
	KindDouble
	KindDecimal
	KindString
	KindDateTime
	KindDateTimeOffset
	KindTime
	KindGuid
	KindGeometry
	KindGeography
)

var kindNames = [...]string{
	KindInvalid:        "invalid",
	KindBinary:         "binary",
	KindBoolean:        "boolean",
	KindByte:           "byte",
	KindSByte:          "sbyte",
	KindInt16:          "int16",
	KindInt32:          "int32",
	KindInt64:          "int64",
	KindSingle:         "single",
	KindDouble:         "double",
	KindDecimal:        "decimal",
	KindString:         "string",
	KindDateTime:       "datetime",
	KindDateTimeOffset: "datetimeoffset",
	KindTime:           "time",
	KindGuid:           "guid",
	KindGeometry:       "geometry",
	KindGeography:      "geography",
}

// String returns the lowercase name of the kind.
func (k PrimitiveKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParsePrimitiveKind parses a kind name case-insensitively. Common aliases
// such as "int", "text" and "uuid" are accepted.
func ParsePrimitiveKind(s string) (PrimitiveKind, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name && PrimitiveKind(k) != KindInvalid {
			return PrimitiveKind(k), true
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, true
	}
	return KindInvalid, false
}

var kindAliases = map[string]PrimitiveKind{
	"bytes":     KindBinary,
	"bool":      KindBoolean,
	"smallint":  KindInt16,
	"int":       KindInt32,
	"integer":   KindInt32,
	"bigint":    KindInt64,
	"float":     KindSingle,
	"real":      KindSingle,
	"numeric":   KindDecimal,
	"text":      KindString,
	"timestamp": KindDateTime,
	"uuid":      KindGuid,
	"interval":  KindTime,
}

// TypeUsage describes the declared type of a parameter.
type TypeUsage struct {
	Kind     PrimitiveKind
	Nullable bool
}
