package provider

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/leapstack-labs/cratesql/pkg/core"
)

// DbType is the PostgreSQL type a parameter is bound as.
type DbType int

// DbType constants.
const (
	Unknown DbType = iota
	Bytea
	Boolean
	Smallint
	Integer
	Bigint
	Real
	Double
	Numeric
	Text
	Timestamp
	TimestampTZ
	Interval
	UUID
)

var dbTypeInfo = map[DbType]struct {
	name string
	oid  uint32
}{
	Bytea:       {"bytea", pgtype.ByteaOID},
	Boolean:     {"boolean", pgtype.BoolOID},
	Smallint:    {"smallint", pgtype.Int2OID},
	Integer:     {"integer", pgtype.Int4OID},
	Bigint:      {"bigint", pgtype.Int8OID},
	Real:        {"real", pgtype.Float4OID},
	Double:      {"double precision", pgtype.Float8OID},
	Numeric:     {"numeric", pgtype.NumericOID},
	Text:        {"text", pgtype.TextOID},
	Timestamp:   {"timestamp", pgtype.TimestampOID},
	TimestampTZ: {"timestamptz", pgtype.TimestamptzOID},
	Interval:    {"interval", pgtype.IntervalOID},
	UUID:        {"uuid", pgtype.UUIDOID},
}

// String returns the SQL type name.
func (t DbType) String() string {
	if info, ok := dbTypeInfo[t]; ok {
		return info.name
	}
	return "unknown"
}

// OID returns the PostgreSQL type OID, or 0 for Unknown.
func (t DbType) OID() uint32 {
	return dbTypeInfo[t].oid
}

// MapPrimitive returns the parameter type for a primitive kind. Kinds
// without a PostgreSQL counterpart fail with *core.UnsupportedTypeKindError.
func MapPrimitive(kind core.PrimitiveKind) (DbType, error) {
	switch kind {
	case core.KindBinary:
		return Bytea, nil
	case core.KindBoolean:
		return Boolean, nil
	case core.KindByte, core.KindSByte, core.KindInt16:
		return Smallint, nil
	case core.KindInt32:
		return Integer, nil
	case core.KindInt64:
		return Bigint, nil
	case core.KindSingle:
		return Real, nil
	case core.KindDouble:
		return Double, nil
	case core.KindDecimal:
		return Numeric, nil
	case core.KindString:
		return Text, nil
	case core.KindDateTime:
		return Timestamp, nil
	case core.KindDateTimeOffset:
		return TimestampTZ, nil
	case core.KindTime:
		return Interval, nil
	case core.KindGuid:
		return UUID, nil
	default:
		return Unknown, &core.UnsupportedTypeKindError{Kind: kind}
	}
}
