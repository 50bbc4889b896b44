package sqlgen

import (
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/token"
)

const (
	timestampLayout   = "2006-01-02 15:04:05.999999"
	timestampTZLayout = "2006-01-02 15:04:05.999999-07:00"
)

var (
	numericPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?$`)
)

// constant prints a constant as NULL, a synthesized parameter, or an
// escaped inline literal.
func (p *printer) constant(c *core.Constant) {
	if c.IsNull() {
		p.kw(token.NULL)
		return
	}
	if p.parameterize {
		p.synthesize(c)
		return
	}
	lit, err := Literal(c)
	if err != nil {
		p.fail(err)
		return
	}
	p.write(lit)
}

// Literal renders a constant as inline SQL. Values that do not fit the
// constant's kind fail with core.ErrInvalidCommandTree.
func Literal(c *core.Constant) (string, error) {
	if c.IsNull() {
		return token.NULL.String(), nil
	}

	switch c.Kind {
	case core.KindBoolean:
		if b, ok := c.Value.(bool); ok {
			if b {
				return token.TRUE.String(), nil
			}
			return token.FALSE.String(), nil
		}
	case core.KindByte, core.KindSByte, core.KindInt16, core.KindInt32, core.KindInt64:
		if s, ok := integerText(c.Value); ok {
			return s, nil
		}
	case core.KindSingle, core.KindDouble:
		if s, ok := floatText(c.Value); ok {
			return s, nil
		}
	case core.KindDecimal:
		if s, ok := decimalText(c.Value); ok {
			return s, nil
		}
	case core.KindString:
		if s, ok := c.Value.(string); ok {
			return quoteString(s), nil
		}
	case core.KindBinary:
		if b, ok := c.Value.([]byte); ok {
			return `'\x` + hex.EncodeToString(b) + `'::bytea`, nil
		}
	case core.KindGuid:
		if s, ok := uuidText(c.Value); ok {
			return quoteString(s) + "::uuid", nil
		}
	case core.KindDateTime:
		if t, ok := c.Value.(time.Time); ok {
			return "TIMESTAMP " + quoteString(t.Format(timestampLayout)), nil
		}
	case core.KindDateTimeOffset:
		if t, ok := c.Value.(time.Time); ok {
			return "TIMESTAMPTZ " + quoteString(t.Format(timestampTZLayout)), nil
		}
	case core.KindTime:
		if d, ok := c.Value.(time.Duration); ok {
			return "INTERVAL " + quoteString(strconv.FormatFloat(d.Seconds(), 'f', -1, 64)+" seconds"), nil
		}
	default:
		return "", &core.UnsupportedTypeKindError{Kind: c.Kind}
	}
	return "", fmt.Errorf("%w: %T value %v is not a valid %s constant", core.ErrInvalidCommandTree, c.Value, c.Value, c.Kind)
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func integerText(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.FormatInt(int64(n), 10), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return strconv.FormatFloat(n, 'f', 0, 64), true
		}
	}
	return "", false
}

func floatText(v any) (string, bool) {
	var f float64
	switch n := v.(type) {
	case float32:
		f = float64(n)
	case float64:
		f = n
	default:
		return integerText(v)
	}
	switch {
	case math.IsNaN(f):
		return "'NaN'::double precision", true
	case math.IsInf(f, 1):
		return "'Infinity'::double precision", true
	case math.IsInf(f, -1):
		return "'-Infinity'::double precision", true
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

func decimalText(v any) (string, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		return s, numericPattern.MatchString(s)
	}
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return "", false
	}
	return floatText(v)
}

func uuidText(v any) (string, bool) {
	switch u := v.(type) {
	case uuid.UUID:
		return u.String(), true
	case [16]byte:
		return uuid.UUID(u).String(), true
	case string:
		parsed, err := uuid.Parse(u)
		if err != nil {
			return "", false
		}
		return parsed.String(), true
	}
	return "", false
}

// isNegativeLiteral reports whether c would be inlined with a leading minus.
func isNegativeLiteral(c *core.Constant) bool {
	switch n := c.Value.(type) {
	case int:
		return n < 0
	case int8:
		return n < 0
	case int16:
		return n < 0
	case int32:
		return n < 0
	case int64:
		return n < 0
	case float32:
		return math.Signbit(float64(n))
	case float64:
		return math.Signbit(n)
	case string:
		return c.Kind == core.KindDecimal && strings.HasPrefix(strings.TrimSpace(n), "-")
	}
	return false
}
