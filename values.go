package filtering

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// timestampLayout is the canonical textual form for timestamp values: UTC with
// millisecond precision and a fixed Z offset marker.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// formatValue renders a typed value into the exact textual form the filter
// grammar requires.
//
// Supported types:
//   - bool: true / false
//   - int, int8..int64, uint, uint8..uint64: decimal text
//   - float32, float64: decimal text, shortest representation
//   - string: single-quoted, embedded single quotes doubled ('O''Brien')
//   - time.Time, *timestamppb.Timestamp: canonical UTC timestamp text
//   - rawValue: emitted verbatim (parsed tokens that survive as raw text)
func formatValue(value any) (string, error) {
	switch v := value.(type) {
	case rawValue:
		return string(v), nil
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case time.Time:
		return v.UTC().Format(timestampLayout), nil
	case *timestamppb.Timestamp:
		return v.AsTime().UTC().Format(timestampLayout), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}

// rawValue is a parsed token that is neither a quoted string nor a number.
// Field references, booleans and timestamps are not specially recognised on
// the parse side; they survive as raw text and are re-emitted verbatim.
type rawValue string

// parseValue inverts formatValue for a single token.
//
// A token bounded by matching quote characters (' or ") is a string; single
// quoted literals have their doubled '' escapes collapsed back to a single
// quote. A token that parses cleanly as a decimal number is an int64 or
// float64. Anything else is an opaque rawValue.
func parseValue(text string) any {
	if len(text) >= 2 {
		if text[0] == '\'' && text[len(text)-1] == '\'' {
			return strings.ReplaceAll(text[1:len(text)-1], "''", "'")
		}
		if text[0] == '"' && text[len(text)-1] == '"' {
			return text[1 : len(text)-1]
		}
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	return rawValue(text)
}
