package event

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Keys of the trace object fields the records are built from.
const (
	KeyName      = "name"
	KeyProcessID = "pid"
	KeyThreadID  = "tid"
	KeyTimestamp = "ts"
	KeyPhase     = "ph"
)

// FromObject builds a Record from one decoded trace object. Numeric fields
// may be JSON numbers or numeric strings. Objects should be decoded with
// json.Decoder.UseNumber so that large timestamps keep full precision.
func FromObject(obj map[string]any) (Record, error) {
	var rec Record

	if v, ok := obj[KeyName]; ok && v != nil {
		name, ok := v.(string)
		if !ok {
			return Record{}, fmt.Errorf("field %q: expected string, got %T", KeyName, v)
		}
		rec.Name = name
	}
	if v, ok := obj[KeyPhase]; ok && v != nil {
		ph, ok := v.(string)
		if !ok {
			return Record{}, fmt.Errorf("field %q: expected string, got %T", KeyPhase, v)
		}
		rec.Phase = Phase(ph)
	}

	pid, err := intField(obj, KeyProcessID)
	if err != nil {
		return Record{}, err
	}
	rec.ProcessID = ProcessID(pid)

	ts, err := intField(obj, KeyTimestamp)
	if err != nil {
		return Record{}, err
	}
	rec.Timestamp = ts

	tid, err := threadField(obj)
	if err != nil {
		return Record{}, err
	}
	rec.ThreadID = tid

	return rec, nil
}

// FromObjects converts every object, stopping at the first invalid one.
func FromObjects(objs []map[string]any) (List, error) {
	list := make(List, 0, len(objs))
	for i, obj := range objs {
		rec, err := FromObject(obj)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		list = append(list, rec)
	}
	return list, nil
}

// FormatThreadID renders a raw tid value the way ThreadID stores it.
func FormatThreadID(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "0", nil
	case string:
		return x, nil
	case json.Number:
		n, err := parseNumeric(x.String())
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case float64:
		n, err := integral(x)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}

func threadField(obj map[string]any) (ThreadID, error) {
	s, err := FormatThreadID(obj[KeyThreadID])
	if err != nil {
		return "", fmt.Errorf("field %q: %w", KeyThreadID, err)
	}
	return ThreadID(s), nil
}

func intField(obj map[string]any, key string) (int64, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return n, nil
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case json.Number:
		return parseNumeric(x.String())
	case string:
		return parseNumeric(strings.TrimSpace(x))
	case float64:
		return integral(x)
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

func parseNumeric(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return integral(f)
}

// integral truncates fractional microseconds; the correlation works on
// whole microseconds only.
func integral(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %v", f)
	}
	n, err := safecast.Truncate[int64](f)
	if err != nil {
		return 0, fmt.Errorf("value %v: %w", f, err)
	}
	return n, nil
}
