package sqlstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// nullDate scans a DATE column into a YYYY-MM-DD string. Postgres yields
// time.Time; SQLite yields text or time.Time depending on the driver's
// declared-type handling.
type nullDate struct {
	value *string
}

func (d *nullDate) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		d.value = nil
		return nil
	case time.Time:
		s = v.Format(time.DateOnly)
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into date", src)
	}
	if len(s) > len(time.DateOnly) {
		s = s[:len(time.DateOnly)]
	}
	d.value = &s
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	time.DateTime,
}

// timestamp scans a timestamp column stored natively or as text.
type timestamp struct {
	value time.Time
}

func (t *timestamp) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		t.value = time.Time{}
		return nil
	case time.Time:
		t.value = v.UTC()
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.value = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

// keywordList scans a Postgres text[] literal or a SQLite JSON array.
type keywordList []string

func (k *keywordList) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*k = []string{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into keywords", src)
	}

	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return fmt.Errorf("failed to decode keywords: %w", err)
		}
		if out == nil {
			out = []string{}
		}
		*k = out
		return nil
	}

	var arr pq.StringArray
	if err := arr.Scan([]byte(raw)); err != nil {
		return fmt.Errorf("failed to decode keywords: %w", err)
	}
	if arr == nil {
		arr = pq.StringArray{}
	}
	*k = keywordList(arr)
	return nil
}
