package repository

import (
	"fmt"
	"time"
)

// dbTime scans DATE/DATETIME columns regardless of what the driver
// hands back.  The MySQL driver returns time.Time (parseTime=true);
// the sqlite driver used in tests returns the stored text.
type dbTime struct {
	t time.Time
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func (d *dbTime) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		d.t = time.Time{}
		return nil
	case time.Time:
		d.t = x
		return nil
	case []byte:
		return d.parse(string(x))
	case string:
		return d.parse(x)
	}
	return fmt.Errorf("cannot scan %T into time", v)
}

func (d *dbTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.t = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized time value %q", s)
}

// dateStr formats a date for use as a query parameter.  Dates are
// always compared in their column format, avoiding timezone drift.
func dateStr(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
