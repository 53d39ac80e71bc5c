package core

import (
	"database/sql/driver"
	"time"

	"github.com/pkg/errors"
)

// Date is an ISO calendar date (YYYY-MM-DD) as it crosses the API boundary.
type Date string

func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func Today() Date {
	return NewDate(time.Now())
}

// Time parses d. The zero time is returned for invalid dates.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

func (d Date) IsZero() bool {
	return d == ""
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = NewDate(v)
	case string:
		*d = Date(v)
	case []byte:
		*d = Date(v)
	default:
		return errors.Errorf("core.Date: cannot scan %T", src)
	}
	if len(*d) > len(DateLayout) {
		*d = (*d)[:len(DateLayout)]
	}
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}
