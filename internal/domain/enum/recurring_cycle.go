package enum

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// RecurringCycle is the cadence on which a recurring template materializes
// concrete invoices. RecurringNone means the invoice is not recurring.
type RecurringCycle int

const (
	RecurringNone    RecurringCycle = 0
	RecurringDaily   RecurringCycle = 1
	RecurringWeekly  RecurringCycle = 2
	RecurringMonthly RecurringCycle = 3
	RecurringYearly  RecurringCycle = 4
)

var recurringCycleNames = [...]string{"none", "daily", "weekly", "monthly", "yearly"}

func (c RecurringCycle) String() string {
	if int(c) < 0 || int(c) >= len(recurringCycleNames) {
		return "none"
	}
	return recurringCycleNames[c]
}

// ParseRecurringCycle converts a cycle label into its enum value. Unknown
// labels map to RecurringNone.
func ParseRecurringCycle(str string) RecurringCycle {
	for i, name := range recurringCycleNames {
		if name == str {
			return RecurringCycle(i)
		}
	}
	return RecurringNone
}

// ThresholdDays is the number of elapsed days after which a template with
// this cycle becomes eligible for generation. Zero means never eligible.
func (c RecurringCycle) ThresholdDays() int {
	switch c {
	case RecurringDaily:
		return 1
	case RecurringWeekly:
		return 7
	case RecurringMonthly:
		return 30
	case RecurringYearly:
		return 365
	default:
		return 0
	}
}

// NextDueDate returns the due date for an invoice issued at the given time.
// Monthly and yearly advance by calendar units; an unrecognized cycle falls
// back to 30 days.
func (c RecurringCycle) NextDueDate(from time.Time) time.Time {
	switch c {
	case RecurringDaily:
		return from.AddDate(0, 0, 1)
	case RecurringWeekly:
		return from.AddDate(0, 0, 7)
	case RecurringMonthly:
		return from.AddDate(0, 1, 0)
	case RecurringYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 0, 30)
	}
}

func (c RecurringCycle) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *RecurringCycle) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*c = RecurringCycle(i)
		return nil
	}
	*c = ParseRecurringCycle(str)
	return nil
}

func (c RecurringCycle) Value() (driver.Value, error) {
	return int64(c), nil
}

func (c *RecurringCycle) Scan(value interface{}) error {
	if value == nil {
		*c = RecurringNone
		return nil
	}
	switch v := value.(type) {
	case int64:
		*c = RecurringCycle(v)
	case int:
		*c = RecurringCycle(v)
	}
	return nil
}
