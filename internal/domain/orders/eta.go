package orders

import "time"

const etaDateFormat = "02.01.2006"

// ETAChip is the promised-date badge shown on panel rows. Warn marks rows
// the staff should look at first.
type ETAChip struct {
	Label string
	Class string
	Warn  bool
}

// ETAFor classifies the order's promised date relative to today. Completed
// orders always show a neutral chip.
func ETAFor(order *ServiceOrder, today time.Time) ETAChip {
	if order.PromisedDate == nil {
		return ETAChip{Label: "Bez termínu", Class: "chip-gray"}
	}

	promised := truncateToDay(*order.PromisedDate)
	day := truncateToDay(today)
	date := promised.Format(etaDateFormat)

	if order.IsCompleted() {
		return ETAChip{Label: date, Class: "chip-gray"}
	}

	switch delta := int(promised.Sub(day).Hours() / 24); {
	case delta < 0:
		return ETAChip{Label: "Mešká " + date, Class: "chip-orange", Warn: true}
	case delta == 0:
		return ETAChip{Label: "Dnes " + date, Class: "chip-blue", Warn: true}
	case delta == 1:
		return ETAChip{Label: "Zajtra " + date, Class: "chip-blue", Warn: true}
	case delta <= 2:
		return ETAChip{Label: "On time " + date, Class: "chip-blue"}
	default:
		return ETAChip{Label: date, Class: "chip-gray"}
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
