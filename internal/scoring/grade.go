package scoring

import (
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Grade labels, best first.
const (
	GradeExcellent = "excellent"
	GradeGood      = "good"
	GradeMedium    = "medium"
	GradePassing   = "passing"
	GradePoor      = "poor"
)

// gradeBands are inclusive lower bounds, checked in order.
var gradeBands = []struct {
	min   *apd.Decimal
	label string
}{
	{apd.New(90, 0), GradeExcellent},
	{apd.New(80, 0), GradeGood},
	{apd.New(70, 0), GradeMedium},
	{apd.New(60, 0), GradePassing},
}

// Grade maps a total score onto its label.
func Grade(total float64) string {
	d, _, err := apd.NewFromString(strconv.FormatFloat(total, 'f', -1, 64))
	if err != nil {
		return GradePoor
	}
	return gradeDecimal(d)
}

func gradeDecimal(total *apd.Decimal) string {
	for _, b := range gradeBands {
		if total.Cmp(b.min) >= 0 {
			return b.label
		}
	}
	return GradePoor
}
