package valueobject

import (
	"fmt"
	"math"

	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
)

const DefaultCurrency = "UZS"

// Commission считает комиссию агентства с округлением до копеек.
// round(total*pct/100, 2) == round(total*pct)/100 без потери точности на делении.
func Commission(total, percentage float64) float64 {
	return math.Round(total*percentage) / 100
}

// CommissionPtr возвращает nil, если сумма контракта ещё не известна.
func CommissionPtr(total *float64, percentage float64) *float64 {
	if total == nil {
		return nil
	}
	c := Commission(*total, percentage)
	return &c
}

func ValidatePercentage(p float64) error {
	if p < 0 || p > 100 {
		return apperror.Validation("некорректный процент комиссии", map[string]string{
			"commission_percentage": "должен быть в диапазоне 0..100",
		})
	}
	return nil
}

type SalaryRange struct {
	Min      *float64
	Max      *float64
	Type     string
	Currency string
}

func NewSalaryRange(min, max *float64, salaryType, currency string) (SalaryRange, error) {
	if (min != nil && *min < 0) || (max != nil && *max < 0) {
		return SalaryRange{}, apperror.Validation("зарплата не может быть отрицательной", map[string]string{
			"salary": "отрицательное значение",
		})
	}
	if min != nil && max != nil && *min > *max {
		return SalaryRange{}, apperror.Validation("минимальная зарплата не может превышать максимальную", map[string]string{
			"salary_min": "больше salary_max",
		})
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return SalaryRange{Min: min, Max: max, Type: salaryType, Currency: currency}, nil
}

func (r SalaryRange) String() string {
	switch {
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf("%s %.2f - %.2f", r.Currency, *r.Min, *r.Max)
	case r.Min != nil:
		return fmt.Sprintf("%s от %.2f", r.Currency, *r.Min)
	case r.Max != nil:
		return fmt.Sprintf("%s до %.2f", r.Currency, *r.Max)
	default:
		return "по договорённости"
	}
}
