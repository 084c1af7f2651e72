package formatting

import (
	"fmt"
	"strconv"

	"github.com/Freeeeeet/lessonmarket/internal/model"
)

// FormatPrice форматирует цену в иенах с разделителями разрядов: 12,500円
func FormatPrice(yen int) string {
	sign := ""
	if yen < 0 {
		sign = "-"
		yen = -yen
	}

	digits := strconv.Itoa(yen)
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return sign + string(out) + "円"
}

// FormatLessonPrice цена с учётом способа оплаты
func FormatLessonPrice(price int, mode model.PricingMode) string {
	switch mode {
	case model.PricingMonthly:
		return FormatPrice(price) + "/мес"
	case model.PricingCourse:
		return FormatPrice(price) + " за курс"
	default:
		return FormatPrice(price)
	}
}

// FormatDiscount скидка в процентах, пустая строка если скидки нет
func FormatDiscount(percent *int) string {
	if percent == nil || *percent == 0 {
		return ""
	}
	return fmt.Sprintf("-%d%%", *percent)
}

// DiscountedPrice цена после скидки, округление вниз
func DiscountedPrice(price int, percent *int) int {
	if percent == nil {
		return price
	}
	return price * (100 - *percent) / 100
}
