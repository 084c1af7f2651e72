package catalog

// PriceBucket именованный диапазон цен, границы включительно. Max == 0 - без верхней границы.
type PriceBucket struct {
	ID    string
	Label string
	Min   int
	Max   int
}

// Contains проверяет, попадает ли цена в диапазон
func (b PriceBucket) Contains(price int) bool {
	if price < b.Min {
		return false
	}
	return b.Max == 0 || price <= b.Max
}

// MonthlyBuckets диапазоны для помесячной оплаты
var MonthlyBuckets = []PriceBucket{
	{ID: "m_0_5000", Label: "〜5,000円/月", Min: 0, Max: 5000},
	{ID: "m_5000_10000", Label: "5,000〜10,000円/月", Min: 5000, Max: 10000},
	{ID: "m_10000_20000", Label: "10,000〜20,000円/月", Min: 10000, Max: 20000},
	{ID: "m_20000_30000", Label: "20,000〜30,000円/月", Min: 20000, Max: 30000},
	{ID: "m_30000_up", Label: "30,000円〜/月", Min: 30000},
}

// SingleBuckets диапазоны для разовых занятий и курсов
var SingleBuckets = []PriceBucket{
	{ID: "s_0_1000", Label: "〜1,000円", Min: 0, Max: 1000},
	{ID: "s_1000_3000", Label: "1,000〜3,000円", Min: 1000, Max: 3000},
	{ID: "s_3000_5000", Label: "3,000〜5,000円", Min: 3000, Max: 5000},
	{ID: "s_5000_10000", Label: "5,000〜10,000円", Min: 5000, Max: 10000},
	{ID: "s_10000_up", Label: "10,000円〜", Min: 10000},
}

// BucketByID ищет диапазон в обеих таблицах
func BucketByID(id string) (PriceBucket, bool) {
	for _, b := range MonthlyBuckets {
		if b.ID == id {
			return b, true
		}
	}
	for _, b := range SingleBuckets {
		if b.ID == id {
			return b, true
		}
	}
	return PriceBucket{}, false
}

// selectedIn возвращает выбранные диапазоны из таблицы
func selectedIn(table []PriceBucket, ids []string) []PriceBucket {
	var out []PriceBucket
	for _, b := range table {
		if contains(ids, b.ID) {
			out = append(out, b)
		}
	}
	return out
}
