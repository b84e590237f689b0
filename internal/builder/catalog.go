// Package builder assembles fully-attributed company records from the
// provider layer, indicator engine and strategy rules.
package builder

// Company is one tracked instrument. SharesBillion feeds market-cap
// estimation when no live fundamentals carry a share count.
type Company struct {
	Key           string
	Name          string
	Symbol        string
	Sector        string
	Industry      string
	SharesBillion float64
	NewsQuery     string
}

// Catalog returns the tracked Hong Kong listings in update order.
func Catalog() []Company {
	return []Company{
		{
			Key:           "tencent",
			Name:          "Tencent",
			Symbol:        "0700.HK",
			Sector:        "Communication Services",
			Industry:      "Technology / Gaming / Social Media",
			SharesBillion: 9.35,
			NewsQuery:     "Tencent Holdings",
		},
		{
			Key:           "baidu",
			Name:          "Baidu",
			Symbol:        "9888.HK",
			Sector:        "Communication Services",
			Industry:      "Technology / Search / AI",
			SharesBillion: 3.48,
			NewsQuery:     "Baidu",
		},
		{
			Key:           "jd",
			Name:          "JD.com",
			Symbol:        "9618.HK",
			Sector:        "Consumer Discretionary",
			Industry:      "E-commerce / Logistics",
			SharesBillion: 12.88,
			NewsQuery:     "JD.com",
		},
		{
			Key:           "alibaba",
			Name:          "Alibaba",
			Symbol:        "9988.HK",
			Sector:        "Consumer Discretionary",
			Industry:      "E-commerce / Cloud Computing",
			SharesBillion: 23.5,
			NewsQuery:     "Alibaba",
		},
		{
			Key:           "xiaomi",
			Name:          "Xiaomi",
			Symbol:        "1810.HK",
			Sector:        "Information Technology",
			Industry:      "Consumer Electronics / EV / IoT",
			SharesBillion: 24.3,
			NewsQuery:     "Xiaomi",
		},
		{
			Key:           "meituan",
			Name:          "Meituan",
			Symbol:        "3690.HK",
			Sector:        "Consumer Discretionary",
			Industry:      "Food Delivery / Local Services",
			SharesBillion: 56.5,
			NewsQuery:     "Meituan",
		},
	}
}
