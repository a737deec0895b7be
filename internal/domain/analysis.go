package domain

// FrequencyStat is one item's purchase statistics over a lookback window.
type FrequencyStat struct {
	ItemName         string  `json:"itemName"`
	Count            int     `json:"count"`
	TotalQuantity    int64   `json:"totalQuantity"`
	TotalSpent       float64 `json:"totalSpent"`
	LastPurchaseDate string  `json:"lastPurchaseDate"`
	AvgQuantity      float64 `json:"avgQuantity"`
	AvgPrice         float64 `json:"avgPrice"`
}

// ConsumptionStat is the simpler restock view: how much of an item was
// bought and how often.
type ConsumptionStat struct {
	TotalQuantity int64 `json:"totalQuantity"`
	Frequency     int   `json:"frequency"`
}
