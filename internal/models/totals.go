package models

// UserTotal is the running balance of a single user.
type UserTotal struct {
	UserName    string  `json:"userName"`
	TotalAmount float64 `json:"totalAmount"`
	EntryCount  int     `json:"depositCount"`
}

// Totals is the bank-wide summary.
type Totals struct {
	UserTotals []UserTotal `json:"userTotals"`
	BankTotal  float64     `json:"bankTotal"`
	TotalUsers int         `json:"totalUsers"`
}
