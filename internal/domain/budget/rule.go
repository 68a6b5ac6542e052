package budget

// Rule is a country specific budget parameter
type Rule struct {
	Country   string `json:"country"`
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}
