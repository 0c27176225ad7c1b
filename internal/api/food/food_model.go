package food

// FoodItem is one nutrition result from the upstream provider. Source is
// always "api" so clients can tell looked-up items from manual entries.
type FoodItem struct {
	Name          string  `json:"name"`
	Calories      float64 `json:"calories"`
	ServingSizeG  float64 `json:"serving_size_g"`
	FatTotalG     float64 `json:"fat_total_g"`
	FatSaturatedG float64 `json:"fat_saturated_g"`
	ProteinG      float64 `json:"protein_g"`
	SodiumMg      float64 `json:"sodium_mg"`
	PotassiumMg   float64 `json:"potassium_mg"`
	CholesterolMg float64 `json:"cholesterol_mg"`
	CarbsTotalG   float64 `json:"carbohydrates_total_g"`
	FiberG        float64 `json:"fiber_g"`
	SugarG        float64 `json:"sugar_g"`
	Source        string  `json:"source"`
}

// upstreamResponse mirrors the provider's JSON envelope.
type upstreamResponse struct {
	Items []FoodItem `json:"items"`
}

// SearchResponse is what the search endpoint returns.
type SearchResponse struct {
	Items []FoodItem `json:"items"`
}
