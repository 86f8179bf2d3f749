package models

// Product is a catalog dish. Prices are in DT.
type Product struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Image       string       `json:"image"`
	Rating      float64      `json:"rating"`
	CookTime    int          `json:"cookTime"` // minutes
	Servings    int          `json:"servings"`
	Category    string       `json:"category"`
	Calories    float64      `json:"calories,omitempty"`
	Protein     float64      `json:"protein,omitempty"`
	Fiber       float64      `json:"fiber,omitempty"`
	Water       float64      `json:"water,omitempty"`
	Fat         float64      `json:"fat,omitempty"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
}

type Ingredient struct {
	Name     string  `json:"name"`
	Cooked   bool    `json:"cooked"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fiber    float64 `json:"fiber"`
	Water    float64 `json:"water"`
	Fat      float64 `json:"fat"`
}
