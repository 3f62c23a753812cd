package request

type MultiplePricesRequest struct {
	Symbols []string `json:"symbols" binding:"required,min=1,max=50"`
}
