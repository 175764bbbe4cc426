package domain

// CartLine is one (product, size, preorder) entry in the active cart.
type CartLine struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
	Preorder  bool   `json:"preorder"`
}

// LineKey identifies a cart line. At most one line exists per key.
type LineKey struct {
	ProductID string
	Size      string
	Preorder  bool
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Preorder: l.Preorder}
}

// CartLineView joins a cart line with live catalog data for display.
type CartLineView struct {
	CartLine
	Title     string `json:"title"`
	Img       string `json:"img"`
	UnitPrice int64  `json:"unitPrice"`
	LineTotal int64  `json:"lineTotal"`
}

// CartView is the cart as shown to the shopper.
type CartView struct {
	Lines []CartLineView `json:"lines"`
	Total int64          `json:"total"`
	Count int            `json:"count"`
}
