package domain

// Product is a catalog entry as returned by the products API.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	PictureURL  string  `json:"pictureUrl"`
	Category    string  `json:"category"`
}

// ProductPage is one page of the product listing.
type ProductPage struct {
	PageIndex int       `json:"pageIndex"`
	PageSize  int       `json:"pageSize"`
	Count     int       `json:"count"`
	Data      []Product `json:"data"`
}

// BasketLine converts a catalog product into a basket line entry with the
// given quantity.
func (p Product) BasketLine(quantity int) BasketItem {
	return BasketItem{
		ProductID:      p.ID,
		ProductName:    p.Name,
		ProductPicture: p.PictureURL,
		Price:          p.Price,
		Quantity:       quantity,
		Category:       p.Category,
	}
}
