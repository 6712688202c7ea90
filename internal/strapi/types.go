package strapi

// Strapi v4 wraps every entity in a data envelope with attributes one
// level down. Only the fields the bot reads are mapped.

type pictureData struct {
	Data []struct {
		Attributes struct {
			URL string `json:"url"`
		} `json:"attributes"`
	} `json:"data"`
}

type productAttributes struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Picture     pictureData `json:"picture"`
}

type productData struct {
	ID         int64             `json:"id"`
	Attributes productAttributes `json:"attributes"`
}

type productListEnvelope struct {
	Data []productData `json:"data"`
}

type productEnvelope struct {
	Data productData `json:"data"`
}

type cartProductData struct {
	ID         int64 `json:"id"`
	Attributes struct {
		Product struct {
			Data *productData `json:"data"`
		} `json:"product"`
	} `json:"attributes"`
}

type cartData struct {
	ID         int64 `json:"id"`
	Attributes struct {
		CartProducts struct {
			Data []cartProductData `json:"data"`
		} `json:"cart_products"`
	} `json:"attributes"`
}

type cartListEnvelope struct {
	Data []cartData `json:"data"`
}

type createdEnvelope struct {
	Data struct {
		ID int64 `json:"id"`
	} `json:"data"`
}
