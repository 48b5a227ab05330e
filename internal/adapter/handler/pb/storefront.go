package pb

type LineItem struct {
	ItemId   string `json:"item_id"`
	Quantity int32  `json:"quantity"`
}

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type MenuItem struct {
	Id          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Popular     bool    `json:"popular"`
	Available   bool    `json:"available"`
}

type OrderLine struct {
	ItemId   string  `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int32   `json:"quantity"`
}

type Order struct {
	Id            string       `json:"id"`
	Customer      *Customer    `json:"customer"`
	Items         []*OrderLine `json:"items"`
	Total         float64      `json:"total"`
	Discount      float64      `json:"discount"`
	DeliveryFee   float64      `json:"delivery_fee"`
	DeliveryZone  string       `json:"delivery_zone"`
	Status        string       `json:"status"`
	Timestamp     string       `json:"timestamp"`
	PaymentMethod string       `json:"payment_method"`
}

type RewardTier struct {
	Index int32   `json:"index"`
	Cost  int32   `json:"cost"`
	Title string  `json:"title"`
	Value float64 `json:"value"`
}

type GetMenuRequest struct {
	Category string `json:"category"`
	Query    string `json:"query"`
}

type GetMenuResponse struct {
	Items []*MenuItem `json:"items"`
}

type QuoteRequest struct {
	Items     []*LineItem `json:"items"`
	PromoCode string      `json:"promo_code"`
	ZoneId    string      `json:"zone_id"`
}

type QuoteResponse struct {
	Subtotal     float64 `json:"subtotal"`
	Discount     float64 `json:"discount"`
	DeliveryFee  float64 `json:"delivery_fee"`
	Total        float64 `json:"total"`
	TotalDisplay string  `json:"total_display"`
}

type PlaceOrderRequest struct {
	RequestId string      `json:"request_id"`
	Customer  *Customer   `json:"customer"`
	Items     []*LineItem `json:"items"`
	PromoCode string      `json:"promo_code"`
	ZoneId    string      `json:"zone_id"`
}

type PlaceOrderResponse struct {
	Order *Order `json:"order"`
}

type TrackOrdersRequest struct {
	Phone string `json:"phone"`
}

type TrackOrdersResponse struct {
	Orders []*Order `json:"orders"`
}

type GetLoyaltyRequest struct {
	Phone string `json:"phone"`
}

type GetLoyaltyResponse struct {
	Points int32         `json:"points"`
	Tiers  []*RewardTier `json:"tiers"`
}

type RedeemRewardRequest struct {
	Phone string `json:"phone"`
	Tier  int32  `json:"tier"`
}

type RedeemRewardResponse struct {
	Code  string  `json:"code"`
	Value float64 `json:"value"`
}

type UpdateOrderStatusRequest struct {
	OrderId string `json:"order_id"`
	Status  string `json:"status"`
}

type UpdateOrderStatusResponse struct {
	Order *Order `json:"order"`
}

func (x *GetMenuRequest) GetCategory() string {
	if x != nil {
		return x.Category
	}
	return ""
}

func (x *GetMenuRequest) GetQuery() string {
	if x != nil {
		return x.Query
	}
	return ""
}

func (x *PlaceOrderRequest) GetRequestId() string {
	if x != nil {
		return x.RequestId
	}
	return ""
}

func (x *PlaceOrderRequest) GetCustomer() *Customer {
	if x != nil {
		return x.Customer
	}
	return nil
}

func (x *Customer) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *Customer) GetPhone() string {
	if x != nil {
		return x.Phone
	}
	return ""
}

func (x *Customer) GetAddress() string {
	if x != nil {
		return x.Address
	}
	return ""
}
