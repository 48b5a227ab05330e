package service

// Document keys, relative to the store's prefix.
const (
	KeyOrders        = "orders"
	KeyMenu          = "menu"
	KeyPromotions    = "promotions"
	KeyLoyalty       = "loyalty"
	KeyFavorites     = "favorites"
	KeyFlashSale     = "flashSale"
	KeyInventory     = "inventory"
	KeyDeliveryZones = "deliveryZones"
)
