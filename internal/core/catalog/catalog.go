// Package catalog holds the seed data a fresh store is initialized with.
package catalog

import (
	"time"

	"github.com/rl1809/primo-pizza/internal/core/domain"
)

const (
	FlashSaleDuration = 2 * time.Hour
	FlashSaleCode     = "PARTY20"
)

// Menu returns a fresh copy of the seed menu.
func Menu() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: "1", Name: "Classic Pepperoni", Description: "The all-time favorite with crispy pepperoni cups and extra mozzarella.", Price: 15.99, Category: domain.CategoryClassic, IsPopular: true,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "cheese": 1.5, "pepp": 2}},
		{ID: "2", Name: "Margherita di Napoli", Description: "San Marzano tomato sauce, fresh mozzarella di bufala, basil, and olive oil.", Price: 13.99, Category: domain.CategoryVeggie,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "cheese": 1.5, "basil": 1}},
		{ID: "3", Name: "The Godfather", Description: "A meat lover's dream with pepperoni, Italian sausage, spicy salami, and bacon.", Price: 19.99, Category: domain.CategoryMeat, IsPopular: true,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "cheese": 1, "pepp": 1, "ham": 1, "bacon": 1}},
		{ID: "4", Name: "Garden State", Description: "Loaded with bell peppers, red onions, mushrooms, black olives, and cherry tomatoes.", Price: 16.99, Category: domain.CategoryVeggie,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "cheese": 1, "veg": 2}},
		{ID: "5", Name: "Texas BBQ Chicken", Description: "Smoky BBQ sauce base, grilled chicken breast, red onions, and cilantro.", Price: 17.99, Category: domain.CategorySpecialty,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "cheese": 1, "chicken": 2}},
		{ID: "6", Name: "Aloha Paradise", Description: "Roasted ham, fresh golden pineapple, and extra cheese.", Price: 15.99, Category: domain.CategoryClassic,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "cheese": 1, "ham": 1, "pineapple": 1}},
		{ID: "7", Name: "Truffle Mushroom", Description: "White base, roasted wild mushrooms, truffle oil, thyme, and parmesan.", Price: 21.99, Category: domain.CategoryVeggie, IsPopular: true,
			Recipe: domain.Recipe{"dough": 1, "cheese": 2, "truffle": 1}},
		{ID: "8", Name: "Spicy Diablo", Description: "Spicy tomato sauce, chorizo, jalapeños, red chili flakes, and hot honey drizzle.", Price: 18.99, Category: domain.CategoryMeat,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "cheese": 1, "pepp": 1}},
		{ID: "9", Name: "Four Cheese Harmony", Description: "Mozzarella, gorgonzola, parmesan, and goat cheese on a garlic oil base.", Price: 17.99, Category: domain.CategoryVeggie,
			Recipe: domain.Recipe{"dough": 1, "cheese": 3}},
		{ID: "10", Name: "Buffalo Soldier", Description: "Spicy buffalo sauce, crispy chicken, celery, and blue cheese drizzle.", Price: 18.50, Category: domain.CategorySpecialty,
			Recipe: domain.Recipe{"dough": 1, "cheese": 1, "chicken": 2}},
		{ID: "11", Name: "Pesto Genovese", Description: "Basil pesto base, sun-dried tomatoes, pine nuts, and burrata cheese.", Price: 19.50, Category: domain.CategoryVeggie,
			Recipe: domain.Recipe{"dough": 1, "cheese": 1, "basil": 2}},
		{ID: "12", Name: "Meatball Madness", Description: "Homemade beef meatballs, ricotta dollops, and marinara sauce.", Price: 17.50, Category: domain.CategoryMeat,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "cheese": 1}},
		{ID: "13", Name: "Greek Odyssey", Description: "Feta cheese, kalamata olives, spinach, red onion, and oregano.", Price: 16.99, Category: domain.CategoryVeggie,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "cheese": 1, "veg": 1}},
		{ID: "14", Name: "Carbonara", Description: "Creamy white sauce, pancetta, egg yolk swirl, and cracked black pepper.", Price: 18.99, Category: domain.CategorySpecialty,
			Recipe: domain.Recipe{"dough": 1, "cheese": 1, "bacon": 2}},
		{ID: "15", Name: "Prosciutto Arugula", Description: "Finished post-bake with fresh arugula, prosciutto di parma, and balsamic glaze.", Price: 20.99, Category: domain.CategoryMeat, IsPopular: true,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "cheese": 1, "ham": 1}},
		{ID: "16", Name: "Vegan Delight", Description: "Vegan cheese, artichokes, spinach, garlic, and roasted red peppers.", Price: 17.99, Category: domain.CategoryVeggie,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "veg": 2}},
		{ID: "17", Name: "Capricciosa", Description: "Artichoke hearts, mushrooms, ham, olives, and tomato sauce.", Price: 18.50, Category: domain.CategoryClassic,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "cheese": 1, "ham": 1, "veg": 1}},
		{ID: "18", Name: "Seafood Supreme", Description: "Shrimp, calamari, garlic, parsley, and lemon zest.", Price: 22.99, Category: domain.CategorySpecialty,
			Recipe: domain.Recipe{"dough": 1, "cheese": 1}},
		{ID: "19", Name: "Double Bacon Cheeseburger", Description: "Savory ground beef, crispy bacon, cheddar cheese blend, and special burger sauce swirl.", Price: 19.99, Category: domain.CategoryMeat, IsPopular: true,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "cheese": 1, "bacon": 2}},
		{ID: "20", Name: "Mediterranean Bliss", Description: "Hummus base, kalamata olives, feta, sliced cucumber, and roasted red peppers.", Price: 18.50, Category: domain.CategoryVeggie,
			Recipe: domain.Recipe{"dough": 1, "cheese": 1, "veg": 2}},
		{ID: "21", Name: "Sweet Heat BBQ", Description: "Spicy BBQ sauce, grilled chicken, fresh pineapple chunks, and jalapeño slices.", Price: 18.99, Category: domain.CategorySpecialty, IsPopular: true,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "cheese": 1, "chicken": 1, "pineapple": 1}},
		{ID: "22", Name: "Tuscan Six Cheese", Description: "A rich blend of Mozzarella, Provolone, Parmesan, Romano, Asiago, and Fontina.", Price: 17.99, Category: domain.CategoryClassic,
			Recipe: domain.Recipe{"dough": 1, "cheese": 3}},
		{ID: "23", Name: "Philly Cheese Steak", Description: "Thinly sliced steak, caramelized onions, bell peppers, and creamy provolone cheese.", Price: 20.99, Category: domain.CategoryMeat,
			Recipe: domain.Recipe{"dough": 1, "sauce": 1, "cheese": 1, "veg": 1}},
	}
}

func Inventory() []domain.Ingredient {
	return []domain.Ingredient{
		{ID: "dough", Name: "Pizza Dough", Quantity: 50, Unit: "balls", Threshold: 10, Description: "Hand-kneaded daily using imported 00 flour."},
		{ID: "cheese", Name: "Mozzarella Cheese", Quantity: 100, Unit: "cups", Threshold: 20, Description: "Freshly shredded, high-moisture mozzarella."},
		{ID: "sauce", Name: "Tomato Sauce", Quantity: 80, Unit: "ladles", Threshold: 15, Description: "Slow-simmered San Marzano tomatoes with herbs."},
		{ID: "pepp", Name: "Pepperoni", Quantity: 40, Unit: "servings", Threshold: 10, Description: "Crispy, spicy, cup-and-char pepperoni."},
		{ID: "ham", Name: "Ham", Quantity: 30, Unit: "servings", Threshold: 5, Description: "Premium sliced roast ham."},
		{ID: "bacon", Name: "Bacon", Quantity: 30, Unit: "servings", Threshold: 5, Description: "Applewood smoked bacon strips."},
		{ID: "veg", Name: "Mixed Veggies", Quantity: 40, Unit: "cups", Threshold: 10, Description: "Bell peppers, onions, and olives."},
		{ID: "chicken", Name: "Grilled Chicken", Quantity: 20, Unit: "servings", Threshold: 5, Description: "Marinated and grilled chicken breast."},
		{ID: "pineapple", Name: "Pineapple", Quantity: 20, Unit: "cups", Threshold: 5, Description: "Fresh golden pineapple chunks."},
		{ID: "basil", Name: "Fresh Basil", Quantity: 20, Unit: "bunches", Threshold: 5, Description: "Sweet aromatic basil leaves."},
		{ID: "truffle", Name: "Truffle Oil", Quantity: 10, Unit: "bottles", Threshold: 2, Description: "Imported white truffle infused oil."},
	}
}

func DeliveryZones() []domain.DeliveryZone {
	return []domain.DeliveryZone{
		{ID: "z1", Name: "Downtown (Radius < 5km)", Fee: 2.99, EstimatedTime: "30-45 min"},
		{ID: "z2", Name: "Suburbs (Radius 5-10km)", Fee: 5.99, EstimatedTime: "45-60 min"},
		{ID: "z3", Name: "Extended Zone (Radius 10-15km)", Fee: 9.99, EstimatedTime: "60-90 min"},
	}
}

func Promotions() []domain.Promotion {
	return []domain.Promotion{
		{ID: "p1", Code: "WELCOME10", Type: domain.DiscountPercent, Value: 10, Active: true, Description: "10% off your first order"},
		{ID: "p2", Code: "LUNCH5", Type: domain.DiscountFixed, Value: 5, Active: true, Description: "$5 off lunch special"},
	}
}

// FlashSale returns the seed flash sale, ending FlashSaleDuration after now.
func FlashSale(now time.Time) domain.FlashSale {
	return domain.FlashSale{
		Title:           "2-Hour Pizza Party!",
		EndTime:         now.Add(FlashSaleDuration).UTC(),
		DiscountCode:    FlashSaleCode,
		DiscountPercent: 20,
		Active:          true,
	}
}

// RewardTiers is the fixed catalog of loyalty point rewards.
func RewardTiers() []domain.RewardTier {
	return []domain.RewardTier{
		{Cost: 50, Title: "Free Drink", Description: "Get a generic promo code for $3 off", Value: 3},
		{Cost: 100, Title: "$10 Off Order", Description: "A big discount for your next feast", Value: 10},
		{Cost: 200, Title: "Free Large Pizza", Description: "Equivalent to $20 discount", Value: 20},
	}
}
