package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/macrolog/macrolog/backend/config"
	"github.com/macrolog/macrolog/backend/internal/database"
	"github.com/macrolog/macrolog/backend/internal/models"
	"github.com/macrolog/macrolog/backend/internal/nutrition"
	"github.com/macrolog/macrolog/backend/internal/service"
	"github.com/macrolog/macrolog/backend/internal/types"
)

// Common foods, macros per 100 g
var products = []types.ProductRequest{
	{Name: "Chicken Breast", ReferenceGrams: 100, Calories: 165, Protein: 31, Carbs: 0, Fats: 3.6},
	{Name: "White Rice (cooked)", ReferenceGrams: 100, Calories: 130, Protein: 2.7, Carbs: 28.2, Fats: 0.3},
	{Name: "Oats", ReferenceGrams: 100, Calories: 389, Protein: 16.9, Carbs: 66.3, Fats: 6.9},
	{Name: "Whole Milk", ReferenceGrams: 100, Calories: 61, Protein: 3.2, Carbs: 4.8, Fats: 3.3},
	{Name: "Banana", ReferenceGrams: 100, Calories: 89, Protein: 1.1, Carbs: 22.8, Fats: 0.3},
	{Name: "Olive Oil", ReferenceGrams: 100, Calories: 884, Protein: 0, Carbs: 0, Fats: 100},
	{Name: "Greek Yogurt", ReferenceGrams: 100, Calories: 59, Protein: 10, Carbs: 3.6, Fats: 0.4},
	{Name: "Broccoli", ReferenceGrams: 100, Calories: 34, Protein: 2.8, Carbs: 6.6, Fats: 0.4},
}

func eggs() types.ProductRequest {
	six := 6
	// A box of six eggs, stored per egg
	return types.ProductRequest{Name: "Egg", ReferenceGrams: 300, Quantity: &six, Calories: 429, Protein: 37.8, Carbs: 2.4, Fats: 28.8}
}

func main() {
	username := flag.String("username", "demo", "demo account username")
	password := flag.String("password", "demopass", "demo account password")
	days := flag.Int("days", 14, "number of past days to log meals for")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	store := database.NewGormStore(db)
	authService := service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL)
	productService := service.NewProductService(db, nil)
	mealService := service.NewMealService(db, store, nil)
	goalService := service.NewGoalService(db, store, nil)

	// Products are shared, only create missing ones
	catalog := make(map[string]uint)
	for _, req := range append(products, eggs()) {
		existing, err := productService.ListProducts(ctx, req.Name)
		if err != nil {
			log.Fatalf("Failed to list products: %v", err)
		}
		if len(existing) > 0 && existing[0].Name == req.Name {
			catalog[req.Name] = existing[0].ID
			continue
		}
		req := req
		p, err := productService.CreateProduct(ctx, &req)
		if err != nil {
			log.Fatalf("Failed to create product %s: %v", req.Name, err)
		}
		catalog[p.Name] = p.ID
		log.Printf("Created product %s", p.Name)
	}

	user, err := authService.Register(ctx, *username, *password, *password)
	if errors.Is(err, service.ErrUsernameTaken) {
		log.Printf("User %s already exists, skipping meals and goals", *username)
		return
	}
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	// A cut halfway through the period so reports show two goals
	today := time.Now()
	start := today.AddDate(0, 0, -*days)
	history := []types.UpdateGoalRequest{
		{Calories: 2400, Protein: 160, Carbs: 260, Fats: 80, EffectiveDate: start.Format(nutrition.DateLayout)},
		{Calories: 2000, Protein: 170, Carbs: 180, Fats: 65, EffectiveDate: start.AddDate(0, 0, *days/2).Format(nutrition.DateLayout)},
	}
	for _, req := range history {
		req := req
		if _, err := goalService.UpdateGoal(ctx, user.ID, &req); err != nil {
			log.Fatalf("Failed to set goal: %v", err)
		}
	}

	plan := []struct {
		meal  string
		items map[string]float64
	}{
		{"Breakfast", map[string]float64{"Oats": 80, "Whole Milk": 250, "Banana": 120}},
		{"Lunch", map[string]float64{"Chicken Breast": 180, "White Rice (cooked)": 250, "Broccoli": 150, "Olive Oil": 10}},
		{"Dinner", map[string]float64{"Egg": 150, "Greek Yogurt": 200}},
	}

	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		date := d.Format(nutrition.DateLayout)
		for i, m := range plan {
			// Skip some dinners so days land on both sides of the goal band
			if m.meal == "Dinner" && d.YearDay()%3 == 0 {
				continue
			}
			meal, err := mealService.CreateMeal(ctx, user.ID, &types.CreateMealRequest{Name: m.meal, Date: date})
			if err != nil {
				log.Fatalf("Failed to create meal: %v", err)
			}
			for name, grams := range m.items {
				req := &types.AddMealItemRequest{ProductID: catalog[name], Grams: grams * (1 + 0.1*float64(i%2))}
				if _, err := mealService.AddItem(ctx, user.ID, meal.ID, req); err != nil {
					log.Fatalf("Failed to add %s: %v", name, err)
				}
			}
		}
	}

	var mealCount int64
	db.Model(&models.Meal{}).Where("user_id = ?", user.ID).Count(&mealCount)
	log.Printf("Seeded user %s with %d meals over %d days", user.Username, mealCount, *days+1)
	log.Printf("Login with username %q and password %q", *username, *password)
}
