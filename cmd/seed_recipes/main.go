package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sashabakes/sasha-bakes/backend/config"
	"github.com/sashabakes/sasha-bakes/backend/internal/database"
	"github.com/sashabakes/sasha-bakes/backend/internal/logging"
	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

var tools = []models.BakingTool{
	{Name: "Bench scraper", Category: "hand tools", Description: "Divides dough and cleans the counter in one pass.", PriceRange: "$"},
	{Name: "Danish dough whisk", Category: "hand tools", Description: "Mixes stiff doughs without clumping.", PriceRange: "$"},
	{Name: "Digital scale", Category: "measuring", Description: "Weighs flour to the gram. Sasha never bakes without one.", PriceRange: "$$"},
	{Name: "Dutch oven", Category: "bakeware", Description: "Traps steam for a crackly crust on country loaves.", PriceRange: "$$$"},
	{Name: "Banneton", Category: "proofing", Description: "Supports the final proof and leaves the classic spiral.", PriceRange: "$"},
	{Name: "Stand mixer", Category: "appliances", Description: "Kneads enriched doughs like brioche.", PriceRange: "$$$"},
}

var recipes = []types.RecipeRequest{
	{
		Title:        "Country Sourdough Loaf",
		Description:  "An open-crumb everyday loaf with a blistered crust.",
		Category:     "bread",
		Ingredients:  []string{"450g bread flour", "50g whole wheat flour", "375g water", "100g active starter", "10g salt"},
		Instructions: []string{"Mix flour and water, rest 1 hour", "Add starter and salt", "Stretch and fold every 30 minutes for 2 hours", "Shape and proof overnight in the fridge", "Bake covered at 250C for 20 minutes, then uncovered for 25"},
		PrepMinutes:  60,
		BakeMinutes:  45,
		Servings:     12,
		Difficulty:   "medium",
	},
	{
		Title:        "Brown Butter Chocolate Chip Cookies",
		Description:  "Crisp edges, chewy centers and toffee notes from browned butter.",
		Category:     "cookies",
		Ingredients:  []string{"230g butter", "200g brown sugar", "100g sugar", "2 eggs", "280g flour", "1 tsp baking soda", "300g dark chocolate"},
		Instructions: []string{"Brown the butter and cool", "Beat in sugars and eggs", "Fold in flour, soda and chocolate", "Rest dough 24 hours", "Bake at 180C for 11 minutes"},
		PrepMinutes:  25,
		BakeMinutes:  11,
		Servings:     24,
		Difficulty:   "easy",
	},
	{
		Title:        "Laminated Croissants",
		Description:  "Three-fold laminated croissants with a honeycomb crumb.",
		Category:     "pastry",
		Ingredients:  []string{"500g flour", "55g sugar", "11g salt", "10g instant yeast", "280g milk", "280g cold butter"},
		Instructions: []string{"Make the detrempe and chill overnight", "Lock in the butter block", "Complete three letter folds, chilling between each", "Cut, roll and proof until jiggly", "Egg wash and bake at 200C for 18 minutes"},
		PrepMinutes:  180,
		BakeMinutes:  18,
		Servings:     12,
		Difficulty:   "hard",
		IsPremium:    true,
	},
	{
		Title:        "Cardamom Morning Buns",
		Description:  "Swedish-style knots scented with fresh cardamom.",
		Category:     "sweet dough",
		Ingredients:  []string{"500g flour", "75g sugar", "7g yeast", "250ml milk", "75g butter", "2 tsp ground cardamom"},
		Instructions: []string{"Knead an enriched dough and rise 1 hour", "Roll out and spread cardamom butter", "Cut strips and tie knots", "Proof 45 minutes", "Bake at 200C for 12 minutes and brush with syrup"},
		PrepMinutes:  120,
		BakeMinutes:  12,
		Servings:     16,
		Difficulty:   "medium",
		IsPremium:    true,
	},
}

var notes = []models.TrainingNote{
	{Category: models.NoteStyle, Content: "Warm and encouraging, like a friend in the kitchen."},
	{Category: models.NoteFact, Content: "Sasha's starter is named Gertrude."},
	{Category: models.NoteDo, Content: "Give weights in grams first, cups second."},
	{Category: models.NoteDont, Content: "Never shame a baker for a failed bake."},
}

func main() {
	adminEmail := flag.String("admin-email", "", "Grant the admin role to this existing user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.New(config.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()
	seeder := &seeder{db: db, log: logger, recipes: service.NewRecipeService(db, nil, logger)}

	var adminID uuid.UUID
	if *adminEmail != "" {
		admins := service.NewAdminService(db, service.NewAccessService(db, logger))
		admin, err := admins.FindUserByEmail(ctx, *adminEmail)
		if err != nil {
			logger.Fatal("admin user not found", zap.String("email", *adminEmail), zap.Error(err))
		}
		if _, err := admins.SetRole(ctx, nil, admin.ID, models.RoleAdmin); err != nil {
			logger.Fatal("failed to grant admin", zap.Error(err))
		}
		adminID = admin.ID
		logger.Info("granted admin role", zap.String("email", admin.Email))
	}

	if err := seeder.run(ctx, adminID); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("seeding complete")
}

type seeder struct {
	db      *gorm.DB
	log     *zap.Logger
	recipes *service.RecipeService
}

// run inserts the sample rows, skipping any that already exist by name.
func (s *seeder) run(ctx context.Context, createdBy uuid.UUID) error {
	for _, tool := range tools {
		tool := tool
		created, err := s.firstOrCreate(ctx, &tool, "name = ?", tool.Name)
		if err != nil {
			return err
		}
		if created {
			s.log.Info("seeded tool", zap.String("name", tool.Name))
		}
	}

	for i := range recipes {
		req := recipes[i]
		err := s.db.WithContext(ctx).Where("title = ?", req.Title).First(&models.Recipe{}).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if _, err := s.recipes.Create(ctx, createdBy, &req); err != nil {
			return err
		}
		s.log.Info("seeded recipe", zap.String("title", req.Title))
	}

	for _, note := range notes {
		note := note
		note.Source = "seed"
		if _, err := s.firstOrCreate(ctx, &note, "content = ?", note.Content); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) firstOrCreate(ctx context.Context, row interface{}, query string, arg interface{}) (bool, error) {
	res := s.db.WithContext(ctx).Where(query, arg).FirstOrCreate(row)
	return res.RowsAffected > 0, res.Error
}
