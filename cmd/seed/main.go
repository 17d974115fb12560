package main

import (
	"log"

	"github.com/mazraa-market/internal/config"
	"github.com/mazraa-market/internal/constants"
	"github.com/mazraa-market/internal/logger"
	"github.com/mazraa-market/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo farmer, a consumer, two farms and a handful of products so
// the storefront has something to show on a fresh database.
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin(cfg.Admin.Email, cfg.Admin.Password); err != nil {
		stdLog.Printf("Failed to init admin account: %v", err)
	}

	farmer := seedUser(stdLog, "farmer@example.com", "مزارع القصيم", "Farmer@123", true, false)
	consumer := seedUser(stdLog, "consumer@example.com", "عميل تجريبي", "Consumer@123", false, true)
	if farmer == nil {
		stdLog.Fatalf("Farmer account missing, cannot seed farms")
	}
	if consumer != nil {
		stdLog.Printf("Consumer account ready: %s", consumer.Email)
	}

	datesFarm := seedFarm(stdLog, models.Farm{
		OwnerID:              farmer.ID,
		Name:                 "مزرعة تمور القصيم",
		Description:          "تمور سكري فاخرة من مزارع بريدة، قطف الموسم الحالي.",
		AdministrativeRegion: "القصيم",
		Governorate:          "بريدة",
		Type:                 constants.FarmTypeDates,
		PricePerKG:           "45 ريال/كجم",
		PhoneNumber:          "0501234567",
		DailyCapacity:        20,
	})
	dairyFarm := seedFarm(stdLog, models.Farm{
		OwnerID:              farmer.ID,
		Name:                 "ألبان الخرج الطازجة",
		Description:          "ألبان ومنتجات طازجة يومياً من مزارع الخرج.",
		AdministrativeRegion: "الرياض",
		Governorate:          "الخرج",
		Type:                 constants.FarmTypeDairy,
		PricePerKG:           "12 ريال/لتر",
		PhoneNumber:          "0507654321",
		DailyCapacity:        50,
	})

	if datesFarm != nil {
		seedProduct(stdLog, models.Product{
			FarmID:        datesFarm.ID,
			Name:          "تمر سكري فاخر",
			Description:   "تمر سكري مفرود درجة أولى، عبوة كيلو.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(45)),
			StockQuantity: 200,
			Unit:          "kg",
			IsAvailable:   true,
		})
		seedProduct(stdLog, models.Product{
			FarmID:        datesFarm.ID,
			Name:          "تمر خلاص",
			Description:   "تمر خلاص ممتاز من نخيل القصيم.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(38)),
			StockQuantity: 150,
			Unit:          "kg",
			IsAvailable:   true,
		})
	}
	if dairyFarm != nil {
		seedProduct(stdLog, models.Product{
			FarmID:        dairyFarm.ID,
			Name:          "لبن طازج",
			Description:   "لبن بقري طازج، إنتاج اليوم.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(12)),
			StockQuantity: 80,
			Unit:          "liter",
			IsAvailable:   true,
		})
		seedProduct(stdLog, models.Product{
			FarmID:        dairyFarm.ID,
			Name:          "طماطم عضوية",
			Description:   "طماطم بلدية عضوية من البيوت المحمية.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			StockQuantity: 60,
			Unit:          "kg",
			IsAvailable:   true,
		})
	}

	stdLog.Printf("Seed data ready")
}

func seedUser(stdLog *log.Logger, email, username, password string, isFarmer, isConsumer bool) *models.User {
	var existing models.User
	if err := models.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		stdLog.Printf("User already exists: %s", email)
		return &existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Printf("Failed to hash password for %s: %v", email, err)
		return nil
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		IsFarmer:     isFarmer,
		IsConsumer:   isConsumer,
		Locale:       constants.LocaleAr,
		Status:       constants.UserStatusActive,
	}
	if err := models.DB.Create(&user).Error; err != nil {
		stdLog.Printf("Failed to create user %s: %v", email, err)
		return nil
	}
	stdLog.Printf("Created user: %s", email)
	return &user
}

func seedFarm(stdLog *log.Logger, farm models.Farm) *models.Farm {
	var existing models.Farm
	if err := models.DB.Where("name = ?", farm.Name).First(&existing).Error; err == nil {
		stdLog.Printf("Farm already exists: %s", farm.Name)
		return &existing
	}
	if err := models.DB.Create(&farm).Error; err != nil {
		stdLog.Printf("Failed to create farm %s: %v", farm.Name, err)
		return nil
	}
	stdLog.Printf("Created farm: %s", farm.Name)
	return &farm
}

func seedProduct(stdLog *log.Logger, product models.Product) {
	var existing models.Product
	if err := models.DB.Where("farm_id = ? AND name = ?", product.FarmID, product.Name).First(&existing).Error; err == nil {
		stdLog.Printf("Product already exists: %s", product.Name)
		return
	}
	if err := models.DB.Create(&product).Error; err != nil {
		stdLog.Printf("Failed to create product %s: %v", product.Name, err)
		return
	}
	stdLog.Printf("Created product: %s", product.Name)
}
