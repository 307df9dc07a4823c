package main

import (
	"Invoice-Capture/cmd/config"
	migration "Invoice-Capture/cmd/database/migrate"
	"Invoice-Capture/domain"
	"Invoice-Capture/internal/utils"
	"Invoice-Capture/internal/utils/storage"
	"Invoice-Capture/pkg/account"
	"Invoice-Capture/pkg/jwt"
	"Invoice-Capture/pkg/restaurant"
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	seed := flag.Bool("seed", false, "create a user and restaurants, then exit")
	seedUser := flag.String("user", "demo", "username to seed")
	seedPassword := flag.String("password", "demo", "password to seed")
	seedRestaurants := flag.String("restaurants", "Demo Bistro,Demo Diner", "comma separated restaurant names to seed")
	flag.Parse()

	found, err := utils.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := utils.NewLogger(os.Stderr)
	if !found {
		log.WithField("path", *configPath).Info("config file not found, using defaults and environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatal(err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatal(err)
	}

	if *seed {
		if err := seedData(ctx, db, *seedUser, *seedPassword, strings.Split(*seedRestaurants, ",")); err != nil {
			log.Fatal(err)
		}
		log.WithField("user", *seedUser).Info("seed data created")
		return
	}

	rdb, closeRedis, err := connectRedis(ctx, log)
	if err != nil {
		log.Fatal(err)
	}
	defer closeRedis()

	s3, err := storage.NewAwsS3(ctx)
	if err != nil {
		log.Fatal(err)
	}

	app, err := config.NewApp(db, s3, storage.NewRedisTicketCache(rdb), config.AppOptions{
		JWTService: jwt.NewJWTService(),
		TicketTTL:  utils.GetDuration("TICKET_TTL"),
		RateLimit:  utils.GetInt("RATE_LIMIT"),
		Log:        log,
	})
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	addr := utils.GetConfig("SERVER_ADDR")
	log.WithField("addr", addr).Info("devserver listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}
}

// connectRedis dials REDIS_ADDR, or runs an embedded server when it is unset.
func connectRedis(ctx context.Context, log *logrus.Logger) (*redis.Client, func(), error) {
	addr := utils.GetConfig("REDIS_ADDR")
	var embedded *miniredis.Miniredis
	if addr == "" {
		var err error
		embedded, err = miniredis.Run()
		if err != nil {
			return nil, nil, err
		}
		addr = embedded.Addr()
		log.WithField("addr", addr).Warn("REDIS_ADDR not set, using embedded redis")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		if embedded != nil {
			embedded.Close()
		}
		return nil, nil, err
	}
	return rdb, func() {
		_ = rdb.Close()
		if embedded != nil {
			embedded.Close()
		}
	}, nil
}

func seedData(ctx context.Context, db *gorm.DB, username, password string, names []string) error {
	accountService := account.NewAccountService(account.NewAccountRepository(db), jwt.NewJWTService())
	user, err := accountService.Register(ctx, username, password)
	if err != nil {
		return err
	}

	restaurantService := restaurant.NewRestaurantService(restaurant.NewRestaurantRepository(db))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := restaurantService.AddRestaurant(ctx, domain.CreateRestaurantRequest{Name: name}, user.ID.String()); err != nil {
			return err
		}
	}
	return nil
}
