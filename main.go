package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trinibuild/storefront/internal/config"
	"github.com/trinibuild/storefront/internal/domain/money"
	"github.com/trinibuild/storefront/internal/infra/persistence/postgres"
	"github.com/trinibuild/storefront/internal/infra/security"
	"github.com/trinibuild/storefront/internal/infra/sms"
	httpapi "github.com/trinibuild/storefront/internal/interface/http"
	"github.com/trinibuild/storefront/internal/notify/whatsapp"
	authuc "github.com/trinibuild/storefront/internal/usecase/auth"
	cataloguc "github.com/trinibuild/storefront/internal/usecase/catalog"
	checkoutuc "github.com/trinibuild/storefront/internal/usecase/checkout"
	orderuc "github.com/trinibuild/storefront/internal/usecase/order"
	productuc "github.com/trinibuild/storefront/internal/usecase/product"
	"github.com/trinibuild/storefront/internal/usecase/submission"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load(config.Overrides{})

	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, log); err != nil {
		log.WithError(err).Fatal("migrations failed")
	}

	storeRepo := postgres.NewStoreRepository(db)
	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	discountRepo := postgres.NewDiscountRepository(db)
	merchantRepo := postgres.NewMerchantRepository(db)

	tokenSvc := security.NewJWTService(cfg.JWTSecret, cfg.JWTExpiration)
	bcryptSvc := security.NewBcryptService(0)
	smsSender := sms.NewSender(cfg.SMSGatewayURL, cfg.SMSAPIKey, cfg.SMSTimeout, log)

	submitter := submission.NewService(orderRepo, submission.FeeTable{
		Standard: money.Cents(cfg.StandardDeliveryFee),
		Express:  money.Cents(cfg.ExpressDeliveryFee),
	}, log)
	handoff := whatsapp.NewHandoff(orderRepo, log)

	api := httpapi.NewAPI(httpapi.Dependencies{
		AuthService:    authuc.NewService(merchantRepo, bcryptSvc, tokenSvc),
		CatalogService: cataloguc.NewService(storeRepo, productRepo),
		CheckoutService: checkoutuc.NewService(
			storeRepo, productRepo, discountRepo,
			submitter, handoff, smsSender,
			cfg.SessionTTL, log,
		),
		OrderService:   orderuc.NewService(orderRepo),
		ProductService: productuc.NewService(productRepo),
		TokenService:   tokenSvc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
