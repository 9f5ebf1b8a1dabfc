package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/keyhold/leaseback-service/internal/app"
	"github.com/keyhold/leaseback-service/internal/config"
	"github.com/keyhold/leaseback-service/internal/controllers"
	"github.com/keyhold/leaseback-service/internal/middleware"
	"github.com/keyhold/leaseback-service/internal/repositories"
	"github.com/keyhold/leaseback-service/internal/routes"
	"github.com/keyhold/leaseback-service/internal/services"
	"github.com/keyhold/leaseback-service/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize leaseback-service:", err)
	}
	defer application.Close()

	// Repositories
	sellerRepo := repositories.NewSellerProfileRepository(application.DB, cfg.DBEncryptionKey)
	propRepo := repositories.NewPropertyRepository(application.DB, cfg.DBEncryptionKey)
	reviewRepo := repositories.NewReviewRepository(application.DB, cfg.DBEncryptionKey)
	offerRepo := repositories.NewOfferRepository(application.DB, cfg.DBEncryptionKey)
	completionRepo := repositories.NewCompletionRepository(application.DB)
	buyBoxRepo := repositories.NewBuyBoxRepository(application.DB)

	// Services
	progressService := services.NewProgressService(
		sellerRepo, propRepo, reviewRepo, offerRepo, completionRepo,
		cfg.CompanyUserEmails,
	)
	applicationService := services.NewApplicationService(
		progressService, sellerRepo, propRepo, reviewRepo, offerRepo, completionRepo,
	)
	buyBoxService := services.NewBuyBoxService(buyBoxRepo, propRepo, offerRepo)

	// Controllers
	healthController := controllers.NewHealthController(application)
	applicationController := controllers.NewApplicationController(progressService, applicationService)
	buyBoxController := controllers.NewBuyBoxController(buyBoxService)

	// Router setup
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	// Secured routes for applicants
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))
	secured.HandleFunc(routes.ApplicationProgress, applicationController.GetProgressHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ApplicationSellers, applicationController.CreateSellersHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ApplicationProperty, applicationController.SubmitPropertyHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.ApplicationReview, applicationController.SubmitReviewHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ApplicationOffer, applicationController.DecideOfferHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ApplicationComplete, applicationController.ChooseCompletionHandler).Methods(http.MethodPost)

	// Admin routes
	admin := router.NewRoute().Subrouter()
	admin.Use(middleware.AuthMiddleware(cfg.RSAPublicKey), middleware.AdminMiddleware())
	admin.HandleFunc(routes.AdminReviewStatus, applicationController.UpdateReviewStatusHandler).Methods(http.MethodPatch)
	admin.HandleFunc(routes.AdminOffers, applicationController.CreateOfferHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminBuyBoxes, buyBoxController.CreateHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminBuyBoxes, buyBoxController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminBuyBox, buyBoxController.GetHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminBuyBoxProps, buyBoxController.AddPropertyHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminBuyBoxProps, buyBoxController.RemovePropertyHandler).Methods(http.MethodDelete)

	co := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	addr := ":" + cfg.AppPort
	utils.Logger.Infof("leaseback-service listening on %s", addr)
	if err := http.ListenAndServe(addr, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Server stopped:", err)
	}
}
