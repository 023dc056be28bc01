package main

import (
	"context"

	"gymstore/internal/products/handler"
	"gymstore/internal/products/repository"
	"gymstore/internal/products/service"
	"gymstore/internal/products/validator"
	"gymstore/pkg/app"
	"gymstore/pkg/config"
	"gymstore/pkg/media"
)

const ServiceName = "products"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Products service")
	productService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewProductHandler(productService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ProductService {
	var uploader media.Uploader
	if cfg.S3Bucket != "" {
		s3Uploader, err := media.NewS3Uploader(context.Background(), cfg.S3Bucket, cfg.S3Region, cfg.S3PublicURL)
		if err != nil {
			cfg.Log.Fatal("Failed to configure S3 uploader", "error", err)
		}
		uploader = s3Uploader
		cfg.Log.Info("Media uploads stored in S3", "bucket", cfg.S3Bucket, "region", cfg.S3Region)
	} else {
		cfg.Log.Warn("S3_BUCKET not set, media uploads disabled")
	}

	productService := service.NewProductService(
		repository.NewMongoProductRepository(cfg),
		validator.NewProductValidator(cfg.Log),
		uploader,
		cfg,
	)

	cfg.Log.Info("Product service initialized", "database", cfg.MongoDatabaseName)
	return productService
}
