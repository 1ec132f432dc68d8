package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"sahara/pkg/cache"
	"sahara/pkg/config"
	"sahara/pkg/database"
	"sahara/pkg/logger"
	"sahara/pkg/models"
	"sahara/pkg/s3"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, s3Client, redisClient, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

// Fixed coordinates around Bengaluru used for seed posts.
var seedLocations = []struct {
	latitude  float64
	longitude float64
	place     string
}{
	{12.975918, 77.600331, "near the Majestic flyover"},
	{12.971599, 77.594563, "outside Cubbon Park east gate"},
	{12.934533, 77.626579, "under the Koramangala underpass"},
	{12.985221, 77.605785, "beside the railway station footbridge"},
	{13.005430, 77.569156, "at the Mekhri Circle bus stop"},
}

func seedDatabase(db *gorm.DB, s3Client *s3.Client, redisClient *redis.Client, log *logger.Logger) error {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	testUsers := []struct {
		email       string
		displayName string
		password    string
	}{
		{"asha@test.com", "Asha Kulkarni", "password123"},
		{"ravi@test.com", "Ravi Menon", "password123"},
		{"diya@test.com", "Diya Sharma", "password123"},
		{"karthik@test.com", "Karthik Rao", "password123"},
	}

	for idx, userData := range testUsers {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)

		user := &models.User{
			Email:       userData.email,
			DisplayName: userData.displayName,
			Password:    string(hashedPassword),
			Role:        models.RoleMember,
			IsActive:    true,
		}

		if err := user.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate user ID: %w", err)
		}

		var existingUser models.User
		result := db.Where("email = ?", user.Email).First(&existingUser)
		if result.Error == nil {
			log.Info("User %s already exists, skipping", user.Email)
			continue
		}

		if err := db.Create(user).Error; err != nil {
			log.Error("Failed to create user %s: %v", user.Email, err)
			continue
		}

		log.Info("Created user: %s (%s)", user.DisplayName, user.Email)

		postsCount := 2 + (idx % 2)
		log.Info("Creating %d posts for user %s", postsCount, user.DisplayName)
		for i := 0; i < postsCount; i++ {
			if err := createSeedPost(db, s3Client, redisClient, httpClient, user, i, log); err != nil {
				log.Error("Failed to create post %d for user %s: %v", i+1, user.DisplayName, err)
				continue
			}
			time.Sleep(200 * time.Millisecond)
		}
	}

	return nil
}

func createSeedPost(db *gorm.DB, s3Client *s3.Client, redisClient *redis.Client, httpClient *http.Client, user *models.User, index int, log *logger.Logger) error {
	imageURL := fmt.Sprintf("https://picsum.photos/seed/%s-%d/800/600", user.ID[:8], index)

	log.Info("Fetching seed image from %s", imageURL)
	resp, err := httpClient.Get(imageURL)
	if err != nil {
		return fmt.Errorf("failed to fetch seed image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image source returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read image data: %w", err)
	}

	if len(imageData) == 0 {
		return fmt.Errorf("received empty image data")
	}

	fileKey := fmt.Sprintf("posts/%s/seed_%d.jpg", user.ID, index)
	storedURL, err := s3Client.UploadFile(fileKey, bytes.NewReader(imageData), "image/jpeg")
	if err != nil {
		return fmt.Errorf("failed to upload image to S3: %w", err)
	}

	location := seedLocations[index%len(seedLocations)]
	isAnonymous := index%3 == 2

	post := &models.Post{
		OwnerID:     user.ID,
		DisplayName: user.DisplayName,
		ImageURL:    storedURL,
		ImagePath:   fileKey,
		Latitude:    location.latitude,
		Longitude:   location.longitude,
		Description: fmt.Sprintf("Spotted %s, needs attention.", location.place),
		IsAnonymous: isAnonymous,
		Status:      models.StatusActive,
	}

	if err := post.BeforeCreate(nil); err != nil {
		return fmt.Errorf("failed to generate post ID: %w", err)
	}

	if err := db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	log.Info("Created post %s at %.6f, %.6f", post.ID, post.Latitude, post.Longitude)

	displayName := post.DisplayName
	if post.IsAnonymous {
		displayName = "Anonymous"
	}

	ctx := context.Background()
	postKey := fmt.Sprintf("post:%s", post.ID)
	postData := map[string]interface{}{
		"id":           post.ID,
		"owner_id":     post.OwnerID,
		"display_name": displayName,
		"image_url":    post.ImageURL,
		"latitude":     post.Latitude,
		"longitude":    post.Longitude,
		"description":  post.Description,
		"is_anonymous": post.IsAnonymous,
		"status":       string(post.Status),
		"created_at":   post.CreatedAt.Format(time.RFC3339Nano),
	}

	for k, v := range postData {
		redisClient.HSet(ctx, postKey, k, v)
	}
	redisClient.Expire(ctx, postKey, 24*time.Hour)

	redisClient.LPush(ctx, "feed:global", post.ID)
	redisClient.LTrim(ctx, "feed:global", 0, 9999)
	redisClient.Expire(ctx, "feed:global", 7*24*time.Hour)

	log.Info("Cached post %s in Redis feed", post.ID)
	return nil
}
