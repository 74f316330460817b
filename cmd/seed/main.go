package main

import (
	"fmt"
	"log"
	"log/slog"
	"time"

	"chat-realtime/internal/auth"
	"chat-realtime/internal/config"
	"chat-realtime/internal/database"
	"chat-realtime/internal/models"

	"gorm.io/gorm"
)

// Seed creates demo users and conversations and prints a token per user
// for connecting to /api/v1/ws.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting database seeding...")

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	users := map[string]*models.User{}
	for _, name := range []string{"alice", "bob", "charlie"} {
		user := &models.User{Username: name, Email: name + "@notify.com"}
		if err := db.Where(models.User{Email: user.Email}).FirstOrCreate(user).Error; err != nil {
			log.Fatalf("Failed to seed user %s: %v", name, err)
		}
		users[name] = user
		slog.Info("Seeded user", "username", name, "id", user.ID)
	}

	seedConversation(db, "general", models.ConversationTypeGroup, users["alice"], users["bob"], users["charlie"])
	seedConversation(db, "alice-bob", models.ConversationTypeDirect, users["alice"], users["bob"])

	for _, name := range []string{"alice", "bob", "charlie"} {
		token, err := auth.GenerateToken(cfg.JWT.Secret, users[name].ID, 24*time.Hour)
		if err != nil {
			log.Fatalf("Failed to generate token for %s: %v", name, err)
		}
		fmt.Printf("%s\tws://%s/api/v1/ws?token=%s\n", name, cfg.Server.Addr(), token)
	}

	slog.Info("Database seeding completed successfully!")
}

func seedConversation(db *gorm.DB, name, kind string, members ...*models.User) {
	conv := &models.Conversation{Name: name, Type: kind}
	if err := db.Where(models.Conversation{Name: name}).FirstOrCreate(conv).Error; err != nil {
		log.Fatalf("Failed to seed conversation %s: %v", name, err)
	}
	if err := db.Model(conv).Association("Members").Replace(members); err != nil {
		log.Fatalf("Failed to set members of %s: %v", name, err)
	}
	slog.Info("Seeded conversation", "name", name, "id", conv.ID, "members", len(members))
}
