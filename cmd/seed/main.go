package main

import (
	"fmt"
	"strings"

	"metalya/internal/entity"
	"metalya/internal/model"
	"metalya/pkg/config"
	"metalya/pkg/database"
	"metalya/pkg/logger"

	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
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

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	users := []struct {
		email    string
		name     string
		role     entity.UserRole
		password string
	}{
		{"super@metalya.local", "Super Admin", entity.RoleSuperAdmin, "superadmin123"},
		{"admin@metalya.local", "Admin", entity.RoleAdmin, "admin12345"},
		{"redac@metalya.local", "Rédacteur", entity.RoleRedacteur, "redaction123"},
		{"lecteur@metalya.local", "Lecteur", entity.RoleUser, "lecteur12345"},
	}

	userIDs := make(map[string]string)
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		userModel := model.UserModel{
			Email:    u.email,
			Name:     u.name,
			Password: string(hash),
			Role:     string(u.role),
		}
		if err := db.Where("email = ?", u.email).FirstOrCreate(&userModel).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
		userIDs[u.email] = userModel.ID
		log.Info("Seeded user %s (%s)", u.email, u.role)
	}

	posts := []struct {
		title      string
		excerpt    string
		body       string
		categories []string
		status     entity.PostStatus
	}{
		{
			title:      "Bienvenue sur Metalya",
			excerpt:    "Premier billet de la rédaction.",
			body:       "# Bienvenue\n\nCe billet inaugure la plateforme. Bonne lecture !",
			categories: []string{"annonces"},
			status:     entity.StatusPublished,
		},
		{
			title:      "Guide du rédacteur",
			excerpt:    "Comment proposer un article.",
			body:       "## Le circuit éditorial\n\nRédigez un brouillon puis soumettez-le à la relecture.",
			categories: []string{"guides", "redaction"},
			status:     entity.StatusDraft,
		},
		{
			title:      "Les coulisses de la rédaction",
			excerpt:    "Un article en attente de relecture.",
			body:       "En attente de validation par un administrateur.",
			categories: []string{"coulisses"},
			status:     entity.StatusPending,
		},
	}

	authorID := userIDs["redac@metalya.local"]
	for _, p := range posts {
		postModel := model.PostModel{
			Slug:        slug.Make(p.title),
			Title:       p.title,
			Excerpt:     p.excerpt,
			Body:        p.body,
			ReadingTime: 1,
			Categories:  strings.Join(p.categories, ","),
			Status:      string(p.status),
			Published:   p.status == entity.StatusPublished,
			AuthorID:    authorID,
		}
		if err := db.Where("slug = ?", postModel.Slug).FirstOrCreate(&postModel).Error; err != nil {
			return fmt.Errorf("failed to seed post %q: %w", p.title, err)
		}
		log.Info("Seeded post %q (%s)", p.title, p.status)
	}

	for i := 1; i <= 5; i++ {
		subscriberModel := model.SubscriberModel{
			Email:    fmt.Sprintf("abonne%d@example.com", i),
			IsActive: true,
		}
		if err := db.Where("email = ?", subscriberModel.Email).FirstOrCreate(&subscriberModel).Error; err != nil {
			return fmt.Errorf("failed to seed subscriber: %w", err)
		}
	}
	log.Info("Seeded 5 subscribers")

	return nil
}
