package main

import (
	"log"
	"net/http"
	"os"
	"updoot/internal/db"
	"updoot/internal/handlers"
	"updoot/internal/middleware"
	"updoot/internal/router"
	"updoot/internal/services"
	"updoot/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// 默认 session 有效期 10 年（按策略基本不过期），可通过 SESSION_MAX_AGE 调整
const defaultSessionMaxAge = 10 * 365 * 24 * 3600

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	conn, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	maxAge := defaultSessionMaxAge
	if v := os.Getenv("SESSION_MAX_AGE"); v != "" {
		if age := utils.StringToInt(v); age > 0 {
			maxAge = age
		}
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("COOKIE_SECURE") == "true",
	})
	r.Use(sessions.Sessions("updoot_session", store))

	// Middleware
	r.Use(middleware.RequestLogger())
	r.Use(middleware.LoadUser(conn))

	// Services
	tokenCache, err := utils.NewTTLCache(500)
	if err != nil {
		log.Fatal(err)
	}
	tokens := services.NewTokenService(tokenCache)
	mail := services.NewMailService()
	users := services.NewUserService(conn, tokens, mail)
	posts := services.NewPostService(conn)
	votes := services.NewVoteService(conn)

	// Handlers
	authHandler := handlers.NewAuthHandler(users)
	postHandler := handlers.NewPostHandler(posts)
	voteHandler := handlers.NewVoteHandler(votes)

	router.RegisterRoutes(r, authHandler, postHandler, voteHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Updoot server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
