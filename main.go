package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"chronicle/config"
	"chronicle/listing"
	"chronicle/repository"
	"chronicle/search"
	"chronicle/session"
	"chronicle/web"
)

func main() {
	cfg := config.Load()

	// ---- DB
	pool, err := pgxpool.New(context.Background(), cfg.DSN())
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}
	if err := repository.Migrate(ctx, pool); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}
	log.Println("DB ready")

	posts := repository.NewPosts(pool)
	comments := repository.NewComments(pool)
	categories := repository.NewCategories(pool)
	locations := repository.NewLocations(pool)
	users := repository.NewUsers(pool)

	// ---- Sessions
	sessions := session.New(cfg.RedisAddr, cfg.RedisDB, cfg.SessionTTL)
	if err := sessions.Ping(ctx); err != nil {
		log.Fatalf("redis ping error: %v", err)
	}

	// ---- Search
	index, err := search.New(cfg.ESAddr, cfg.ESIndex)
	if err != nil {
		log.Fatalf("es init error: %v", err)
	}
	// best-effort; if the index exists ES answers 400, which is fine
	_ = index.EnsureIndex(context.Background())

	app := &web.App{
		Posts:      posts,
		Comments:   comments,
		Users:      users,
		Categories: categories,
		Locations:  locations,
		Sessions:   sessions,
		Index:      index,
		Composer:   listing.NewComposer(posts, comments, categories, nil),
	}

	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now()})
	})
	r.GET("/db/health", func(c *gin.Context) {
		var cnt int
		if err := pool.QueryRow(c, "SELECT count(*) FROM posts").Scan(&cnt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"db_ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"db_ok": true, "posts_count": cnt})
	})

	app.Register(r)

	addr := ":" + cfg.Port
	log.Printf("Listening on %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
