package main

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"CallBreak/config"
	"CallBreak/internal/auth"
	"CallBreak/internal/game/engine"
	"CallBreak/internal/game/manager"
	"CallBreak/internal/matchmaker"
	"CallBreak/internal/middleware"
	"CallBreak/internal/storage"
	"CallBreak/internal/utils"
	"CallBreak/internal/websocket"
)

func main() {
	config.Load()
	utils.Init()

	//-------------------------------------------------------
	// 1. Storage: redis (matchmaking queues) and postgres
	//    (results history). Both optional for local play.
	//-------------------------------------------------------
	var repo matchmaker.Repo
	if config.C.Redis.Addr != "" {
		if err := storage.InitRedis(
			config.C.Redis.Addr,
			config.C.Redis.Password,
			config.C.Redis.DB,
		); err != nil {
			utils.Log.Fatal("redis init failed", "err", err)
		}
		repo = matchmaker.NewRedisRepo(storage.Rdb)
	} else {
		utils.Log.Warn("no redis configured, quick-match queues are in-memory")
		repo = matchmaker.NewMemoryRepo()
	}

	var sink engine.ResultSink
	if config.C.Postgres.DSN != "" {
		if err := storage.InitPostgres(config.C.Postgres.DSN); err != nil {
			utils.Log.Fatal("postgres init failed", "err", err)
		}
		store := storage.NewResultStore(storage.DB)
		if err := store.EnsureSchema(context.Background()); err != nil {
			utils.Log.Fatal("results schema", "err", err)
		}
		sink = store
	} else {
		utils.Log.Warn("no postgres configured, results history disabled")
	}

	//-------------------------------------------------------
	// 2. Gin + CORS + health
	//-------------------------------------------------------
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	//-------------------------------------------------------
	// 3. Hub (must run before anything can broadcast)
	//-------------------------------------------------------
	hub := websocket.NewHub()
	go hub.Run()

	//-------------------------------------------------------
	// 4. Room registry: routes commands, owns every room
	//-------------------------------------------------------
	registry := manager.NewRegistry(hub, config.C.Game.HandLimit, sink)
	hub.OnIncoming = registry.HandlePlayerMessage
	hub.OnDisconnect = registry.HandleDisconnect

	//-------------------------------------------------------
	// 5. Quick-match: four queued players become a room
	//-------------------------------------------------------
	svc := matchmaker.NewService(repo, config.C.Game.QueueTTL, hub)
	svc.OnRoomReady = func(room *matchmaker.Room) {
		utils.Log.Info("match formed", "room", room.ID, "pool", room.Pool)
		players := make([]engine.Player, 0, len(room.Players))
		for _, p := range room.Players {
			players = append(players, engine.Player{ID: p.ID, Name: p.Name})
		}
		if err := registry.AdoptMatchedRoom(room.ID, players); err != nil {
			utils.Log.Error("adopt matched room", "room", room.ID, "err", err)
		}
	}

	//-------------------------------------------------------
	// 6. Routes
	//-------------------------------------------------------
	authHandler := auth.NewHandler([]byte(config.C.JWT.Secret))
	r.POST("/auth/guest", authHandler.Guest)

	authed := r.Group("/", middleware.JwtAuthMiddleware([]byte(config.C.JWT.Secret)))
	{
		authed.GET("/ws", websocket.ServeWS(hub))

		authed.GET("/rooms", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"rooms": registry.ListRooms()})
		})

		mh := matchmaker.NewHandler(svc)
		authed.POST("/match/join", mh.Join)
		authed.POST("/match/cancel", mh.Cancel)
	}

	//-------------------------------------------------------
	// 7. Serve
	//-------------------------------------------------------
	utils.Log.Info("server running", "port", config.C.Server.Port)
	if err := r.Run(config.C.Server.Port); err != nil {
		utils.Log.Fatal("server stopped", "err", err)
	}
}
