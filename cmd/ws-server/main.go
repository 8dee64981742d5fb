package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"barn-chat-backend/internal/api"
	"barn-chat-backend/internal/api/endpoints"
	"barn-chat-backend/internal/api/middleware"
	"barn-chat-backend/internal/api/router"
	"barn-chat-backend/internal/env"
	internaljwt "barn-chat-backend/internal/jwt"
	"barn-chat-backend/internal/queue"
	"barn-chat-backend/internal/websocket"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-redis/redis/v8"
)

func main() {
	if err := env.RequireTogether(env.ServiceSecret, env.ServiceKeyHash); err != nil {
		log.Fatalf("[HTTP]: service auth misconfigured: %v", err)
	}

	prefix := env.GetOrDefault(env.WSAPIPrefix, "/api/ws/v1")
	listenAddr := env.GetOrDefault(env.WSListenAddr, ":83")
	origins := middleware.ParseOrigins(env.GetOrDefault(env.CorsOrigin, "*"))
	shutdownTimeout := env.GetDuration(env.ShutdownTimeout, 10*time.Second)

	queueManager := queue.NewRequestQueueManager(
		env.GetInt(env.HTTPQueueSize, 10),
		env.GetInt(env.HTTPWorkers, 10),
	)

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := websocket.NewHub(websocket.Config{
		SystemName: env.Get(env.ChatSystemName),
		SendBuffer: env.GetInt(env.ChatSendBuffer, 0),
	})
	go hub.Run(hubCtx)

	checks := map[string]endpoints.HealthChecker{
		"hub": func(r *http.Request) error {
			_, err := hub.Stats(r.Context())
			return err
		},
	}

	var (
		publisher   websocket.NoticePublisher
		redisClient *redis.Client
	)
	if addr := env.Get(env.ChatRedisURL); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: env.Get(env.ChatRedisPass),
			DB:       0,
		})
		notices := websocket.NewRedisNotices(redisClient, env.GetOrDefault(env.ChatNoticeChannel, websocket.DefaultNoticeChannel))
		publisher = notices
		go notices.Relay(hubCtx, hub)
		checks["redis"] = func(r *http.Request) error {
			return redisClient.Ping(r.Context()).Err()
		}
		log.Printf("[NOTICE]: relaying notices from redis channel %s", notices.Channel())
	} else {
		log.Printf("[NOTICE]: %s not set, notices are delivered in-process", env.ChatRedisURL)
	}

	handler := websocket.NewHandler(hub, websocket.HandlerConfig{
		Client: websocket.ClientConfig{
			PingInterval: env.GetDuration(env.ChatPingInterval, 0),
		},
		AllowedOrigins: origins,
	}, publisher)

	var signer *internaljwt.Signer
	if secret := env.Get(env.ServiceSecret); secret != "" {
		signer = internaljwt.NewSigner(secret, internaljwt.RoleService, internaljwt.DefaultTokenTTL)
	}

	server := api.NewAPIServer(
		api.Config{
			ListenAddr:     listenAddr,
			AllowedOrigins: origins,
			Signer:         signer,
			ServiceKeyHash: env.Get(env.ServiceKeyHash),
			MaxConnections: env.GetInt(env.ChatMaxConnections, 0),
		},
		queueManager,
		handler,
		router.UtilsRoutes(prefix, checks),
		router.ChatRoutes(prefix),
		router.AuthRoutes(prefix),
	)

	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("[HTTP]: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return server.Shutdown(ctx)
			},
			"chat-hub": func(ctx context.Context) error {
				stopHub()
				select {
				case <-hub.Stopped():
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
			"request-queue": func(ctx context.Context) error {
				queueManager.Shutdown()
				return nil
			},
			"redis": func(ctx context.Context) error {
				if redisClient == nil {
					return nil
				}
				return redisClient.Close()
			},
		},
	)

	exitCode := <-wait
	log.Printf("ws-server exited with code: %d", exitCode)
	os.Exit(exitCode)
}
