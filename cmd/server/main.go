package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Amirhan2201/ChatLink/internal/config"
	"github.com/Amirhan2201/ChatLink/internal/database"
	"github.com/Amirhan2201/ChatLink/internal/handlers"
	"github.com/Amirhan2201/ChatLink/internal/repository"
	"github.com/Amirhan2201/ChatLink/internal/services"
	"github.com/Amirhan2201/ChatLink/pkg/logger"
	"github.com/Amirhan2201/ChatLink/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewFriendRequestRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	chatRepo := repository.NewChatRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	txRunner := repository.NewTxRunner(db)

	// --- Services ---
	userService := services.NewUserService(userRepo, cfg.JWTSecret)
	friendService := services.NewFriendService(requestRepo, friendshipRepo, userRepo, blockRepo, txRunner)
	groupService := services.NewGroupService(groupRepo, invitationRepo, userRepo, chatRepo, txRunner)
	suggestionService := services.NewSuggestionService(friendshipRepo, requestRepo, userRepo)
	chatService := services.NewChatService(chatRepo, friendshipRepo, groupRepo)
	pinService := services.NewPinService(chatRepo)
	blockService := services.NewBlockService(blockRepo, friendshipRepo, requestRepo, txRunner)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService)
	friendHandler := handlers.NewFriendHandler(friendService, blockService)
	groupHandler := handlers.NewGroupHandler(groupService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)
	chatHandler := handlers.NewChatHandler(chatService, pinService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/search", userHandler.SearchUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")

	// Friend routes
	protectedFriendRoutes := router.PathPrefix("/friends").Subrouter()
	protectedFriendRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedFriendRoutes.HandleFunc("", friendHandler.ListFriendsHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/requests", friendHandler.SendRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/requests", friendHandler.ListPendingHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/requests/sent", friendHandler.ListSentHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/requests/{id}/accept", friendHandler.AcceptRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/requests/{id}/reject", friendHandler.RejectRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/requests/{id}", friendHandler.CancelRequestHandler).Methods("DELETE")
	protectedFriendRoutes.HandleFunc("/suggestions", suggestionHandler.SuggestHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/{id}", friendHandler.RemoveFriendHandler).Methods("DELETE")

	// Block routes
	protectedBlockRoutes := router.PathPrefix("/blocks").Subrouter()
	protectedBlockRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedBlockRoutes.HandleFunc("/{id}", friendHandler.BlockUserHandler).Methods("POST")
	protectedBlockRoutes.HandleFunc("/{id}", friendHandler.UnblockUserHandler).Methods("DELETE")

	// Group routes
	protectedGroupRoutes := router.PathPrefix("/groups").Subrouter()
	protectedGroupRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedGroupRoutes.HandleFunc("", groupHandler.CreateGroupHandler).Methods("POST")
	protectedGroupRoutes.HandleFunc("", groupHandler.ListGroupsHandler).Methods("GET")
	protectedGroupRoutes.HandleFunc("/join-requests", groupHandler.ListJoinRequestsHandler).Methods("GET")
	protectedGroupRoutes.HandleFunc("/join-requests/{id}/respond", groupHandler.RespondJoinRequestHandler).Methods("POST")
	protectedGroupRoutes.HandleFunc("/{id}", groupHandler.GetGroupHandler).Methods("GET")
	protectedGroupRoutes.HandleFunc("/{id}/join", groupHandler.RequestJoinHandler).Methods("POST")
	protectedGroupRoutes.HandleFunc("/{id}/members", groupHandler.AddMembersHandler).Methods("POST")
	protectedGroupRoutes.HandleFunc("/{id}/members/{userId}", groupHandler.RemoveMemberHandler).Methods("DELETE")
	protectedGroupRoutes.HandleFunc("/{id}/members/{userId}/role", groupHandler.ChangeRoleHandler).Methods("PUT")

	// Chat routes
	protectedChatRoutes := router.PathPrefix("/chats").Subrouter()
	protectedChatRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedChatRoutes.HandleFunc("", chatHandler.CreatePeerChatHandler).Methods("POST")
	protectedChatRoutes.HandleFunc("/{id}", chatHandler.GetChatHandler).Methods("GET")
	protectedChatRoutes.HandleFunc("/{id}/pins", chatHandler.GetPinnedHandler).Methods("GET")
	protectedChatRoutes.HandleFunc("/{id}/pins/{messageId}", chatHandler.PinMessageHandler).Methods("POST")
	protectedChatRoutes.HandleFunc("/{id}/pins/{messageId}", chatHandler.UnpinMessageHandler).Methods("DELETE")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
