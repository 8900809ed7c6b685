package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"postboard/app/controllers"
	"postboard/app/media"
	"postboard/app/metrics"
	"postboard/app/middleware"
	"postboard/app/services"

	"github.com/gorilla/mux"
)

// Config carries what the router needs to build every handler.
type Config struct {
	Services *services.Services
	Uploader media.Uploader
	GraphQL  http.Handler
	Metrics  *metrics.Metrics
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(cfg Config) *mux.Router {
	if cfg.Uploader == nil {
		cfg.Uploader = media.Disabled{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Trace)
	router.Use(middleware.Metrics(cfg.Metrics))

	router.NotFoundHandler = http.HandlerFunc(notFound)

	userController := controllers.NewUserController(cfg.Services.Users, cfg.Uploader)
	postController := controllers.NewPostController(cfg.Services.Posts, cfg.Uploader)
	commentController := controllers.NewCommentController(cfg.Services.Comments)
	engagementController := controllers.NewEngagementController(cfg.Services.Engagement)

	router.HandleFunc("/", controllers.Health).Methods("GET")
	router.Handle("/metrics", cfg.Metrics.Handler()).Methods("GET")
	if cfg.GraphQL != nil {
		router.Handle("/graphql", cfg.GraphQL).Methods("GET", "POST")
	}

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)

	// Public endpoints
	api.HandleFunc("/users/signup", userController.Signup).Methods("POST")
	api.HandleFunc("/users/login", userController.Login).Methods("POST")

	// Everything else needs a current session
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Authenticate(cfg.Services.Auth))

	users := protected.PathPrefix("/users").Subrouter()
	users.HandleFunc("/getAllUsers", userController.GetAllUsers).Methods("GET")
	users.HandleFunc("/getUserById", userController.GetUserByID).Methods("POST")
	users.HandleFunc("/updateUser", userController.UpdateUser).Methods("PUT")
	users.HandleFunc("/deleteUser", userController.DeleteUser).Methods("DELETE")
	users.HandleFunc("/logout", userController.Logout).Methods("POST")

	posts := protected.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("/createPost", postController.CreatePost).Methods("POST")
	posts.HandleFunc("/getAllPosts", postController.GetAllPosts).Methods("GET")
	posts.HandleFunc("/getPostById", postController.GetPostByID).Methods("POST")
	posts.HandleFunc("/updatePost", postController.UpdatePost).Methods("PUT")
	posts.HandleFunc("/deletePost", postController.DeletePost).Methods("DELETE")

	comments := protected.PathPrefix("/comments").Subrouter()
	comments.HandleFunc("/addComment", commentController.AddComment).Methods("POST")
	comments.HandleFunc("/getCommentsByPost", commentController.GetCommentsByPost).Methods("POST")
	comments.HandleFunc("/deleteComment", commentController.DeleteComment).Methods("DELETE")

	protected.HandleFunc("/likes/addlike", engagementController.AddLike).Methods("POST")
	protected.HandleFunc("/ratings/ratePost", engagementController.RatePost).Methods("POST")

	return router
}

func notFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
		return
	}
	http.NotFound(w, r)
}
