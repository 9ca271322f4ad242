package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/lugerh/TaskTree-API/db"
	"github.com/lugerh/TaskTree-API/handlers"
	"github.com/lugerh/TaskTree-API/logging"
	"github.com/lugerh/TaskTree-API/middleware"
	"github.com/lugerh/TaskTree-API/services"
)

func main() {
	logging.InitLogger()

	if err := godotenv.Load(); err != nil {
		logging.Logger.Warnf("Event ID: ENV_FILE_MISSING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx := context.Background()
	client, database, err := db.Connect(ctx, mongoURI, "tasktree")
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECT_FAILED, Description: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := db.EnsureIndexes(ctx, database); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	store := db.NewMongoStore(database)

	groupService := services.NewGroupService(store)
	projectService := services.NewProjectService(store, groupService)
	userService := services.NewUserService(store)

	if err := userService.EnsureAdminUser(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: ADMIN_SEED_FAILED, Description: %v", err)
	}

	projectHandler := handlers.NewProjectHandler(projectService)
	shareHandler := handlers.NewShareHandler(projectService)
	objectiveHandler := handlers.NewObjectiveHandler(projectService)
	taskHandler := handlers.NewTaskHandler(projectService)
	groupHandler := handlers.NewGroupHandler(groupService)
	userHandler := handlers.NewUserHandler(userService, groupService)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Register and login are the only routes reachable without a token.
	api.HandleFunc("/user/register", userHandler.Register).Methods("POST")
	api.HandleFunc("/user/login", userHandler.Login).Methods("POST")

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.JWTAuthMiddleware)

	protected.HandleFunc("/project/get", projectHandler.ListProjects).Methods("POST")
	protected.HandleFunc("/project/new", projectHandler.CreateProject).Methods("POST")
	protected.HandleFunc("/project/update", projectHandler.UpdateProject).Methods("POST")
	protected.HandleFunc("/project/delete", projectHandler.DeleteProject).Methods("POST")

	protected.HandleFunc("/project/share/getValid", shareHandler.GetValidShareUsers).Methods("POST")
	protected.HandleFunc("/project/share/getJoin", shareHandler.GetSharedUsers).Methods("POST")
	protected.HandleFunc("/project/share/add", shareHandler.AddShare).Methods("POST")
	protected.HandleFunc("/project/share/changeGroup", shareHandler.ChangeGroup).Methods("POST")
	protected.HandleFunc("/project/share/delete", shareHandler.RemoveShare).Methods("POST")

	protected.HandleFunc("/project/objective/new", objectiveHandler.CreateObjective).Methods("POST")
	protected.HandleFunc("/project/objective/update", objectiveHandler.UpdateObjective).Methods("POST")
	protected.HandleFunc("/project/objective/delete", objectiveHandler.DeleteObjective).Methods("POST")

	protected.HandleFunc("/project/task/new", taskHandler.CreateTask).Methods("POST")
	protected.HandleFunc("/project/task/update", taskHandler.UpdateTask).Methods("POST")
	protected.HandleFunc("/project/task/delete", taskHandler.DeleteTask).Methods("POST")

	protected.HandleFunc("/group/get", groupHandler.ListGroups).Methods("POST")
	protected.HandleFunc("/group/new", groupHandler.CreateGroup).Methods("POST")
	protected.HandleFunc("/group/addMember", groupHandler.AddMember).Methods("POST")

	protected.HandleFunc("/user/get", userHandler.ListUsers).Methods("POST")
	protected.HandleFunc("/user/getGroups", userHandler.GetUserGroups).Methods("POST")
	protected.HandleFunc("/user/config/get", userHandler.GetConfig).Methods("POST")
	protected.HandleFunc("/user/config/set", userHandler.SetConfig).Methods("POST")
	protected.HandleFunc("/user/config/reset", userHandler.ResetConfig).Methods("POST")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logging.Logger.Infof("Event ID: SERVER_STARTING, Description: TaskTree backend listening on port %s", port)
	if err := http.ListenAndServe(":"+port, enableCORS(r)); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FAILED, Description: %v", err)
	}
}

// enableCORS allows the frontend dev server to talk to the API.
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
