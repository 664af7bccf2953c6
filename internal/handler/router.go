package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter собирает HTTP-роутер сервиса. Все эндпоинты — POST с JSON-телом,
// так их зовут страницы редактора; preflight OPTIONS закрывает cors-middleware.
func NewRouter(outlineHandler *OutlineHandler, topicHandler *TopicHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Post("/update_outline", outlineHandler.UpdateOutline)
	r.Post("/update_outline_auth", outlineHandler.UpdateOutlineAuth)
	r.Post("/list_outline_versions", outlineHandler.ListOutlineVersions)

	r.Post("/get_topic", topicHandler.GetTopic)
	r.Post("/list_topics", topicHandler.ListTopics)
	r.Post("/list_units", topicHandler.ListUnits)
	r.Post("/list_contents", topicHandler.ListContents)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
