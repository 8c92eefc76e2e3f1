package httpapi

import (
	"net/http"
	"time"

	"portfolio-backend-go/internal/config"
	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/pdfthumb"
	"portfolio-backend-go/internal/services"
	"portfolio-backend-go/internal/storage"
	"portfolio-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Store       store.Store
	Config      config.Config
	Tokens      services.TokenService
	Admin       services.Admin
	Ingestor    *services.Ingestor
	Diagnostics services.Diagnostics
	Log         logrus.FieldLogger
	// Local is set when uploads are written to disk and served from /media.
	Local *storage.Local

	Careers      *services.Repository[models.Career]
	Educations   *services.Repository[models.Education]
	TechStacks   *services.Repository[models.TechStack]
	Projects     *services.ProjectRepository
	Achievements *services.Repository[models.Achievement]
	ContactLinks *services.Repository[models.ContactLink]
	BentoGrid    *services.Repository[models.BentoGridImage]
	Hero         *services.SingletonRepository[models.HeroContent]
	About        *services.SingletonRepository[models.AboutContent]
	Sidebar      *services.SingletonRepository[models.SidebarProfile]
}

func NewServer(st store.Store, bucket storage.Bucket, renderer pdfthumb.Renderer, cfg config.Config, log logrus.FieldLogger) *Server {
	tokens := services.TokenService{
		Secret:    []byte(cfg.JWTSecret),
		Issuer:    cfg.JWTIssuer,
		AccessTTL: time.Duration(cfg.AccessTTLSeconds) * time.Second,
	}
	ingest := services.IngestConfig{
		MaxImageBytes: cfg.MaxImageBytes,
		MaxPDFBytes:   cfg.MaxPDFBytes,
		DefaultFolder: cfg.UploadFolder,
	}
	s := &Server{
		Store:  st,
		Config: cfg,
		Tokens: tokens,
		Admin: services.Admin{
			Email:        cfg.AdminEmail,
			PasswordHash: cfg.AdminPasswordHash,
			Tokens:       tokens,
		},
		Ingestor: services.NewIngestor(bucket, renderer, ingest, log),
		Diagnostics: services.Diagnostics{
			Store:    st,
			Config:   cfg.Status(),
			DiskPath: cfg.MediaStoragePath,
		},
		Log: log,

		Careers:      services.NewRepository[models.Career](st, services.CareerSchema),
		Educations:   services.NewRepository[models.Education](st, services.EducationSchema),
		TechStacks:   services.NewRepository[models.TechStack](st, services.TechStackSchema),
		Projects:     services.NewProjectRepository(st, log),
		Achievements: services.NewRepository[models.Achievement](st, services.AchievementSchema),
		ContactLinks: services.NewRepository[models.ContactLink](st, services.ContactLinkSchema),
		BentoGrid:    services.NewRepository[models.BentoGridImage](st, services.BentoGridSchema),
		Hero:         services.NewSingletonRepository(st, services.HeroSchema, services.DefaultHero),
		About:        services.NewSingletonRepository(st, services.AboutSchema, services.DefaultAbout),
		Sidebar:      services.NewSingletonRepository(st, services.SidebarSchema, services.DefaultSidebar),
	}
	switch b := bucket.(type) {
	case storage.Local:
		s.Local = &b
	case *storage.Local:
		s.Local = b
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.Log))
	r.Use(middleware.Recoverer)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	auth := WithAuth(s.Tokens)
	r.Get("/health", s.Health)

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/login", s.Login)
		api.Get("/test-connection", s.TestConnection)
		api.Post("/send-email", s.SendEmail)

		mountSingleton(api, "/hero", s.Hero, auth)
		mountSingleton(api, "/about", s.About, auth)
		mountSingleton(api, "/sidebar-profile", s.Sidebar, auth)

		mountResource(api, "/careers", resource[models.Career]{repo: s.Careers, schema: services.CareerSchema}, auth)
		mountResource(api, "/educations", resource[models.Education]{repo: s.Educations, schema: services.EducationSchema}, auth)
		mountResource(api, "/tech-stacks", resource[models.TechStack]{repo: s.TechStacks, schema: services.TechStackSchema}, auth)
		mountResource(api, "/projects", resource[models.Project]{repo: s.Projects, schema: services.ProjectSchema}, auth)
		mountResource(api, "/achievements", resource[models.Achievement]{repo: s.Achievements, schema: services.AchievementSchema}, auth)
		mountResource(api, "/contact-links", resource[models.ContactLink]{repo: s.ContactLinks, schema: services.ContactLinkSchema}, auth)
		mountResource(api, "/bento-grid", resource[models.BentoGridImage]{
			repo:     s.BentoGrid,
			schema:   services.BentoGridSchema,
			filters:  bentoFilters,
			fallback: bentoFallback,
		}, auth)

		api.Group(func(admin chi.Router) {
			admin.Use(auth)
			admin.Post("/upload", s.Upload)
			admin.Post("/upload-achievement", s.UploadAchievement)
		})
	})

	if s.Local != nil {
		r.Get("/media/{bucket}/*", s.MediaContent)
	}
	return r
}

func bentoFilters(r *http.Request) []store.Filter {
	if kind := r.URL.Query().Get("type"); kind != "" {
		return []store.Filter{store.Eq("type", kind)}
	}
	return nil
}

func bentoFallback(r *http.Request) []models.BentoGridImage {
	return services.DefaultBentoImages(r.URL.Query().Get("type"))
}
