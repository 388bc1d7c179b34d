package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bidtrack/db"
	"bidtrack/db/migrations"
	"bidtrack/internal/config"
	"bidtrack/internal/feed"
	"bidtrack/internal/handlers"
	"bidtrack/internal/recon"
	"bidtrack/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Cannot build logger: %v", err)
	}
	defer logger.Sync()

	dbConn, err := sqlx.Connect("postgres", cfg.PostgresConn)
	if err != nil {
		logger.Fatal("Cannot connect to DB", zap.Error(err))
	}
	defer dbConn.Close()

	if err := migrations.Run(cfg.PostgresConn); err != nil {
		logger.Fatal("Migrations failed", zap.Error(err))
	}

	storage := db.NewStorage(dbConn)

	// Проекция и движок примирения собираются один раз и передаются
	// по ссылке: и мутации, и push-события работают с одним стором
	projection := store.New()
	reconciler := recon.NewReconciler(projection, logger)
	coordinator := recon.NewCoordinator(storage, reconciler, projection, logger)

	if err := loadProjection(context.Background(), storage, projection); err != nil {
		logger.Fatal("Initial load failed", zap.Error(err))
	}

	transport := feed.NewPGTransport(cfg.PostgresConn, logger)
	defer transport.Close()

	listener := feed.NewListener(transport, reconciler, logger)
	if err := listener.Start(); err != nil {
		logger.Fatal("Cannot start change feed", zap.Error(err))
	}
	defer listener.Close()

	h := handlers.NewHandler(coordinator, projection, storage)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)
		// проекты
		r.Get("/bids", h.GetBidsHandler)
		r.Post("/bids/new", h.CreateBidHandler)
		r.Post("/bids/with-vendors", h.CreateBidWithVendorsHandler)
		r.Patch("/bids/{bidId}", h.EditBidHandler)
		r.Delete("/bids/{bidId}", h.DeleteBidHandler)
		r.Put("/bids/{bidId}/archive", h.ArchiveBidHandler)
		r.Put("/bids/{bidId}/hold", h.HoldBidHandler)
		r.Put("/bids/{bidId}/convert", h.ConvertBidHandler)
		r.Get("/bids/{bidId}/notes", h.GetBidNotesHandler)
		// подрядчики
		r.Get("/vendors", h.GetVendorsHandler)
		r.Post("/vendors/new", h.CreateVendorHandler)
		r.Patch("/vendors/{vendorId}", h.EditVendorHandler)
		r.Delete("/vendors/{vendorId}", h.DeleteVendorHandler)
		// привязки
		r.Get("/assignments", h.GetAssignmentsHandler)
		r.Post("/assignments/new", h.CreateAssignmentHandler)
		r.Post("/assignments/bulk-remove", h.BulkRemoveAssignmentsHandler)
		r.Patch("/assignments/{assignmentId}", h.EditAssignmentHandler)
		r.Delete("/assignments/{assignmentId}", h.DeleteAssignmentHandler)
		// заметки
		r.Post("/notes/new", h.CreateNoteHandler)
		r.Delete("/notes/{noteId}", h.DeleteNoteHandler)
		// пользователи
		r.Get("/users", h.GetUsersHandler)
		// напоминания по фазам
		r.Get("/tasks", h.GetTasksHandler)
	})

	logger.Info("Starting server", zap.String("addr", cfg.ServerAddress))
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// loadProjection наполняет проекцию начальным состоянием из базы.
// getAll-запросы используются только здесь, дальше проекцию ведет
// канал изменений.
func loadProjection(ctx context.Context, storage *db.Storage, projection *store.Store) error {
	bids, err := storage.GetAllBids(ctx)
	if err != nil {
		return err
	}
	for _, b := range bids {
		projection.UpsertBid(b)
	}
	vendors, err := storage.GetAllVendors(ctx)
	if err != nil {
		return err
	}
	for _, v := range vendors {
		projection.UpsertVendor(v)
	}
	assignments, err := storage.GetAllAssignments(ctx)
	if err != nil {
		return err
	}
	for _, a := range assignments {
		projection.UpsertAssignment(a)
	}
	notes, err := storage.GetAllNotes(ctx)
	if err != nil {
		return err
	}
	for _, n := range notes {
		projection.UpsertNote(n)
	}
	return nil
}
