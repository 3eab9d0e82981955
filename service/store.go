package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Ra7ch/LeetSol/backend/config"
	"github.com/Ra7ch/LeetSol/backend/model"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReportStore persists completed audit reports to MongoDB. Reports are
// written once per submission and never updated or deleted afterwards.
type ReportStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewReportStore(ctx context.Context, cfg *config.MongoConfig) (*ReportStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	return &ReportStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// SaveReport writes one audit report. The creation timestamp is assigned
// here, at write time.
func (s *ReportStore) SaveReport(ctx context.Context, report *model.AuditReport) error {
	report.CreatedAt = time.Now()

	if _, err := s.collection.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to save audit report: %w", err)
	}
	return nil
}

// Close disconnects the underlying mongo client
func (s *ReportStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
