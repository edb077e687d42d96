package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"medpremium/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PostgresRepository stores prediction logs in PostgreSQL with pgvector
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the connection is alive
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const predictionColumns = `
	id, age, diabetes, blood_pressure_problems, any_transplants, any_chronic_diseases,
	height, weight, known_allergies, history_of_cancer_in_family, number_of_major_surgeries,
	bmi, tier, scale, raw_prediction, premium, created_at`

// SavePrediction inserts one prediction with its feature vector
func (r *PostgresRepository) SavePrediction(ctx context.Context, log *model.PredictionLog, features []float32) error {
	query := `
		INSERT INTO prediction_logs (` + predictionColumns + `, features)
		VALUES (
			:id, :age, :diabetes, :blood_pressure_problems, :any_transplants, :any_chronic_diseases,
			:height, :weight, :known_allergies, :history_of_cancer_in_family, :number_of_major_surgeries,
			:bmi, :tier, :scale, :raw_prediction, :premium, :created_at, :features
		)
	`
	row := struct {
		model.PredictionLog
		Features pgvector.Vector `db:"features"`
	}{
		PredictionLog: *log,
		Features:      pgvector.NewVector(features),
	}

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

// RecentPredictions returns the newest predictions first
func (r *PostgresRepository) RecentPredictions(ctx context.Context, limit int) ([]model.PredictionLog, error) {
	query := `SELECT ` + predictionColumns + `
		FROM prediction_logs
		ORDER BY created_at DESC
		LIMIT $1`

	logs := []model.PredictionLog{}
	if err := r.db.SelectContext(ctx, &logs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return logs, nil
}

// SimilarPredictions returns the predictions whose feature vectors are closest
// (L2 distance) to the prediction with the given id, excluding that prediction
func (r *PostgresRepository) SimilarPredictions(ctx context.Context, id string, limit int) ([]model.PredictionLog, error) {
	var anchor pgvector.Vector
	err := r.db.GetContext(ctx, &anchor, `SELECT features FROM prediction_logs WHERE id = $1`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, model.ErrPredictionNotFound
		}
		return nil, fmt.Errorf("failed to load prediction %s: %w", id, err)
	}

	query := `SELECT ` + predictionColumns + `, features <-> $1 AS distance
		FROM prediction_logs
		WHERE id <> $2
		ORDER BY features <-> $1
		LIMIT $3`

	logs := []model.PredictionLog{}
	if err := r.db.SelectContext(ctx, &logs, query, anchor, id, limit); err != nil {
		return nil, fmt.Errorf("failed to search similar predictions: %w", err)
	}
	return logs, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
