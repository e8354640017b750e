package models

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

const (
	PropertiesTable = "properties"
	SettingsTable   = "settings"
	BookingsTable   = "bookings"
)

type SupabaseRepo struct {
	supabaseClient *supabase.Client
	url            string
	key            string
	logger         *slog.Logger
}

func SupabaseNewRepo(supabaseClient *supabase.Client, url, key string) *SupabaseRepo {
	return &SupabaseRepo{
		supabaseClient: supabaseClient,
		url:            url,
		key:            key,
		logger:         slog.Default(),
	}
}

func (su *SupabaseRepo) WithLogger(logger *slog.Logger) *SupabaseRepo {
	if logger != nil {
		su.logger = logger
	}
	return su
}

// GetAuthenticatedClient returns a Supabase client acting under the given access token,
// so row level security applies to admin writes.
func (su *SupabaseRepo) GetAuthenticatedClient(accessToken string) (*supabase.Client, error) {
	if accessToken == "" || su.url == "" || su.key == "" {
		return su.supabaseClient, nil
	}

	options := &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + accessToken,
		},
	}

	return supabase.NewClient(su.url, su.key, options)
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialised")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}
