package mongo

import (
	"log"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/storefront-labs/checkout-api/pkg/global"
)

var client *mongo.Client

func InitMongoDB() {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)

	clientOptions := options.Client().ApplyURI(global.GetMongoURI()).SetServerAPIOptions(serverAPI)
	c, err := mongo.Connect(clientOptions)
	if err != nil {
		log.Fatalf("Failed to create MongoDB client: %v", err)
	}

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	// Ping the database to verify connection
	if err := c.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	client = c
	log.Println("Connected to MongoDB successfully")
}

func Client() *mongo.Client {
	return client
}

func GetDatabase() *mongo.Database {
	return client.Database(global.GetDatabaseName())
}

func GetCollection(collectionName string) *mongo.Collection {
	return GetDatabase().Collection(collectionName)
}
