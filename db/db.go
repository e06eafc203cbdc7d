package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection          *mongo.Collection
	ProductsCollection      *mongo.Collection
	CartCollection          *mongo.Collection
	OrdersCollection        *mongo.Collection
	SubscriptionsCollection *mongo.Collection
	MessagesCollection      *mongo.Collection
	BannersCollection       *mongo.Collection
	FarmDetailsCollection   *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("farmermall")
	UserCollection = database.Collection("users")
	ProductsCollection = database.Collection("products")
	CartCollection = database.Collection("cart")
	OrdersCollection = database.Collection("orders")
	SubscriptionsCollection = database.Collection("subscriptions")
	MessagesCollection = database.Collection("messages")
	BannersCollection = database.Collection("banners")
	FarmDetailsCollection = database.Collection("farm_details")
}
