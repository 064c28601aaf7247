package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swapdeal/swapdeal-api/internal/models"
	pkgerrors "github.com/swapdeal/swapdeal-api/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const productCollectionName = "products"

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection(productCollectionName)}
}

type productDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	SellerEmail  string             `bson:"seller_email"`
	Category     string             `bson:"category"`
	Price        float64            `bson:"price"`
	SaleStatus   string             `bson:"sale_status"`
	IsAdvertised bool               `bson:"is_advertised"`
	IsReported   bool               `bson:"is_reported"`
	Image        string             `bson:"image,omitempty"`
	Location     string             `bson:"location,omitempty"`
	CreatedAt    primitive.DateTime `bson:"created_at"`
}

func toProductDocument(p *models.Product) *productDocument {
	return &productDocument{
		Name:         p.Name,
		SellerEmail:  p.SellerEmail,
		Category:     p.Category,
		Price:        p.Price,
		SaleStatus:   string(p.SaleStatus),
		IsAdvertised: p.IsAdvertised,
		IsReported:   p.IsReported,
		Image:        p.Image,
		Location:     p.Location,
		CreatedAt:    primitive.NewDateTimeFromTime(p.CreatedAt),
	}
}

func toProduct(doc *productDocument) models.Product {
	return models.Product{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		SellerEmail:  doc.SellerEmail,
		Category:     doc.Category,
		Price:        doc.Price,
		SaleStatus:   models.SaleStatus(doc.SaleStatus),
		IsAdvertised: doc.IsAdvertised,
		IsReported:   doc.IsReported,
		Image:        doc.Image,
		Location:     doc.Location,
		CreatedAt:    doc.CreatedAt.Time(),
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) (string, error) {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	res, err := r.collection.InsertOne(ctx, toProductDocument(product))
	if err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, pkgerrors.ErrProductNotFound
	}

	var doc productDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by id %s: %w", id, err)
	}
	product := toProduct(&doc)
	return &product, nil
}

func (r *ProductRepository) list(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for i := range docs {
		products = append(products, toProduct(&docs[i]))
	}
	return products, nil
}

func (r *ProductRepository) ListByCategory(ctx context.Context, category string, excludeSold bool) ([]models.Product, error) {
	filter := bson.M{"category": category}
	if excludeSold {
		filter["sale_status"] = bson.M{"$ne": string(models.SalePaid)}
	}
	return r.list(ctx, filter)
}

func (r *ProductRepository) ListBySeller(ctx context.Context, email string) ([]models.Product, error) {
	return r.list(ctx, bson.M{"seller_email": email})
}

func (r *ProductRepository) ListAdvertised(ctx context.Context) ([]models.Product, error) {
	return r.list(ctx, bson.M{
		"is_advertised": true,
		"sale_status":   bson.M{"$ne": string(models.SalePaid)},
	})
}

func (r *ProductRepository) ListReported(ctx context.Context) ([]models.Product, error) {
	return r.list(ctx, bson.M{"is_reported": true})
}

// SetAdvertised promotes the product: the flag for the listing pages plus
// the sale status step. Repeating it leaves the document unchanged. No
// upsert: a missing product is an error.
func (r *ProductRepository) SetAdvertised(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, bson.M{
		"is_advertised": true,
		"sale_status":   string(models.SaleAdvertised),
	})
}

// SetReported is sticky: there is no operation that clears the flag.
func (r *ProductRepository) SetReported(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, bson.M{"is_reported": true})
}

func (r *ProductRepository) setFlag(ctx context.Context, id string, fields bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return pkgerrors.ErrProductNotFound
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return pkgerrors.ErrProductNotFound
	}
	return nil
}

// MarkSoldByName updates every product carrying the name; the name is not a
// unique key. Returns the number of matched products.
func (r *ProductRepository) MarkSoldByName(ctx context.Context, name string) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"name": name},
		bson.M{"$set": bson.M{"sale_status": string(models.SalePaid)}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark products sold by name %s: %w", name, err)
	}
	if result.MatchedCount == 0 {
		return 0, pkgerrors.ErrProductNotFound
	}
	return result.MatchedCount, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return pkgerrors.ErrProductNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return pkgerrors.ErrProductNotFound
	}
	return nil
}
