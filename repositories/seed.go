package repositories

import (
	"context"
	"fmt"

	"storefront/models"
)

const (
	DemoAdminEmail    = "admin@storefront.local"
	DemoCustomerEmail = "demo@storefront.local"
	DemoPassword      = "password123"
)

// SeedDemo fills an empty store with a small catalog, two accounts and a few
// moderated reviews. hash encodes the shared demo password.
func SeedDemo(ctx context.Context, store *Store, hash func(string) (string, error)) error {
	encoded, err := hash(DemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	for _, u := range []models.User{
		{Name: "Admin", Email: DemoAdminEmail, Password: encoded, Role: models.RoleAdmin},
		{Name: "Demo Customer", Email: DemoCustomerEmail, Password: encoded, Role: models.RoleCustomer},
	} {
		if err := store.Users.Create(ctx, &u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	apparel := &models.Category{Name: "Apparel", IsActive: true, Position: 1}
	accessories := &models.Category{Name: "Accessories", IsActive: true, Position: 2}
	for _, c := range []*models.Category{apparel, accessories} {
		if err := store.Products.CreateCategory(ctx, c); err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
	}

	products := []models.Product{
		{
			Name:        "Organic Cotton Tee",
			Description: "Heavyweight tee in undyed organic cotton",
			Price:       25,
			CategoryID:  apparel.ID,
			SizeStock:   []models.SizeStock{{Size: "S", Stock: 5}, {Size: "M", Stock: 8}, {Size: "L", Stock: 2}},
			Images:      []string{"https://cdn.storefront.local/tee.jpg"},
			Material:    "Organic cotton",
			EcoFriendly: true,
			Rating:      4.6,
			IsActive:    true,
		},
		{
			Name:        "Recycled Hoodie",
			Description: "Fleece hoodie made from recycled bottles",
			Price:       60,
			CategoryID:  apparel.ID,
			SizeStock:   []models.SizeStock{{Size: "M", Stock: 3}, {Size: "L", Stock: 0}},
			Images:      []string{"https://cdn.storefront.local/hoodie.jpg"},
			Material:    "Recycled polyester",
			EcoFriendly: true,
			Rating:      4.8,
			IsActive:    true,
		},
		{
			Name:        "Canvas Tote",
			Description: "Everyday tote bag",
			Price:       15,
			CategoryID:  accessories.ID,
			Stock:       20,
			Images:      []string{"https://cdn.storefront.local/tote.jpg"},
			Material:    "Hemp canvas",
			EcoFriendly: true,
			Rating:      4.2,
			IsActive:    true,
		},
	}
	for i := range products {
		if err := store.Products.Create(ctx, &products[i]); err != nil {
			return fmt.Errorf("seed product %s: %w", products[i].Name, err)
		}
	}

	for _, r := range []models.Review{
		{Author: "Lucia", Title: "Great fit", Content: "Soft fabric and true to size.", Rating: 5, Status: models.ReviewPending},
		{Author: "Marco", Title: "Solid tote", Content: "Carries my laptop fine.", Rating: 4, Status: models.ReviewPending},
	} {
		if err := store.Reviews.Create(ctx, &r); err != nil {
			return fmt.Errorf("seed review: %w", err)
		}
		if err := store.Reviews.UpdateStatus(ctx, r.ID, models.ReviewApproved, true); err != nil {
			return fmt.Errorf("approve seed review: %w", err)
		}
	}
	return nil
}
