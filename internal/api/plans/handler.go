package plansapi

import (
	"log"
	"net/http"

	"coaching-app/database"
	"coaching-app/internal/domain/plans"
	"coaching-app/internal/infra/payments"

	"github.com/gin-gonic/gin"
)

type PlanWithPrice struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       *int64 `json:"price"`
	Currency    string `json:"currency"`
}

// ListPlans returns purchasable plans with their live provider price. A plan
// whose price lookup fails is still listed, just without a price.
func ListPlans(c *gin.Context) {
	var list []plans.Plan
	if err := database.DB.Where("full_access = ?", false).Order("id ASC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}

	result := make([]PlanWithPrice, 0, len(list))
	for _, p := range list {
		entry := PlanWithPrice{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
		}

		prices, err := payments.Default.ListPricesForProduct(c.Request.Context(), p.StripeProductID)
		if err != nil {
			log.Printf("Failed to fetch price for product %s: %v", p.StripeProductID, err)
		} else if len(prices) > 0 {
			amount := prices[0].UnitAmount
			entry.Price = &amount
			entry.Currency = string(prices[0].Currency)
		}

		result = append(result, entry)
	}

	c.JSON(http.StatusOK, result)
}

// SyncPlansFromStripe refreshes the local catalogue from the provider's
// active products (admin only). Plans are matched by product id; names and
// descriptions follow the provider.
func SyncPlansFromStripe(c *gin.Context) {
	products, err := payments.Default.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch Stripe products"})
		return
	}

	created := 0
	updated := 0

	for _, p := range products {
		if !p.Active {
			continue
		}

		var existing plans.Plan
		err := database.DB.Where("stripe_product_id = ?", p.ID).First(&existing).Error

		if err != nil {
			plan := plans.Plan{
				Name:            p.Name,
				Description:     p.Description,
				StripeProductID: p.ID,
			}
			if err := database.DB.Create(&plan).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create plan"})
				return
			}
			created++
		} else {
			existing.Name = p.Name
			existing.Description = p.Description
			if err := database.DB.Save(&existing).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plan"})
				return
			}
			updated++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"created": created,
		"updated": updated,
	})
}
