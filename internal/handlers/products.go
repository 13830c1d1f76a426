package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"artezaar-backend/internal/models"
)

type ProductHandler struct {
	DB *gorm.DB
}

type publishRequest struct {
	Name         string            `json:"name" binding:"required"`
	Language     string            `json:"language" binding:"required"`
	Title        string            `json:"title" binding:"required"`
	Blurb        string            `json:"blurb"`
	Transcript   string            `json:"transcript"`
	Translations map[string]string `json:"translations"`
	Images       []string          `json:"images"`
	Category     string            `json:"category" binding:"required"`
	Price        *float64          `json:"price"`
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{DB: db}
}

// Publish creates the artisan profile and the product listing together.
// Both rows land in one transaction so a failed product insert cannot
// leave an orphaned profile behind.
func (h *ProductHandler) Publish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	profile := models.ArtisanProfile{
		Name:     req.Name,
		Language: req.Language,
	}
	product := models.Product{
		Title:           req.Title,
		Blurb:           req.Blurb,
		Transcript:      req.Transcript,
		Translations:    req.Translations,
		Images:          req.Images,
		Category:        req.Category,
		Price:           req.Price,
		ArtisanName:     req.Name,
		ArtisanLanguage: req.Language,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		product.ArtisanID = profile.ID
		return tx.Create(&product).Error
	})
	if err != nil {
		log.Printf("publish error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "publish failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"profile": profile, "product": product})
}

func (h *ProductHandler) List(c *gin.Context) {
	query := h.DB.Order("created_at desc")
	if category := c.Query("category"); category != "" && category != "All" {
		query = query.Where("category = ?", category)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var product models.Product
	if err := h.DB.First(&product, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Categories(c *gin.Context) {
	var categories []string
	if err := h.DB.Model(&models.Product{}).Distinct().Order("category asc").Pluck("category", &categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}
