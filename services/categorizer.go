package services

import (
	"context"
	"log"
	"strings"

	"github.com/triptally/triptally-api/models"
	"github.com/triptally/triptally-api/repository"
)

// categoryPredictor is the AI capability the categorizer falls back to.
// Satisfied by *AICategorizer; tests inject a stub.
type categoryPredictor interface {
	PredictCategory(ctx context.Context, description string) (models.ExpenseCategory, error)
}

type CategorizerService struct {
	cache repository.LabelMappingCache
	ai    categoryPredictor
}

// NewCategorizerService builds the three-stage categorizer: static keywords,
// DB cache, AI. cache may be nil (no caching), ai may be nil (keywords only).
func NewCategorizerService(cache repository.LabelMappingCache, ai categoryPredictor) *CategorizerService {
	return &CategorizerService{cache: cache, ai: ai}
}

// --- STATIC KEYWORD RULES ---
// English and Hebrew travel vocabulary. First match wins, in category order.
var categoryKeywords = map[models.ExpenseCategory][]string{
	models.CategoryFlight: {
		"flight", "טיסה", "טיסות", "טיסת", "כרטיס טיסה", "plane", "airplane",
		"אל על", "elal", "wizz", "ryanair", "easyjet",
	},
	models.CategoryAccommodation: {
		"hotel", "מלון", "אירוח", "לינה", "נופש", "resort", "airbnb", "booking",
		"hostel", "inn", "suite", "חדר",
	},
	models.CategoryFood: {
		"food", "אוכל", "מסעדה", "restaurant", "ארוחה", "ארוחת", "ארוחות",
		"קפה", "coffee", "bar", "פיצה", "pizza", "שתייה", "drink", "burger",
		"breakfast", "lunch", "dinner", "מקדונלדס",
	},
	models.CategoryTransport: {
		"transport", "תחבורה", "אוטובוס", "bus", "רכבת", "train", "מונית",
		"taxi", "uber", "דלק", "gas", "חנייה", "parking", "רכב", "car",
		"השכרת רכב", "rental", "נסיעה",
	},
	models.CategoryInsurance: {
		"insurance", "ביטוח", "ביטוח נסיעות", "travel insurance",
		"ביטוח רפואי", "health insurance",
	},
	models.CategoryActivity: {
		"activity", "בידור", "פעילות", "כניסה", "ticket", "מוזיאון", "museum",
		"קולנוע", "cinema", "תיאטרון", "theater", "פארק", "park", "attraction",
		"tour", "כרטיס כניסה", "אטרקציה", "קניות", "shopping", "חנות", "store",
		"מזכרת", "souvenir",
	},
	models.CategoryMisc: {
		"misc", "שונות", "אחר", "other", "עמלה", "fee", "טיפ", "tip",
		"חילופי כסף", "עמלת המרה",
	},
}

// GetCategory resolves a free-text description to a category.
// Resolution order: static keywords, DB cache, AI call. The AI result is
// cached in the background so the same label never costs two calls.
// Failures never surface as errors to expense creation — misc is the floor.
func (s *CategorizerService) GetCategory(ctx context.Context, description string) models.ExpenseCategory {
	normalized := strings.ToLower(strings.TrimSpace(description))
	if normalized == "" {
		return models.CategoryMisc
	}

	// 1. Static rules
	for _, cat := range models.ExpenseCategories {
		for _, keyword := range categoryKeywords[cat] {
			if strings.Contains(normalized, keyword) {
				return cat
			}
		}
	}

	// 2. DB cache
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, normalized); ok {
			if cat := models.ExpenseCategory(cached); cat.Valid() {
				return cat
			}
		}
	}

	// 3. AI call
	if s.ai == nil {
		return models.CategoryMisc
	}
	log.Printf("[Categorizer] Calling AI for '%s'...", normalized)
	category, err := s.ai.PredictCategory(ctx, description)
	if err != nil {
		log.Printf("[Categorizer] AI error: %v", err)
		return models.CategoryMisc
	}

	if s.cache != nil {
		go func(label string, cat models.ExpenseCategory) {
			if err := s.cache.Put(context.Background(), label, string(cat), "AI"); err != nil {
				log.Printf("[Categorizer] Failed to cache: %v", err)
			}
		}(normalized, category)
	}

	return category
}
